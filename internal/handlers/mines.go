package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valoratbot-casino/internal/games"
	"valoratbot-casino/internal/games/mines"
	"valoratbot-casino/internal/models"
)

type minesSession struct {
	sessionMeta
	State *mines.State `json:"state"`
}

// Mines handles POST /api/casino/mines. The bomb layout stays inside
// the cookie; the response only ever echoes cells the player already
// revealed until the round ends.
func (h *CasinoHandler) Mines(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.MinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if !h.checkRateLimit(c, req.GuildID, userID, req.Action) {
		return
	}

	switch req.Action {
	case "start":
		h.minesStart(c, &req, userID)
	case "pick":
		h.minesPick(c, &req, userID)
	case "cashout":
		h.minesCashout(c, &req, userID)
	default:
		h.respondError(c, models.GameTypeMines, games.ErrBadAction)
	}
}

func (h *CasinoHandler) minesStart(c *gin.Context, req *models.MinesRequest, userID string) {
	if err := validateWager(req.Wager, h.cfg.MaxBetMines); err != nil {
		h.respondError(c, models.GameTypeMines, err)
		return
	}

	var existing minesSession
	if h.readSession(c, models.GameTypeMines, &existing) &&
		existing.owned(req.GuildID, userID) &&
		existing.State != nil && existing.State.Status == mines.StatusPlaying {
		h.respondError(c, models.GameTypeMines, games.ErrStateConflict)
		return
	}

	state, err := mines.Start(req.Wager, req.Mines, newRNG())
	if err != nil {
		h.respondError(c, models.GameTypeMines, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.wallet.Debit(ctx, req.GuildID, userID, req.Wager, "mines wager"); err != nil {
		h.respondError(c, models.GameTypeMines, err)
		return
	}

	h.countStart(models.GameTypeMines)

	sess := minesSession{
		sessionMeta: newSessionMeta(req.GuildID, userID),
		State:       state,
	}

	if err := h.redis.OpenSession(sess.ID); err != nil {
		h.respondError(c, models.GameTypeMines, err)
		return
	}
	if err := h.writeSession(c, models.GameTypeMines, &sess); err != nil {
		h.respondError(c, models.GameTypeMines, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "game": state.ClientView()})
}

func (h *CasinoHandler) minesPick(c *gin.Context, req *models.MinesRequest, userID string) {
	sess, ok := h.minesResume(c, req, userID)
	if !ok {
		return
	}

	result, err := sess.State.Pick(req.Cell)
	if err != nil {
		if werr := h.writeSession(c, models.GameTypeMines, sess); werr != nil {
			h.respondError(c, models.GameTypeMines, werr)
			return
		}
		h.respondError(c, models.GameTypeMines, err)
		return
	}

	if result.Done {
		h.minesSettle(c, sess, result.Payout, result.Multiplier, gin.H{
			"success": true,
			"pick":    result,
			"game":    sess.State.ClientView(),
		})
		return
	}

	if err := h.writeSession(c, models.GameTypeMines, sess); err != nil {
		h.respondError(c, models.GameTypeMines, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"pick":    result,
		"game":    sess.State.ClientView(),
	})
}

func (h *CasinoHandler) minesCashout(c *gin.Context, req *models.MinesRequest, userID string) {
	sess, ok := h.minesResume(c, req, userID)
	if !ok {
		return
	}

	payout, mult, err := sess.State.Cashout()
	if err != nil {
		if werr := h.writeSession(c, models.GameTypeMines, sess); werr != nil {
			h.respondError(c, models.GameTypeMines, werr)
			return
		}
		h.respondError(c, models.GameTypeMines, err)
		return
	}

	h.minesSettle(c, sess, payout, mult, gin.H{
		"success": true,
		"payout":  payout,
		"game":    sess.State.ClientView(),
	})
}

// minesResume decodes and consumes one step of a live mines session.
func (h *CasinoHandler) minesResume(c *gin.Context, req *models.MinesRequest, userID string) (*minesSession, bool) {
	var sess minesSession
	if !h.readSession(c, models.GameTypeMines, &sess) ||
		!sess.owned(req.GuildID, userID) || sess.State == nil {
		h.respondError(c, models.GameTypeMines, games.ErrNoGame)
		return nil, false
	}

	if err := h.redis.AdvanceSession(sess.ID, sess.Seq); err != nil {
		h.clearSession(c, models.GameTypeMines)
		h.respondError(c, models.GameTypeMines, err)
		return nil, false
	}
	sess.Seq++
	return &sess, true
}

func (h *CasinoHandler) minesSettle(c *gin.Context, sess *minesSession, payout int64, mult float64, body gin.H) {
	var balance int64
	var err error
	if payout > 0 {
		balance, err = h.wallet.Credit(c.Request.Context(), sess.GuildID, sess.UserID, payout, "mines payout")
	} else {
		balance, err = h.wallet.Balance(c.Request.Context(), sess.GuildID, sess.UserID)
	}
	if err != nil {
		h.respondError(c, models.GameTypeMines, err)
		return
	}

	h.clearSession(c, models.GameTypeMines)
	if cerr := h.redis.CloseSession(sess.ID); cerr != nil {
		h.logger.Warn("close session failed", zap.String("session_id", sess.ID), zap.Error(cerr))
	}

	if payout == 0 {
		mult = 0
	}
	h.finishRound(sess.GuildID, sess.UserID, models.GameTypeMines, sess.State.Wager, payout, mult)

	body["balance"] = balance
	c.JSON(http.StatusOK, body)
}
