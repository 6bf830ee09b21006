package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valoratbot-casino/internal/games"
	"valoratbot-casino/internal/games/crash"
	"valoratbot-casino/internal/models"
)

type crashSession struct {
	sessionMeta
	State *crash.State `json:"state"`
}

// Crash handles POST /api/casino/crash. The secret crash point is drawn
// at start and stays inside the cookie; the client animates the curve
// and calls back with a claimed multiplier to cash out.
func (h *CasinoHandler) Crash(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.CrashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if !h.checkRateLimit(c, req.GuildID, userID, req.Action) {
		return
	}

	switch req.Action {
	case "start":
		h.crashStart(c, &req, userID)
	case "cashout":
		h.crashCashout(c, &req, userID)
	default:
		h.respondError(c, models.GameTypeCrash, games.ErrBadAction)
	}
}

func (h *CasinoHandler) crashStart(c *gin.Context, req *models.CrashRequest, userID string) {
	if err := validateWager(req.Wager, h.cfg.MaxBetCrash); err != nil {
		h.respondError(c, models.GameTypeCrash, err)
		return
	}

	// A round still in the cookie was never cashed out; it settles as
	// a loss before the fresh one opens.
	forfeited := false
	var stale crashSession
	if h.readSession(c, models.GameTypeCrash, &stale) && stale.owned(req.GuildID, userID) && stale.State != nil {
		if cerr := h.redis.CloseSession(stale.ID); cerr != nil {
			h.logger.Warn("close stale session failed", zap.String("session_id", stale.ID), zap.Error(cerr))
		}
		h.finishRound(req.GuildID, userID, models.GameTypeCrash, stale.State.Wager, 0, 0)
		forfeited = true
	}

	ctx := c.Request.Context()
	if _, err := h.wallet.Debit(ctx, req.GuildID, userID, req.Wager, "crash wager"); err != nil {
		// The forfeited round's redis marker is gone; the cookie must
		// not outlive it.
		if forfeited {
			h.clearSession(c, models.GameTypeCrash)
		}
		h.respondError(c, models.GameTypeCrash, err)
		return
	}

	h.countStart(models.GameTypeCrash)

	sess := crashSession{
		sessionMeta: newSessionMeta(req.GuildID, userID),
		State:       crash.Start(req.Wager, newRNG(), time.Now()),
	}

	if err := h.redis.OpenSession(sess.ID); err != nil {
		h.respondError(c, models.GameTypeCrash, err)
		return
	}
	if err := h.writeSession(c, models.GameTypeCrash, &sess); err != nil {
		h.respondError(c, models.GameTypeCrash, err)
		return
	}

	// The crash point stays secret until the round ends.
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"wager":      req.Wager,
		"started_at": sess.State.StartedAt,
	})
}

func (h *CasinoHandler) crashCashout(c *gin.Context, req *models.CrashRequest, userID string) {
	var sess crashSession
	if !h.readSession(c, models.GameTypeCrash, &sess) ||
		!sess.owned(req.GuildID, userID) || sess.State == nil {
		h.respondError(c, models.GameTypeCrash, games.ErrNoGame)
		return
	}

	if err := h.redis.AdvanceSession(sess.ID, sess.Seq); err != nil {
		h.clearSession(c, models.GameTypeCrash)
		h.respondError(c, models.GameTypeCrash, err)
		return
	}
	sess.Seq++

	result, err := sess.State.Cashout(req.Multiplier, time.Now())
	if err != nil {
		// A malformed or implausible claim does not end the round.
		if werr := h.writeSession(c, models.GameTypeCrash, &sess); werr != nil {
			h.respondError(c, models.GameTypeCrash, werr)
			return
		}
		h.respondError(c, models.GameTypeCrash, err)
		return
	}

	var balance int64
	if result.Win {
		balance, err = h.wallet.Credit(c.Request.Context(), req.GuildID, userID, result.Payout, "crash cashout")
	} else {
		balance, err = h.wallet.Balance(c.Request.Context(), req.GuildID, userID)
	}
	if err != nil {
		h.respondError(c, models.GameTypeCrash, err)
		return
	}

	h.clearSession(c, models.GameTypeCrash)
	if cerr := h.redis.CloseSession(sess.ID); cerr != nil {
		h.logger.Warn("close session failed", zap.String("session_id", sess.ID), zap.Error(cerr))
	}

	mult := 0.0
	if result.Win {
		mult = result.Multiplier
	}
	h.finishRound(req.GuildID, userID, models.GameTypeCrash, sess.State.Wager, result.Payout, mult)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
		"balance": balance,
	})
}
