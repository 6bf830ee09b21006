package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valoratbot-casino/internal/games"
	"valoratbot-casino/internal/games/blackjack"
	"valoratbot-casino/internal/models"
)

type blackjackSession struct {
	sessionMeta
	State *blackjack.State `json:"state"`
}

// Blackjack handles POST /api/casino/blackjack. One endpoint drives the
// whole game: start opens a session cookie, hit/stand/double/split act
// on it, and the cookie disappears once the round settles.
func (h *CasinoHandler) Blackjack(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.BlackjackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if !h.checkRateLimit(c, req.GuildID, userID, req.Action) {
		return
	}

	if req.Action == "start" {
		h.blackjackStart(c, &req, userID)
		return
	}
	h.blackjackAct(c, &req, userID)
}

func (h *CasinoHandler) blackjackStart(c *gin.Context, req *models.BlackjackRequest, userID string) {
	if err := validateWager(req.Wager, h.cfg.MaxBetBlackjack); err != nil {
		h.respondError(c, models.GameTypeBlackjack, err)
		return
	}

	// A live round must be played out before a new one opens.
	var existing blackjackSession
	if h.readSession(c, models.GameTypeBlackjack, &existing) &&
		existing.owned(req.GuildID, userID) &&
		existing.State != nil && existing.State.Status == blackjack.StatusPlaying {
		h.respondError(c, models.GameTypeBlackjack, games.ErrStateConflict)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.wallet.Debit(ctx, req.GuildID, userID, req.Wager, "blackjack wager"); err != nil {
		h.respondError(c, models.GameTypeBlackjack, err)
		return
	}

	h.countStart(models.GameTypeBlackjack)

	state := blackjack.Start(req.Wager, newRNG())
	sess := blackjackSession{
		sessionMeta: newSessionMeta(req.GuildID, userID),
		State:       state,
	}

	// Natural 21 settles before a cookie is ever issued.
	if state.Status == blackjack.StatusDone {
		h.blackjackSettle(c, &sess, true)
		return
	}

	if err := h.redis.OpenSession(sess.ID); err != nil {
		h.respondError(c, models.GameTypeBlackjack, err)
		return
	}
	if err := h.writeSession(c, models.GameTypeBlackjack, &sess); err != nil {
		h.respondError(c, models.GameTypeBlackjack, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "game": state.ClientView()})
}

func (h *CasinoHandler) blackjackAct(c *gin.Context, req *models.BlackjackRequest, userID string) {
	var sess blackjackSession
	if !h.readSession(c, models.GameTypeBlackjack, &sess) ||
		!sess.owned(req.GuildID, userID) || sess.State == nil {
		h.respondError(c, models.GameTypeBlackjack, games.ErrNoGame)
		return
	}

	// Consume one step of the session so a replayed cookie loses.
	if err := h.redis.AdvanceSession(sess.ID, sess.Seq); err != nil {
		h.clearSession(c, models.GameTypeBlackjack)
		h.respondError(c, models.GameTypeBlackjack, err)
		return
	}
	sess.Seq++

	state := sess.State
	ctx := c.Request.Context()

	var err error
	switch req.Action {
	case "hit":
		err = state.Hit()
	case "stand":
		err = state.Stand()
	case "double":
		if !state.CanDouble() {
			err = games.ErrStateConflict
			break
		}
		if _, derr := h.wallet.Debit(ctx, req.GuildID, userID, state.DoubleCost(), "blackjack double"); derr != nil {
			// The session stays live; re-issue the cookie at the new
			// sequence so the player can keep acting.
			if werr := h.writeSession(c, models.GameTypeBlackjack, &sess); werr != nil {
				h.respondError(c, models.GameTypeBlackjack, werr)
				return
			}
			h.respondError(c, models.GameTypeBlackjack, derr)
			return
		}
		err = state.Double()
	case "split":
		if !state.CanSplit() {
			err = games.ErrStateConflict
			break
		}
		if _, derr := h.wallet.Debit(ctx, req.GuildID, userID, state.SplitCost(), "blackjack split"); derr != nil {
			if werr := h.writeSession(c, models.GameTypeBlackjack, &sess); werr != nil {
				h.respondError(c, models.GameTypeBlackjack, werr)
				return
			}
			h.respondError(c, models.GameTypeBlackjack, derr)
			return
		}
		err = state.Split()
	default:
		err = games.ErrBadAction
	}

	if err != nil {
		if werr := h.writeSession(c, models.GameTypeBlackjack, &sess); werr != nil {
			h.respondError(c, models.GameTypeBlackjack, werr)
			return
		}
		h.respondError(c, models.GameTypeBlackjack, err)
		return
	}

	if state.Status == blackjack.StatusDone {
		h.blackjackSettle(c, &sess, false)
		return
	}

	if err := h.writeSession(c, models.GameTypeBlackjack, &sess); err != nil {
		h.respondError(c, models.GameTypeBlackjack, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "game": state.ClientView()})
}

// blackjackSettle credits the payout, tears the session down and emits
// the stats record. fresh marks a round that settled on the opening
// deal, before any cookie or redis marker existed.
func (h *CasinoHandler) blackjackSettle(c *gin.Context, sess *blackjackSession, fresh bool) {
	state := sess.State
	payout, _ := state.Settle()
	wager := state.TotalBet()

	var balance int64
	var err error
	if payout > 0 {
		balance, err = h.wallet.Credit(c.Request.Context(), sess.GuildID, sess.UserID, payout, "blackjack payout")
	} else {
		balance, err = h.wallet.Balance(c.Request.Context(), sess.GuildID, sess.UserID)
	}
	if err != nil {
		h.respondError(c, models.GameTypeBlackjack, err)
		return
	}

	if !fresh {
		h.clearSession(c, models.GameTypeBlackjack)
		if cerr := h.redis.CloseSession(sess.ID); cerr != nil {
			h.logger.Warn("close session failed", zap.String("session_id", sess.ID), zap.Error(cerr))
		}
	}

	var mult float64
	if wager > 0 {
		mult = float64(payout) / float64(wager)
	}
	h.finishRound(sess.GuildID, sess.UserID, models.GameTypeBlackjack, wager, payout, mult)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    state.ClientView(),
		"balance": balance,
	})
}
