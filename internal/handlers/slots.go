package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"valoratbot-casino/internal/games/slots"
	"valoratbot-casino/internal/models"
)

// Slots handles POST /api/casino/slots: debit, spin, settle, one round
// per request.
func (h *CasinoHandler) Slots(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.SlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if !h.checkRateLimit(c, req.GuildID, userID, "start") {
		return
	}

	if err := validateWager(req.Wager, h.cfg.MaxBetSlots); err != nil {
		h.respondError(c, models.GameTypeSlots, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.wallet.Debit(ctx, req.GuildID, userID, req.Wager, "slots wager"); err != nil {
		h.respondError(c, models.GameTypeSlots, err)
		return
	}

	h.countStart(models.GameTypeSlots)

	result := slots.Play(req.Wager, newRNG())

	var balance int64
	var err error
	if result.Payout > 0 {
		balance, err = h.wallet.Credit(ctx, req.GuildID, userID, result.Payout, "slots payout")
	} else {
		balance, err = h.wallet.Balance(ctx, req.GuildID, userID)
	}
	if err != nil {
		h.respondError(c, models.GameTypeSlots, err)
		return
	}

	h.finishRound(req.GuildID, userID, models.GameTypeSlots, req.Wager, result.Payout, result.Multiplier)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
		"balance": balance,
	})
}
