package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"valoratbot-casino/internal/games/roulette"
	"valoratbot-casino/internal/models"
)

// Roulette handles POST /api/casino/roulette. A spin is a single
// request-response cycle: all bets are validated and debited up front,
// then resolved against one number. No session cookie is involved.
func (h *CasinoHandler) Roulette(c *gin.Context) {
	userID := c.GetString("user_id")

	var req models.RouletteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
		return
	}

	if !h.checkRateLimit(c, req.GuildID, userID, "start") {
		return
	}

	bets := make([]roulette.Bet, len(req.Bets))
	for i, b := range req.Bets {
		bets[i] = roulette.Bet{Type: roulette.BetType(b.Type), Pick: b.Pick, Amount: b.Amount}
	}

	total, err := roulette.Validate(bets, h.cfg.MaxBetRoulette)
	if err != nil {
		h.respondError(c, models.GameTypeRoulette, err)
		return
	}

	ctx := c.Request.Context()
	if _, err := h.wallet.Debit(ctx, req.GuildID, userID, total, "roulette wager"); err != nil {
		h.respondError(c, models.GameTypeRoulette, err)
		return
	}

	h.countStart(models.GameTypeRoulette)

	result := roulette.Resolve(bets, roulette.Spin(newRNG()))

	var balance int64
	if result.Payout > 0 {
		balance, err = h.wallet.Credit(ctx, req.GuildID, userID, result.Payout, "roulette payout")
	} else {
		balance, err = h.wallet.Balance(ctx, req.GuildID, userID)
	}
	if err != nil {
		h.respondError(c, models.GameTypeRoulette, err)
		return
	}

	var mult float64
	if total > 0 {
		mult = float64(result.Payout) / float64(total)
	}
	h.finishRound(req.GuildID, userID, models.GameTypeRoulette, total, result.Payout, mult)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
		"balance": balance,
	})
}
