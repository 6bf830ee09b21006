package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"valoratbot-casino/internal/models"
)

// GetBalance handles GET /api/casino/wallet?guildId=...
func (h *CasinoHandler) GetBalance(c *gin.Context) {
	userID := c.GetString("user_id")
	guildID := c.Query("guildId")
	if guildID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guildId is required"})
		return
	}

	wallet, err := h.wallet.Wallet(c.Request.Context(), guildID, userID)
	if err != nil {
		h.respondError(c, "", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"wallet": gin.H{
			"balance":     wallet.Balance,
			"loan_amount": wallet.LoanAmount,
			"updated_at":  wallet.UpdatedAt,
		},
	})
}

// GetHistory handles GET /api/casino/history?guildId=...&limit=...
func (h *CasinoHandler) GetHistory(c *gin.Context) {
	userID := c.GetString("user_id")
	guildID := c.Query("guildId")
	if guildID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guildId is required"})
		return
	}

	limitStr := c.DefaultQuery("limit", "50")
	limit, err := strconv.ParseInt(limitStr, 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}

	rounds, err := h.redis.GetHistory(guildID, userID, limit)
	if err != nil {
		h.respondError(c, "", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rounds":  rounds,
		"count":   len(rounds),
	})
}

// GetLedger handles GET /api/casino/ledger?guildId=...&limit=...
func (h *CasinoHandler) GetLedger(c *gin.Context) {
	userID := c.GetString("user_id")
	guildID := c.Query("guildId")
	if guildID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guildId is required"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		limit = 50
	}

	entries, err := h.wallet.Ledger(c.Request.Context(), guildID, userID, limit)
	if err != nil {
		h.respondError(c, "", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"entries": entries,
		"count":   len(entries),
	})
}

// GetLeaderboard handles GET /api/casino/leaderboard?guildId=...&limit=...
func (h *CasinoHandler) GetLeaderboard(c *gin.Context) {
	guildID := c.Query("guildId")
	if guildID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guildId is required"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}

	ranks, err := h.wallet.Leaderboard(c.Request.Context(), guildID, limit)
	if err != nil {
		h.respondError(c, "", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"leaderboard": ranks,
	})
}

// GetGuildStats handles GET /api/casino/stats?guildId=...&game=...
func (h *CasinoHandler) GetGuildStats(c *gin.Context) {
	guildID := c.Query("guildId")
	if guildID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guildId is required"})
		return
	}

	game := models.GameType(c.Query("game"))
	switch game {
	case models.GameTypeBlackjack, models.GameTypeCrash, models.GameTypeMines,
		models.GameTypeRoulette, models.GameTypeSlots:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown game"})
		return
	}

	stats, err := h.redis.GetGuildStats(guildID, game)
	if err != nil {
		h.respondError(c, game, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"game":    game,
		"stats":   stats,
	})
}
