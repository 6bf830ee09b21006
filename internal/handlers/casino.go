package handlers

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	mathrand "math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"valoratbot-casino/internal/config"
	"valoratbot-casino/internal/games"
	"valoratbot-casino/internal/models"
	"valoratbot-casino/internal/services"
)

// WalletStore is the wallet surface the handlers depend on. Satisfied
// by services.WalletService.
type WalletStore interface {
	Balance(ctx context.Context, guildID, userID string) (int64, error)
	Wallet(ctx context.Context, guildID, userID string) (*models.Wallet, error)
	Debit(ctx context.Context, guildID, userID string, amount int64, description string) (int64, error)
	Credit(ctx context.Context, guildID, userID string, amount int64, description string) (int64, error)
	Ledger(ctx context.Context, guildID, userID string, limit int) ([]models.LedgerEntry, error)
	Leaderboard(ctx context.Context, guildID string, limit int) ([]models.WalletRank, error)
}

// SessionStore is the session and rate-limit surface the handlers
// depend on. Satisfied by services.RedisService.
type SessionStore interface {
	OpenSession(sessionID string) error
	AdvanceSession(sessionID string, seq int) error
	CloseSession(sessionID string) error
	CheckRateLimit(guildID, userID, action string, limit int, window time.Duration) (bool, error)
	GetHistory(guildID, userID string, limit int64) ([]*models.RoundRecord, error)
	GetGuildStats(guildID string, game models.GameType) (map[string]string, error)
}

// CasinoHandler hosts the per-game POST endpoints. Game state lives in
// encrypted cookies, so the handler itself is stateless; everything it
// needs arrives with the request.
type CasinoHandler struct {
	cfg     *config.Config
	wallet  WalletStore
	redis   SessionStore
	codec   *services.SessionCodec
	stats   *services.StatsRecorder
	metrics *services.Metrics
	logger  *zap.Logger
}

func NewCasinoHandler(cfg *config.Config, wallet WalletStore, redis SessionStore, codec *services.SessionCodec, stats *services.StatsRecorder, metrics *services.Metrics, logger *zap.Logger) *CasinoHandler {
	return &CasinoHandler{
		cfg:     cfg,
		wallet:  wallet,
		redis:   redis,
		codec:   codec,
		stats:   stats,
		metrics: metrics,
		logger:  logger,
	}
}

// newRNG seeds a fresh generator from the OS entropy pool. Casino
// outcomes must not be predictable from a shared, clock-seeded source.
func newRNG() *mathrand.Rand {
	var seed int64
	if err := binary.Read(rand.Reader, binary.LittleEndian, &seed); err != nil {
		seed = time.Now().UnixNano()
	}
	return mathrand.New(mathrand.NewSource(seed))
}

// respondError maps the game error taxonomy onto HTTP statuses. The
// secret state behind a rejected request is never described.
func (h *CasinoHandler) respondError(c *gin.Context, game models.GameType, err error) {
	var status int
	var message, kind string
	switch {
	case errors.Is(err, games.ErrInvalidWager):
		status, message, kind = http.StatusBadRequest, "Invalid wager", "invalid_wager"
	case errors.Is(err, games.ErrBadAction):
		status, message, kind = http.StatusBadRequest, "Invalid action", "bad_action"
	case errors.Is(err, games.ErrStateConflict):
		status, message, kind = http.StatusBadRequest, "Action not allowed right now", "state_conflict"
	case errors.Is(err, games.ErrNoGame), errors.Is(err, services.ErrSessionConflict):
		status, message, kind = http.StatusNotFound, "No active game", "no_game"
	case errors.Is(err, services.ErrInsufficientFunds):
		status, message, kind = http.StatusBadRequest, "Insufficient balance", "insufficient_funds"
	case errors.Is(err, services.ErrWalletNotFound):
		status, message, kind = http.StatusNotFound, "Wallet not found", "no_wallet"
	default:
		status, message, kind = http.StatusInternalServerError, "Internal error", "internal"
		h.logger.Error("unexpected handler error",
			zap.String("game", string(game)), zap.Error(err))
	}

	if h.metrics != nil {
		h.metrics.Errors.WithLabelValues(string(game), kind).Inc()
	}
	c.JSON(status, gin.H{"error": message})
}

// countStart feeds the rounds-started counter once a round's wager has
// been committed.
func (h *CasinoHandler) countStart(game models.GameType) {
	if h.metrics != nil {
		h.metrics.RoundsStarted.WithLabelValues(string(game)).Inc()
	}
}

// checkRateLimit enforces the per-user play budget: starts are limited
// harder than mid-round actions. A redis failure fails open; rate
// limiting is protection, not bookkeeping.
func (h *CasinoHandler) checkRateLimit(c *gin.Context, guildID, userID, action string) bool {
	limit := services.DefaultRateLimitActions
	bucket := "act"
	if action == "start" {
		limit = services.DefaultRateLimitStarts
		bucket = "start"
	}
	allowed, err := h.redis.CheckRateLimit(guildID, userID, bucket, limit, time.Minute)
	if err != nil {
		h.logger.Warn("rate limit check failed", zap.Error(err))
		return true
	}
	if !allowed {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many plays. Please wait."})
		return false
	}
	return true
}

// validateWager rejects non-positive wagers and wagers over the game's
// cap before anything touches the wallet.
func validateWager(wager, limit int64) error {
	if wager <= 0 || wager > limit {
		return games.ErrInvalidWager
	}
	return nil
}

// finishRound settles the stats pipeline for a terminal round. Runs in
// the background; the response never waits on it.
func (h *CasinoHandler) finishRound(guildID, userID string, game models.GameType, wager, payout int64, multiplier float64) {
	if h.stats == nil {
		return
	}
	outcome := models.OutcomeLoss
	switch {
	case payout > wager:
		outcome = models.OutcomeWin
	case payout == wager && payout > 0:
		outcome = models.OutcomePush
	}

	record := &models.RoundRecord{
		RoundID:    uuid.New().String(),
		GuildID:    guildID,
		UserID:     userID,
		Game:       game,
		Wager:      wager,
		Payout:     payout,
		Multiplier: multiplier,
		Outcome:    outcome,
		SettledAt:  time.Now(),
	}

	go h.stats.Record(record)
}
