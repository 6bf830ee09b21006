package services_test

import (
	"errors"
	"testing"
	"time"

	"valoratbot-casino/internal/config"
	"valoratbot-casino/internal/models"
	"valoratbot-casino/internal/services"
)

func TestRedisService(t *testing.T) {
	cfg := &config.Config{
		RedisAddr: "localhost:6379",
		RedisPass: "",
		RedisDB:   0,
	}

	redisService, err := services.NewRedisService(cfg)
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer redisService.Close()

	sessionID := "test_session_abc"
	guildID := "999999999999999999"
	userID := "111111111111111111"

	if err := redisService.OpenSession(sessionID); err != nil {
		t.Fatalf("Failed to open session: %v", err)
	}
	defer redisService.CloseSession(sessionID)

	if err := redisService.AdvanceSession(sessionID, 0); err != nil {
		t.Errorf("First advance should succeed: %v", err)
	}

	// Replaying sequence 0 must lose the compare-and-swap.
	err = redisService.AdvanceSession(sessionID, 0)
	if !errors.Is(err, services.ErrSessionConflict) {
		t.Errorf("Replayed sequence should conflict, got %v", err)
	}

	if err := redisService.AdvanceSession(sessionID, 1); err != nil {
		t.Errorf("Advance with current sequence should succeed: %v", err)
	}

	if err := redisService.CloseSession(sessionID); err != nil {
		t.Errorf("Failed to close session: %v", err)
	}

	err = redisService.AdvanceSession(sessionID, 2)
	if !errors.Is(err, services.ErrSessionConflict) {
		t.Errorf("Advance on closed session should conflict, got %v", err)
	}

	record := &models.RoundRecord{
		RoundID:    "test_round_123",
		GuildID:    guildID,
		UserID:     userID,
		Game:       models.GameTypeSlots,
		Wager:      100,
		Payout:     250,
		Multiplier: 2.5,
		Outcome:    models.OutcomeWin,
		SettledAt:  time.Now(),
	}

	if err := redisService.RecordRound(record); err != nil {
		t.Errorf("Failed to record round: %v", err)
	}

	history, err := redisService.GetHistory(guildID, userID, 10)
	if err != nil {
		t.Errorf("Failed to get history: %v", err)
	}
	found := false
	for _, r := range history {
		if r.RoundID == record.RoundID {
			found = true
			if r.Payout != 250 {
				t.Errorf("Payout mismatch: expected 250, got %d", r.Payout)
			}
		}
	}
	if !found {
		t.Error("Recorded round missing from history")
	}

	if err := redisService.BumpGuildStats(record); err != nil {
		t.Errorf("Failed to bump guild stats: %v", err)
	}

	stats, err := redisService.GetGuildStats(guildID, models.GameTypeSlots)
	if err != nil {
		t.Errorf("Failed to get guild stats: %v", err)
	}
	if stats["rounds"] == "" {
		t.Error("Expected rounds counter in guild stats")
	}

	allowed, err := redisService.CheckRateLimit(guildID, userID, "play", 5, time.Minute)
	if err != nil {
		t.Errorf("Failed to check rate limit: %v", err)
	}
	if !allowed {
		t.Error("First play should be allowed")
	}
}
