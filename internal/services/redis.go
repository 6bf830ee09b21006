package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"valoratbot-casino/internal/config"
	"valoratbot-casino/internal/models"
)

// ErrSessionConflict means a session token was replayed or raced by a
// concurrent request carrying the same sequence number.
var ErrSessionConflict = errors.New("session sequence conflict")

type RedisService struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisService(cfg *config.Config) (*RedisService, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	ctx := context.Background()

	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %v", err)
	}

	service := &RedisService{
		client: client,
		ctx:    ctx,
	}

	return service, nil
}

func (s *RedisService) Close() error {
	return s.client.Close()
}

// Ping is the health probe used by /healthz.
func (s *RedisService) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// OpenSession registers a fresh game session at sequence 0.
func (s *RedisService) OpenSession(sessionID string) error {
	key := fmt.Sprintf(KeySessionSeq, sessionID)
	return s.client.Set(s.ctx, key, 0, TTLSession).Err()
}

// advanceSessionScript bumps the stored sequence only when it matches
// what the caller presented. Two requests replaying the same cookie
// both pass the decode step, but only one wins the compare-and-swap.
var advanceSessionScript = redis.NewScript(`
	local key = KEYS[1]
	local expected = tonumber(ARGV[1])

	local current = redis.call("GET", key)
	if not current then
		return -1
	end

	if tonumber(current) ~= expected then
		return 0
	end

	redis.call("INCR", key)
	redis.call("EXPIRE", key, tonumber(ARGV[2]))
	return 1
`)

// AdvanceSession consumes one step of the session. An expired session
// and a replayed one both surface as ErrSessionConflict; the caller
// cannot tell them apart and should not try.
func (s *RedisService) AdvanceSession(sessionID string, seq int) error {
	key := fmt.Sprintf(KeySessionSeq, sessionID)

	res, err := advanceSessionScript.Run(s.ctx, s.client, []string{key},
		seq, int(TTLSession.Seconds())).Int()
	if err != nil {
		return fmt.Errorf("failed to advance session: %v", err)
	}
	if res != 1 {
		return ErrSessionConflict
	}
	return nil
}

// CloseSession drops the sequence marker once a round settles.
func (s *RedisService) CloseSession(sessionID string) error {
	key := fmt.Sprintf(KeySessionSeq, sessionID)
	return s.client.Del(s.ctx, key).Err()
}

// RecordRound stores a settled round and indexes it on the user's
// history, trimmed to the newest HistoryDepth entries.
func (s *RedisService) RecordRound(record *models.RoundRecord) error {
	roundKey := fmt.Sprintf(KeyRound, record.RoundID)

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal round: %v", err)
	}

	if err := s.client.Set(s.ctx, roundKey, data, TTLRound).Err(); err != nil {
		return fmt.Errorf("failed to save round: %v", err)
	}

	historyKey := fmt.Sprintf(KeyUserRounds, record.GuildID, record.UserID)
	score := float64(record.SettledAt.Unix())
	if err := s.client.ZAdd(s.ctx, historyKey, redis.Z{
		Score:  score,
		Member: record.RoundID,
	}).Err(); err != nil {
		return fmt.Errorf("failed to index round: %v", err)
	}

	s.client.ZRemRangeByRank(s.ctx, historyKey, 0, int64(-HistoryDepth-1))

	return nil
}

// GetHistory returns the user's most recent settled rounds, newest first.
func (s *RedisService) GetHistory(guildID, userID string, limit int64) ([]*models.RoundRecord, error) {
	if limit <= 0 || limit > HistoryDepth {
		limit = 50
	}

	historyKey := fmt.Sprintf(KeyUserRounds, guildID, userID)

	roundIDs, err := s.client.ZRevRange(s.ctx, historyKey, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get round IDs: %v", err)
	}

	var rounds []*models.RoundRecord
	for _, roundID := range roundIDs {
		roundKey := fmt.Sprintf(KeyRound, roundID)

		data, err := s.client.Get(s.ctx, roundKey).Result()
		if err != nil {
			continue
		}

		var record models.RoundRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			continue
		}

		rounds = append(rounds, &record)
	}

	return rounds, nil
}

// BumpGuildStats folds a settled round into the guild's per-game
// aggregate counters.
func (s *RedisService) BumpGuildStats(record *models.RoundRecord) error {
	key := fmt.Sprintf(KeyGuildStats, record.GuildID, record.Game)

	pipe := s.client.Pipeline()
	pipe.HIncrBy(s.ctx, key, "rounds", 1)
	pipe.HIncrBy(s.ctx, key, "wagered", record.Wager)
	pipe.HIncrBy(s.ctx, key, "paid_out", record.Payout)
	if record.Outcome == models.OutcomeWin {
		pipe.HIncrBy(s.ctx, key, "wins", 1)
	}

	_, err := pipe.Exec(s.ctx)
	if err != nil {
		return fmt.Errorf("failed to bump guild stats: %v", err)
	}
	return nil
}

// GetGuildStats returns the aggregate counters for one game in a guild.
func (s *RedisService) GetGuildStats(guildID string, game models.GameType) (map[string]string, error) {
	key := fmt.Sprintf(KeyGuildStats, guildID, game)

	stats, err := s.client.HGetAll(s.ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get guild stats: %v", err)
	}
	return stats, nil
}

// CheckRateLimit counts requests per user per action inside a rolling
// window. Returns false once the limit is exceeded.
func (s *RedisService) CheckRateLimit(guildID, userID, action string, limit int, window time.Duration) (bool, error) {
	key := fmt.Sprintf(KeyRateLimit, guildID, userID, action)

	count, err := s.client.Incr(s.ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %v", err)
	}

	if count == 1 {
		s.client.Expire(s.ctx, key, window)
	}

	return count <= int64(limit), nil
}
