package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"valoratbot-casino/internal/models"
)

// StatsRecorder fans a settled round out to every side channel: redis
// history and aggregates, the kafka event stream, the websocket feed,
// and prometheus. Every leg is best effort. The round is already
// settled against the wallet by the time Record runs, so failures here
// are logged and swallowed rather than surfaced to the player.
type StatsRecorder struct {
	redis       *RedisService
	events      *EventPublisher
	broadcaster Broadcaster
	metrics     *Metrics
	logger      *zap.Logger
}

func NewStatsRecorder(redis *RedisService, events *EventPublisher, broadcaster Broadcaster, metrics *Metrics, logger *zap.Logger) *StatsRecorder {
	if broadcaster == nil {
		broadcaster = NopBroadcaster{}
	}
	return &StatsRecorder{
		redis:       redis,
		events:      events,
		broadcaster: broadcaster,
		metrics:     metrics,
		logger:      logger,
	}
}

func (r *StatsRecorder) Record(record *models.RoundRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := r.redis.RecordRound(record); err != nil {
		r.logger.Warn("record round history failed",
			zap.String("round_id", record.RoundID), zap.Error(err))
	}
	if err := r.redis.BumpGuildStats(record); err != nil {
		r.logger.Warn("bump guild stats failed",
			zap.String("guild_id", record.GuildID), zap.Error(err))
	}

	if r.events != nil {
		if err := r.events.PublishRoundSettled(ctx, record); err != nil {
			r.logger.Warn("publish settled event failed",
				zap.String("round_id", record.RoundID), zap.Error(err))
		}
	}

	r.broadcaster.BroadcastRoundSettled(record)

	if r.metrics != nil {
		game := string(record.Game)
		r.metrics.RoundsSettled.WithLabelValues(game, string(record.Outcome)).Inc()
		r.metrics.Wagered.WithLabelValues(game).Add(float64(record.Wager))
		r.metrics.PaidOut.WithLabelValues(game).Add(float64(record.Payout))
	}
}
