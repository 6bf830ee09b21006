package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"

	"valoratbot-casino/internal/config"
	"valoratbot-casino/internal/models"
)

// EventPublisher pushes settled-round events onto kafka for the
// dashboard's analytics workers. Publishing is best effort; a broker
// outage never blocks or fails a round.
type EventPublisher struct {
	writer *kafka.Writer
	topic  string
}

func NewEventPublisher(cfg *config.Config) *EventPublisher {
	return &EventPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.KafkaBrokers),
			Topic:                  cfg.KafkaStatsTopic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			Async:                  true,
		},
		topic: cfg.KafkaStatsTopic,
	}
}

func (p *EventPublisher) PublishRoundSettled(ctx context.Context, record *models.RoundRecord) error {
	b, err := json.Marshal(record)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(record.GuildID),
		Value: b,
		Time:  time.Now(),
	})
}

func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
