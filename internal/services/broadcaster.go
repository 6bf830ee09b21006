package services

import "valoratbot-casino/internal/models"

// Broadcaster pushes settled rounds to connected dashboard clients.
// Implemented by the websocket hub; a no-op implementation is fine for
// tests and workers.
type Broadcaster interface {
	BroadcastRoundSettled(record *models.RoundRecord)
}

type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastRoundSettled(*models.RoundRecord) {}
