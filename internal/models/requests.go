package models

// Request bodies for the per-game POST endpoints. Gin binds and validates
// these; anything finer-grained (action legality, wager bounds, cell
// indices) is checked in the handlers so zero values are not rejected by
// the `required` validator.

type BlackjackRequest struct {
	GuildID string `json:"guildId" binding:"required"`
	Action  string `json:"action" binding:"required"` // start, hit, stand, double, split
	Wager   int64  `json:"wager"`
}

type CrashRequest struct {
	GuildID    string  `json:"guildId" binding:"required"`
	Action     string  `json:"action" binding:"required"` // start, cashout
	Wager      int64   `json:"wager"`
	Multiplier float64 `json:"multiplier"`
}

type MinesRequest struct {
	GuildID string `json:"guildId" binding:"required"`
	Action  string `json:"action" binding:"required"` // start, pick, cashout
	Wager   int64  `json:"wager"`
	Mines   int    `json:"mines"`
	Cell    int    `json:"cell"`
}

type RouletteBet struct {
	Type   string `json:"type" binding:"required"`
	Pick   int    `json:"pick"` // number for plein, 1-3 for douzaine/colonne
	Amount int64  `json:"amount" binding:"required"`
}

type RouletteRequest struct {
	GuildID string        `json:"guildId" binding:"required"`
	Bets    []RouletteBet `json:"bets" binding:"required,min=1,dive"`
}

type SlotsRequest struct {
	GuildID string `json:"guildId" binding:"required"`
	Wager   int64  `json:"wager" binding:"required"`
}
