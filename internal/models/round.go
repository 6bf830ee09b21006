package models

import "time"

type GameType string

const (
	GameTypeBlackjack GameType = "blackjack"
	GameTypeCrash     GameType = "crash"
	GameTypeMines     GameType = "mines"
	GameTypeRoulette  GameType = "roulette"
	GameTypeSlots     GameType = "slots"
)

type RoundOutcome string

const (
	OutcomeWin  RoundOutcome = "win"
	OutcomeLoss RoundOutcome = "loss"
	OutcomePush RoundOutcome = "push"
)

// RoundRecord is the settled-round summary fed to the stats pipeline
// (redis aggregates, kafka event, websocket feed). It never carries
// secret state; the round is already terminal when one is produced.
type RoundRecord struct {
	RoundID    string       `json:"round_id"`
	GuildID    string       `json:"guild_id"`
	UserID     string       `json:"user_id"`
	Game       GameType     `json:"game"`
	Wager      int64        `json:"wager"`
	Payout     int64        `json:"payout"`
	Multiplier float64      `json:"multiplier,omitempty"`
	Outcome    RoundOutcome `json:"outcome"`
	SettledAt  time.Time    `json:"settled_at"`
}

// Net returns the player's profit for the round (negative on a loss).
func (r RoundRecord) Net() int64 {
	return r.Payout - r.Wager
}
