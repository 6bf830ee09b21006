// Package games holds the error taxonomy and numeric helpers shared by
// the per-game state machines. The machines themselves are pure: they map
// (state, action) to (new state, wallet delta, client view) and never
// touch the network, the wallet, or the clock on their own.
package games

import "errors"

var (
	// ErrInvalidWager covers non-positive wagers and wagers over the
	// per-game cap. Raised before any wallet mutation.
	ErrInvalidWager = errors.New("invalid wager")

	// ErrNoGame means no live session: missing, expired, already
	// settled, or belonging to someone else.
	ErrNoGame = errors.New("no active game")

	// ErrStateConflict means the action is not legal for the current
	// game status (acting on a finished game, splitting a non-pair,
	// cashing out with nothing revealed).
	ErrStateConflict = errors.New("action not allowed in current state")

	// ErrBadAction means the action name or its parameters are
	// malformed (unknown action, cell out of range).
	ErrBadAction = errors.New("bad action")
)

// Round2 rounds to two decimals, the precision multipliers are quoted at.
func Round2(f float64) float64 {
	if f < 0 {
		return float64(int64(f*100-0.5)) / 100
	}
	return float64(int64(f*100+0.5)) / 100
}

// Round1 rounds to one decimal.
func Round1(f float64) float64 {
	if f < 0 {
		return float64(int64(f*10-0.5)) / 10
	}
	return float64(int64(f*10+0.5)) / 10
}

// Payout converts a wager and multiplier to an integer payout, always
// rounding down in the house's favor.
func Payout(wager int64, multiplier float64) int64 {
	return int64(float64(wager) * multiplier)
}
