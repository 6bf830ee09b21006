// Package crash implements the crash game: a hidden crash point is drawn
// at start and the player races to cash out below it. The client renders
// the multiplier curve locally; the server only checks that a claimed
// multiplier is plausible for the elapsed wall-clock time.
package crash

import (
	"math"
	"math/rand"
	"time"

	"valoratbot-casino/internal/games"
)

const (
	// MaxPoint caps the crash multiplier.
	MaxPoint = 1000.0

	// instantCrashChance is the probability the round busts at 1.00x.
	instantCrashChance = 0.05

	// growthRate is the assumed client-side curve e^(rate*seconds).
	growthRate = 0.06

	// latencyBuffer pads the plausibility bound so honest requests are
	// not rejected for network delay.
	latencyBuffer = 2 * time.Second
)

// State is the secret session blob for a live crash round.
type State struct {
	Wager     int64   `json:"wager"`
	Point     float64 `json:"point"`
	StartedAt int64   `json:"started_at"` // unix milliseconds
}

// NewPoint draws a crash point: a 5% instant bust, otherwise
// min(MaxPoint, floor(100/(1-r))/100).
func NewPoint(rng *rand.Rand) float64 {
	if rng.Float64() < instantCrashChance {
		return 1.0
	}
	r := rng.Float64()
	point := math.Floor(100/(1-r)) / 100
	if point > MaxPoint {
		point = MaxPoint
	}
	if point < 1.0 {
		point = 1.0
	}
	return point
}

// Start rolls the secret crash point. The wager must already be debited.
func Start(wager int64, rng *rand.Rand, now time.Time) *State {
	return &State{
		Wager:     wager,
		Point:     NewPoint(rng),
		StartedAt: now.UnixMilli(),
	}
}

// MaxPlausible is the highest multiplier the growth curve allows after
// the given elapsed time, latency buffer included.
func MaxPlausible(elapsed time.Duration) float64 {
	if elapsed < 0 {
		elapsed = 0
	}
	return math.Exp(growthRate * (elapsed + latencyBuffer).Seconds())
}

// Result is a settled crash round.
type Result struct {
	Win        bool    `json:"win"`
	Multiplier float64 `json:"multiplier"`
	Point      float64 `json:"point"`
	Payout     int64   `json:"payout"`
}

// Cashout settles the round at the requested multiplier. A request
// implausibly high for the elapsed time is rejected before the secret
// point is even consulted, so probing cashouts leak nothing.
func (s *State) Cashout(requested float64, now time.Time) (*Result, error) {
	if requested < 1.0 || math.IsNaN(requested) || math.IsInf(requested, 0) {
		return nil, games.ErrBadAction
	}

	elapsed := now.Sub(time.UnixMilli(s.StartedAt))
	if requested > MaxPlausible(elapsed) {
		return nil, games.ErrStateConflict
	}

	res := &Result{Multiplier: requested, Point: s.Point}
	if requested <= s.Point {
		res.Win = true
		res.Payout = games.Payout(s.Wager, requested)
	}
	return res, nil
}
