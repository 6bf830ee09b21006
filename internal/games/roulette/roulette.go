// Package roulette resolves a batch of simultaneous bets against one
// spin. The game is stateless: a single request wagers, spins and
// settles, so no session blob exists.
//
// Bet types keep the dashboard's French vocabulary (rouge, noir, pair,
// impair, manque, passe, douzaine, colonne, plein).
package roulette

import (
	"math/rand"

	"valoratbot-casino/internal/games"
)

type BetType string

const (
	BetRouge    BetType = "rouge"    // red, x2
	BetNoir     BetType = "noir"     // black, x2
	BetPair     BetType = "pair"     // even, x2
	BetImpair   BetType = "impair"   // odd, x2
	BetManque   BetType = "manque"   // 1-18, x2
	BetPasse    BetType = "passe"    // 19-36, x2
	BetDouzaine BetType = "douzaine" // dozen 1-3, x3
	BetColonne  BetType = "colonne"  // column 1-3, x3
	BetPlein    BetType = "plein"    // straight number, x36
)

var redNumbers = map[int]struct{}{
	1: {}, 3: {}, 5: {}, 7: {}, 9: {}, 12: {}, 14: {}, 16: {}, 18: {},
	19: {}, 21: {}, 23: {}, 25: {}, 27: {}, 30: {}, 32: {}, 34: {}, 36: {},
}

// Bet is one wager within a spin request. Pick is the straight number
// for plein and the 1-based group index for douzaine/colonne.
type Bet struct {
	Type   BetType `json:"type"`
	Pick   int     `json:"pick,omitempty"`
	Amount int64   `json:"amount"`
}

// Validate checks every bet and the combined wager against the cap.
// Nothing may have been debited yet when this runs.
func Validate(bets []Bet, maxTotal int64) (int64, error) {
	if len(bets) == 0 {
		return 0, games.ErrBadAction
	}
	var total int64
	for _, b := range bets {
		if b.Amount <= 0 {
			return 0, games.ErrInvalidWager
		}
		switch b.Type {
		case BetRouge, BetNoir, BetPair, BetImpair, BetManque, BetPasse:
		case BetDouzaine, BetColonne:
			if b.Pick < 1 || b.Pick > 3 {
				return 0, games.ErrBadAction
			}
		case BetPlein:
			if b.Pick < 0 || b.Pick > 36 {
				return 0, games.ErrBadAction
			}
		default:
			return 0, games.ErrBadAction
		}
		total += b.Amount
	}
	if total > maxTotal {
		return 0, games.ErrInvalidWager
	}
	return total, nil
}

// Spin draws the winning number 0-36.
func Spin(rng *rand.Rand) int {
	return rng.Intn(37)
}

// Color returns "rouge", "noir" or "vert" for a number.
func Color(n int) string {
	if n == 0 {
		return "vert"
	}
	if _, ok := redNumbers[n]; ok {
		return "rouge"
	}
	return "noir"
}

// PayoutMultiplier returns the total-return multiplier of a bet against
// the spun number: 0 on a miss, 2/3/36 on a hit. Zero loses every
// outside bet.
func PayoutMultiplier(b Bet, n int) int64 {
	switch b.Type {
	case BetRouge:
		if Color(n) == "rouge" {
			return 2
		}
	case BetNoir:
		if Color(n) == "noir" {
			return 2
		}
	case BetPair:
		if n != 0 && n%2 == 0 {
			return 2
		}
	case BetImpair:
		if n%2 == 1 {
			return 2
		}
	case BetManque:
		if n >= 1 && n <= 18 {
			return 2
		}
	case BetPasse:
		if n >= 19 && n <= 36 {
			return 2
		}
	case BetDouzaine:
		if n != 0 && (n-1)/12+1 == b.Pick {
			return 3
		}
	case BetColonne:
		if n != 0 && columnOf(n) == b.Pick {
			return 3
		}
	case BetPlein:
		if n == b.Pick {
			return 36
		}
	}
	return 0
}

func columnOf(n int) int {
	switch n % 3 {
	case 1:
		return 1
	case 2:
		return 2
	default:
		return 3
	}
}

// BetResult is the settled outcome of one bet.
type BetResult struct {
	Bet    Bet   `json:"bet"`
	Payout int64 `json:"payout"`
}

// Result is the settled outcome of a whole spin.
type Result struct {
	Number int         `json:"number"`
	Color  string      `json:"color"`
	Wager  int64       `json:"wager"`
	Payout int64       `json:"payout"`
	Bets   []BetResult `json:"bets"`
}

// Resolve settles all bets against the spun number.
func Resolve(bets []Bet, number int) *Result {
	res := &Result{Number: number, Color: Color(number)}
	for _, b := range bets {
		payout := b.Amount * PayoutMultiplier(b, number)
		res.Wager += b.Amount
		res.Payout += payout
		res.Bets = append(res.Bets, BetResult{Bet: b, Payout: payout})
	}
	return res
}
