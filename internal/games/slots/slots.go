// Package slots implements the three-reel slot machine. Stateless: one
// request spins, evaluates and settles.
package slots

import (
	"math/rand"

	"valoratbot-casino/internal/games"
)

// Symbol is one reel face. Triple is the three-of-a-kind multiplier;
// a pair pays a quarter of that, floored at x1, rounded to one decimal.
type Symbol struct {
	Glyph  string
	Weight int
	Triple int64
}

// JackpotIndex is the reel index of the jackpot symbol.
const JackpotIndex = 6

// Reels are independent and identically weighted; rarity rises with the
// index and the last entry is the jackpot.
var Symbols = []Symbol{
	{Glyph: "🍒", Weight: 26, Triple: 2},
	{Glyph: "🍋", Weight: 22, Triple: 3},
	{Glyph: "🍊", Weight: 18, Triple: 4},
	{Glyph: "🍉", Weight: 14, Triple: 6},
	{Glyph: "🔔", Weight: 10, Triple: 10},
	{Glyph: "⭐", Weight: 7, Triple: 25},
	{Glyph: "💎", Weight: 3, Triple: 500},
}

var totalWeight int

func init() {
	for _, s := range Symbols {
		totalWeight += s.Weight
	}
}

// Spin draws three independent weighted reels.
func Spin(rng *rand.Rand) [3]int {
	var reels [3]int
	for i := range reels {
		reels[i] = drawSymbol(rng)
	}
	return reels
}

func drawSymbol(rng *rand.Rand) int {
	roll := rng.Intn(totalWeight)
	for i, s := range Symbols {
		roll -= s.Weight
		if roll < 0 {
			return i
		}
	}
	return len(Symbols) - 1
}

// Result is a settled spin.
type Result struct {
	Reels      [3]int   `json:"reels"`
	Glyphs     []string `json:"glyphs"`
	Multiplier float64  `json:"multiplier"`
	IsJackpot  bool     `json:"is_jackpot"`
	Payout     int64    `json:"payout"`
}

// Evaluate scores a reel line: triples pay the symbol table, pairs pay
// a quarter of the triple (minimum x1, one decimal), anything else
// loses the wager.
func Evaluate(reels [3]int, wager int64) *Result {
	res := &Result{Reels: reels, Glyphs: make([]string, 3)}
	for i, r := range reels {
		res.Glyphs[i] = Symbols[r].Glyph
	}

	switch {
	case reels[0] == reels[1] && reels[1] == reels[2]:
		res.Multiplier = float64(Symbols[reels[0]].Triple)
		res.IsJackpot = reels[0] == JackpotIndex
	case reels[0] == reels[1] || reels[1] == reels[2] || reels[0] == reels[2]:
		pairIdx := reels[0]
		if reels[1] == reels[2] {
			pairIdx = reels[1]
		}
		mult := games.Round1(float64(Symbols[pairIdx].Triple) / 4)
		if mult < 1 {
			mult = 1
		}
		res.Multiplier = mult
	}

	res.Payout = games.Payout(wager, res.Multiplier)
	return res
}

// Play spins and settles in one step.
func Play(wager int64, rng *rand.Rand) *Result {
	return Evaluate(Spin(rng), wager)
}
