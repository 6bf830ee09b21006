package cards

import (
	"encoding/json"
	"fmt"
	"math/rand"
)

// Card is a playing card. It marshals to a compact "RankSuit" code
// ("AS", "10H") because whole decks travel inside an encrypted cookie
// and the 4KB cookie budget is real.
type Card struct {
	Rank string
	Suit string
}

var ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
var suits = []string{"S", "H", "D", "C"}

var rankValues = map[string]int{
	"2": 2, "3": 3, "4": 4, "5": 5, "6": 6, "7": 7, "8": 8, "9": 9, "10": 10,
	"J": 10, "Q": 10, "K": 10, "A": 11,
}

func (c Card) String() string {
	return c.Rank + c.Suit
}

// Value returns the blackjack value of the card, aces counted as 11.
func (c Card) Value() int {
	return rankValues[c.Rank]
}

func (c Card) IsAce() bool {
	return c.Rank == "A"
}

func (c Card) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Card) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if len(s) < 2 {
		return fmt.Errorf("bad card code %q", s)
	}
	rank, suit := s[:len(s)-1], s[len(s)-1:]
	if _, ok := rankValues[rank]; !ok {
		return fmt.Errorf("bad card rank %q", rank)
	}
	switch suit {
	case "S", "H", "D", "C":
	default:
		return fmt.Errorf("bad card suit %q", suit)
	}
	c.Rank, c.Suit = rank, suit
	return nil
}

// Deck is the remaining ordered sequence of cards. The front of the
// slice is the next card dealt, so a deck round-trips through the
// session blob without losing its order.
type Deck struct {
	Cards []Card `json:"cards"`
}

// NewDeck builds a shuffled deck of numDecks standard packs.
func NewDeck(numDecks int, rng *rand.Rand) *Deck {
	d := &Deck{Cards: make([]Card, 0, numDecks*52)}
	for n := 0; n < numDecks; n++ {
		for _, suit := range suits {
			for _, rank := range ranks {
				d.Cards = append(d.Cards, Card{Rank: rank, Suit: suit})
			}
		}
	}
	rng.Shuffle(len(d.Cards), func(i, j int) {
		d.Cards[i], d.Cards[j] = d.Cards[j], d.Cards[i]
	})
	return d
}

// Deal removes and returns the next card.
func (d *Deck) Deal() Card {
	card := d.Cards[0]
	d.Cards = d.Cards[1:]
	return card
}

func (d *Deck) Remaining() int {
	return len(d.Cards)
}

// Hand is an ordered set of cards.
type Hand []Card

// Value computes the hand total with soft-ace reduction: every ace
// starts at 11 and drops to 1 while the total busts and aces remain.
func (h Hand) Value() int {
	total := 0
	aces := 0
	for _, c := range h {
		total += c.Value()
		if c.IsAce() {
			aces++
		}
	}
	for aces > 0 && total > 21 {
		total -= 10
		aces--
	}
	return total
}

// IsBlackjack reports a natural: 21 from exactly two cards.
func (h Hand) IsBlackjack() bool {
	return len(h) == 2 && h.Value() == 21
}

func (h Hand) IsBust() bool {
	return h.Value() > 21
}

// IsPair reports whether the hand is two cards of equal rank.
func (h Hand) IsPair() bool {
	return len(h) == 2 && h[0].Rank == h[1].Rank
}

// Codes returns the compact string form of every card, for client views.
func (h Hand) Codes() []string {
	out := make([]string, len(h))
	for i, c := range h {
		out[i] = c.String()
	}
	return out
}
