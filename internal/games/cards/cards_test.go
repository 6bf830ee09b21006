package cards

import (
	"encoding/json"
	"math/rand"
	"testing"
)

func TestHandValueSoftAces(t *testing.T) {
	tests := []struct {
		name string
		hand Hand
		want int
	}{
		{"hard 17", Hand{{Rank: "10", Suit: "S"}, {Rank: "7", Suit: "H"}}, 17},
		{"soft 17", Hand{{Rank: "A", Suit: "S"}, {Rank: "6", Suit: "H"}}, 17},
		{"ace forced low", Hand{{Rank: "A", Suit: "S"}, {Rank: "6", Suit: "H"}, {Rank: "10", Suit: "D"}}, 17},
		{"two aces", Hand{{Rank: "A", Suit: "S"}, {Rank: "A", Suit: "H"}}, 12},
		{"blackjack", Hand{{Rank: "A", Suit: "S"}, {Rank: "K", Suit: "H"}}, 21},
		{"bust", Hand{{Rank: "K", Suit: "S"}, {Rank: "Q", Suit: "H"}, {Rank: "5", Suit: "D"}}, 25},
	}
	for _, tt := range tests {
		if got := tt.hand.Value(); got != tt.want {
			t.Errorf("%s: value = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestHandPredicates(t *testing.T) {
	natural := Hand{{Rank: "A", Suit: "S"}, {Rank: "10", Suit: "H"}}
	if !natural.IsBlackjack() {
		t.Error("A+10 should be a natural blackjack")
	}

	threeCard21 := Hand{{Rank: "7", Suit: "S"}, {Rank: "7", Suit: "H"}, {Rank: "7", Suit: "D"}}
	if threeCard21.IsBlackjack() {
		t.Error("three-card 21 is not a natural")
	}

	pair := Hand{{Rank: "8", Suit: "S"}, {Rank: "8", Suit: "H"}}
	if !pair.IsPair() {
		t.Error("8+8 should be a pair")
	}
	if natural.IsPair() {
		t.Error("A+10 is not a pair")
	}
}

func TestDeckDealOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	d := NewDeck(1, rng)
	if d.Remaining() != 52 {
		t.Fatalf("new deck has %d cards, want 52", d.Remaining())
	}

	first := d.Cards[0]
	dealt := d.Deal()
	if dealt != first {
		t.Errorf("Deal returned %v, want front card %v", dealt, first)
	}
	if d.Remaining() != 51 {
		t.Errorf("remaining = %d after one deal, want 51", d.Remaining())
	}

	seen := map[string]bool{dealt.String(): true}
	for d.Remaining() > 0 {
		c := d.Deal()
		if seen[c.String()] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c.String()] = true
	}
}

func TestCardJSONRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	d := NewDeck(1, rng)

	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal deck: %v", err)
	}

	var back Deck
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal deck: %v", err)
	}
	if len(back.Cards) != len(d.Cards) {
		t.Fatalf("round trip lost cards: %d != %d", len(back.Cards), len(d.Cards))
	}
	for i := range d.Cards {
		if back.Cards[i] != d.Cards[i] {
			t.Fatalf("card %d changed: %v != %v", i, back.Cards[i], d.Cards[i])
		}
	}

	var bad Card
	if err := json.Unmarshal([]byte(`"ZZ9"`), &bad); err == nil {
		t.Error("bad card code should not unmarshal")
	}
}
