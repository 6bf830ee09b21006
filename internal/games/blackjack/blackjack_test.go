package blackjack

import (
	"math/rand"
	"testing"

	"valoratbot-casino/internal/games"
	"valoratbot-casino/internal/games/cards"
)

func card(code string) cards.Card {
	return cards.Card{Rank: code[:len(code)-1], Suit: code[len(code)-1:]}
}

func hand(codes ...string) cards.Hand {
	h := make(cards.Hand, len(codes))
	for i, c := range codes {
		h[i] = card(c)
	}
	return h
}

func deck(codes ...string) *cards.Deck {
	d := &cards.Deck{}
	for _, c := range codes {
		d.Cards = append(d.Cards, card(c))
	}
	return d
}

// playing returns a mid-game state with the given hands and deck.
func playing(player, dealer cards.Hand, d *cards.Deck, bet int64) *State {
	return &State{
		Deck:    d,
		Hands:   []cards.Hand{player},
		Dealer:  dealer,
		Bets:    []int64{bet},
		Doubled: []bool{false},
		Status:  StatusPlaying,
	}
}

func TestStartDealsTwoEach(t *testing.T) {
	s := Start(100, rand.New(rand.NewSource(3)))
	if len(s.Hands) != 1 || len(s.Hands[0]) != 2 {
		t.Fatalf("player should start with one 2-card hand, got %v", s.Hands)
	}
	if len(s.Dealer) != 2 {
		t.Fatalf("dealer should start with 2 cards, got %d", len(s.Dealer))
	}
	if s.Deck.Remaining() != 48 {
		t.Errorf("deck should have 48 cards after the deal, got %d", s.Deck.Remaining())
	}
	if s.Bets[0] != 100 {
		t.Errorf("bet = %d, want 100", s.Bets[0])
	}
}

func TestNaturalPaysFiveToTwo(t *testing.T) {
	s := playing(hand("AS", "KH"), hand("9D", "7C"), deck(), 100)
	s.Natural = true
	s.Status = StatusDone

	payout, results := s.Settle()
	if payout != 250 {
		t.Errorf("natural payout = %d, want 250", payout)
	}
	if results[0].Verdict != "blackjack" {
		t.Errorf("verdict = %q, want blackjack", results[0].Verdict)
	}
}

func TestNaturalVersusDealerNaturalPushes(t *testing.T) {
	s := playing(hand("AS", "KH"), hand("AD", "QC"), deck(), 100)
	s.Natural = true
	s.Status = StatusDone

	payout, results := s.Settle()
	if payout != 100 {
		t.Errorf("push payout = %d, want full refund 100", payout)
	}
	if results[0].Verdict != "push" {
		t.Errorf("verdict = %q, want push", results[0].Verdict)
	}
}

func TestDealerDrawsToSeventeen(t *testing.T) {
	// Player stands on 20; dealer holds 16 and must draw the 5.
	s := playing(hand("KS", "QH"), hand("9D", "7C"), deck("5H", "9S"), 100)
	if err := s.Stand(); err != nil {
		t.Fatalf("stand: %v", err)
	}
	if s.Status != StatusDone {
		t.Fatal("game should be done after the only hand stands")
	}
	if got := s.Dealer.Value(); got != 21 {
		t.Errorf("dealer value = %d, want 21 after drawing to 17", got)
	}

	payout, _ := s.Settle()
	if payout != 0 {
		t.Errorf("payout = %d, want 0 against dealer 21", payout)
	}
}

func TestDealerStandsOnSeventeen(t *testing.T) {
	s := playing(hand("KS", "9H"), hand("10D", "7C"), deck("5H"), 100)
	if err := s.Stand(); err != nil {
		t.Fatalf("stand: %v", err)
	}
	if len(s.Dealer) != 2 {
		t.Errorf("dealer drew on 17: %v", s.Dealer)
	}
	payout, results := s.Settle()
	if payout != 200 || results[0].Verdict != "win" {
		t.Errorf("payout = %d (%s), want 200 win for 19 vs 17", payout, results[0].Verdict)
	}
}

func TestHitBustEndsHand(t *testing.T) {
	s := playing(hand("KS", "QH"), hand("9D", "7C"), deck("5H", "8S"), 100)
	if err := s.Hit(); err != nil {
		t.Fatalf("hit: %v", err)
	}
	if !s.Hands[0].IsBust() {
		t.Fatal("hand should be busted on 25")
	}
	if s.Status != StatusDone {
		t.Error("bust on the only hand should finish the game")
	}
	// All hands busted: dealer keeps the hole card down and draws nothing.
	if len(s.Dealer) != 2 {
		t.Errorf("dealer should not draw when every hand busted, has %d cards", len(s.Dealer))
	}
	payout, results := s.Settle()
	if payout != 0 || results[0].Verdict != "bust" {
		t.Errorf("payout = %d (%s), want 0 bust", payout, results[0].Verdict)
	}
}

func TestDoubleDrawsOneCardAndAdvances(t *testing.T) {
	s := playing(hand("5S", "6H"), hand("10D", "7C"), deck("9H"), 100)
	if !s.CanDouble() {
		t.Fatal("two-card hand should be doubleable")
	}
	if s.DoubleCost() != 100 {
		t.Errorf("double cost = %d, want 100", s.DoubleCost())
	}
	if err := s.Double(); err != nil {
		t.Fatalf("double: %v", err)
	}
	if s.Bets[0] != 200 {
		t.Errorf("bet after double = %d, want 200", s.Bets[0])
	}
	if len(s.Hands[0]) != 3 {
		t.Errorf("hand should have exactly 3 cards after double, got %d", len(s.Hands[0]))
	}
	if s.Status != StatusDone {
		t.Error("double should auto-advance and finish a single-hand game")
	}

	// Player 20 vs dealer 17: doubled bet pays out at 2x.
	payout, _ := s.Settle()
	if payout != 400 {
		t.Errorf("payout = %d, want 400", payout)
	}
}

func TestDoubleRejectedAfterHit(t *testing.T) {
	s := playing(hand("2S", "3H"), hand("10D", "7C"), deck("2H", "4D", "9C"), 100)
	if err := s.Hit(); err != nil {
		t.Fatalf("hit: %v", err)
	}
	if err := s.Double(); err != games.ErrStateConflict {
		t.Errorf("double on 3-card hand: err = %v, want ErrStateConflict", err)
	}
}

func TestSplitPairThenPlayBothHands(t *testing.T) {
	s := playing(hand("8S", "8H"), hand("10D", "7C"), deck("3H", "5D"), 100)
	if !s.CanSplit() {
		t.Fatal("8+8 should be splittable")
	}
	if err := s.Split(); err != nil {
		t.Fatalf("split: %v", err)
	}
	if len(s.Hands) != 2 {
		t.Fatalf("expected 2 hands after split, got %d", len(s.Hands))
	}
	if s.Bets[0] != 100 || s.Bets[1] != 100 {
		t.Errorf("both hands should carry the original wager, got %v", s.Bets)
	}
	for i, h := range s.Hands {
		if len(h) != 2 || h[0].Rank != "8" {
			t.Errorf("hand %d malformed after split: %v", i, h)
		}
	}
	if s.Current != 0 {
		t.Errorf("play should continue on the first split hand, current = %d", s.Current)
	}
}

func TestSplitNonPairRejected(t *testing.T) {
	s := playing(hand("8S", "9H"), hand("10D", "7C"), deck("3H"), 100)
	if err := s.Split(); err != games.ErrStateConflict {
		t.Errorf("split on non-pair: err = %v, want ErrStateConflict", err)
	}
}

func TestSplitCappedAtThreeHands(t *testing.T) {
	// Deck rigged so both split hands receive another 8.
	s := playing(hand("8S", "8H"), hand("10D", "7C"), deck("8D", "8C", "2H", "3H", "4H", "5H", "6H", "9H"), 100)
	if err := s.Split(); err != nil {
		t.Fatalf("first split: %v", err)
	}
	if err := s.Split(); err != nil {
		t.Fatalf("second split: %v", err)
	}
	if len(s.Hands) != 3 {
		t.Fatalf("expected 3 hands, got %d", len(s.Hands))
	}
	if s.CanSplit() {
		t.Error("third split must not be offered at the three-hand cap")
	}
	if err := s.Split(); err != games.ErrStateConflict {
		t.Errorf("third split: err = %v, want ErrStateConflict", err)
	}
}

func TestActionsRejectedWhenDone(t *testing.T) {
	s := playing(hand("KS", "QH"), hand("10D", "7C"), deck("5H"), 100)
	if err := s.Stand(); err != nil {
		t.Fatalf("stand: %v", err)
	}
	for name, fn := range map[string]func() error{
		"hit": s.Hit, "stand": s.Stand, "double": s.Double, "split": s.Split,
	} {
		if err := fn(); err != games.ErrStateConflict {
			t.Errorf("%s on finished game: err = %v, want ErrStateConflict", name, err)
		}
	}
}

func TestViewHidesHoleCardWhilePlaying(t *testing.T) {
	s := playing(hand("5S", "6H"), hand("10D", "7C"), deck("9H"), 100)
	v := s.ClientView()
	if len(v.Dealer) != 2 || v.Dealer[1] != "??" {
		t.Errorf("live view must mask the hole card, got %v", v.Dealer)
	}
	if v.DealerValue != 10 {
		t.Errorf("live dealer value = %d, want up-card only 10", v.DealerValue)
	}

	if err := s.Stand(); err != nil {
		t.Fatalf("stand: %v", err)
	}
	v = s.ClientView()
	if v.Dealer[1] == "??" {
		t.Error("finished view must reveal the dealer hand")
	}
	if v.Payout == 0 && v.Results == nil {
		t.Error("finished view should carry settlement results")
	}
}

func TestPushRefundsBet(t *testing.T) {
	s := playing(hand("KS", "9H"), hand("10D", "9C"), deck(), 100)
	s.Status = StatusDone
	s.Current = 1
	payout, results := s.Settle()
	if payout != 100 || results[0].Verdict != "push" {
		t.Errorf("19 vs 19: payout = %d (%s), want 100 push", payout, results[0].Verdict)
	}
}
