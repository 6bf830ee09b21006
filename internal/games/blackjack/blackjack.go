// Package blackjack implements the dealer-vs-player state machine.
//
// Rules carried by the dashboard: dealer draws to 17, natural pays 2.5x
// unless the dealer also has one (push), one split allowed per split up
// to three hands total, doubling re-debits the original wager and draws
// exactly one card.
package blackjack

import (
	"math/rand"

	"valoratbot-casino/internal/games"
	"valoratbot-casino/internal/games/cards"
)

type Status string

const (
	StatusPlaying Status = "playing"
	StatusDone    Status = "done"
)

const (
	// MaxHands caps splitting at three concurrent hands.
	MaxHands = 3

	dealerStand = 17
	deckCount   = 1
)

// State is the full secret game state carried in the encrypted session
// blob. The dealer's hole card and the deck order must never reach the
// client before the game is done.
type State struct {
	Deck    *cards.Deck  `json:"deck"`
	Hands   []cards.Hand `json:"hands"`
	Dealer  cards.Hand   `json:"dealer"`
	Bets    []int64      `json:"bets"`
	Doubled []bool       `json:"doubled"`
	Current int          `json:"current"`
	Status  Status       `json:"status"`
	Natural bool         `json:"natural"`
}

// HandResult is the settled outcome of one player hand.
type HandResult struct {
	Payout  int64  `json:"payout"`
	Verdict string `json:"verdict"`
}

// Start debits nothing itself; the caller must have debited wager
// already. It deals the opening cards and resolves immediately on a
// natural 21.
func Start(wager int64, rng *rand.Rand) *State {
	deck := cards.NewDeck(deckCount, rng)

	player := cards.Hand{deck.Deal()}
	dealer := cards.Hand{deck.Deal()}
	player = append(player, deck.Deal())
	dealer = append(dealer, deck.Deal())

	s := &State{
		Deck:    deck,
		Hands:   []cards.Hand{player},
		Dealer:  dealer,
		Bets:    []int64{wager},
		Doubled: []bool{false},
		Current: 0,
		Status:  StatusPlaying,
	}

	if player.IsBlackjack() {
		s.Natural = true
		s.Status = StatusDone
	}
	return s
}

// Hit deals one card to the active hand, advancing on bust or 21.
func (s *State) Hit() error {
	if s.Status != StatusPlaying {
		return games.ErrStateConflict
	}
	hand := append(s.Hands[s.Current], s.Deck.Deal())
	s.Hands[s.Current] = hand
	if hand.IsBust() || hand.Value() == 21 {
		s.advance()
	}
	return nil
}

// Stand ends the active hand.
func (s *State) Stand() error {
	if s.Status != StatusPlaying {
		return games.ErrStateConflict
	}
	s.advance()
	return nil
}

// CanDouble reports whether the active hand may be doubled. The extra
// debit equals the hand's original wager; the caller must take it from
// the wallet before calling Double.
func (s *State) CanDouble() bool {
	return s.Status == StatusPlaying &&
		len(s.Hands[s.Current]) == 2 &&
		!s.Doubled[s.Current]
}

// DoubleCost is the additional amount to debit for a double down.
func (s *State) DoubleCost() int64 {
	return s.Bets[s.Current]
}

// Double doubles the active bet, draws exactly one card and advances.
func (s *State) Double() error {
	if s.Status != StatusPlaying {
		return games.ErrStateConflict
	}
	if !s.CanDouble() {
		return games.ErrStateConflict
	}
	s.Bets[s.Current] *= 2
	s.Doubled[s.Current] = true
	s.Hands[s.Current] = append(s.Hands[s.Current], s.Deck.Deal())
	s.advance()
	return nil
}

// CanSplit reports whether the active hand is a splittable pair.
func (s *State) CanSplit() bool {
	return s.Status == StatusPlaying &&
		s.Hands[s.Current].IsPair() &&
		len(s.Hands) < MaxHands
}

// SplitCost is the additional amount to debit for a split: the new hand
// carries the same wager as the hand it came from.
func (s *State) SplitCost() int64 {
	return s.Bets[s.Current]
}

// Split divides the active pair into two hands, dealing one card to
// each. The new hand is queued directly after the current one.
func (s *State) Split() error {
	if s.Status != StatusPlaying {
		return games.ErrStateConflict
	}
	if !s.CanSplit() {
		return games.ErrStateConflict
	}

	hand := s.Hands[s.Current]
	first := cards.Hand{hand[0], s.Deck.Deal()}
	second := cards.Hand{hand[1], s.Deck.Deal()}

	s.Hands[s.Current] = first
	s.Hands = append(s.Hands, nil)
	copy(s.Hands[s.Current+2:], s.Hands[s.Current+1:])
	s.Hands[s.Current+1] = second

	s.Bets = append(s.Bets, 0)
	copy(s.Bets[s.Current+2:], s.Bets[s.Current+1:])
	s.Bets[s.Current+1] = s.Bets[s.Current]

	s.Doubled = append(s.Doubled, false)
	copy(s.Doubled[s.Current+2:], s.Doubled[s.Current+1:])
	s.Doubled[s.Current+1] = false

	return nil
}

// advance moves to the next hand, or plays the dealer and finishes.
func (s *State) advance() {
	s.Current++
	if s.Current < len(s.Hands) {
		return
	}
	s.playDealer()
	s.Status = StatusDone
}

// playDealer draws to the stand threshold. Skipped when every player
// hand busted; the dealer wins regardless and the hole card is simply
// revealed.
func (s *State) playDealer() {
	anyLive := false
	for _, h := range s.Hands {
		if !h.IsBust() {
			anyLive = true
			break
		}
	}
	if !anyLive {
		return
	}
	for s.Dealer.Value() < dealerStand {
		s.Dealer = append(s.Dealer, s.Deck.Deal())
	}
}

// Settle computes the total payout and per-hand verdicts. Only valid
// once Status is done.
func (s *State) Settle() (int64, []HandResult) {
	if s.Natural {
		if s.Dealer.IsBlackjack() {
			return s.Bets[0], []HandResult{{Payout: s.Bets[0], Verdict: "push"}}
		}
		payout := s.Bets[0] * 5 / 2
		return payout, []HandResult{{Payout: payout, Verdict: "blackjack"}}
	}

	dealerValue := s.Dealer.Value()
	dealerBust := s.Dealer.IsBust()

	total := int64(0)
	results := make([]HandResult, len(s.Hands))
	for i, hand := range s.Hands {
		bet := s.Bets[i]
		var r HandResult
		switch {
		case hand.IsBust():
			r = HandResult{Payout: 0, Verdict: "bust"}
		case dealerBust:
			r = HandResult{Payout: 2 * bet, Verdict: "dealer_bust"}
		case hand.Value() > dealerValue:
			r = HandResult{Payout: 2 * bet, Verdict: "win"}
		case hand.Value() == dealerValue:
			r = HandResult{Payout: bet, Verdict: "push"}
		default:
			r = HandResult{Payout: 0, Verdict: "loss"}
		}
		results[i] = r
		total += r.Payout
	}
	return total, results
}

// TotalBet is the sum committed across all hands, doubles included.
func (s *State) TotalBet() int64 {
	var t int64
	for _, b := range s.Bets {
		t += b
	}
	return t
}

// View is the client-visible projection of the state. While the game is
// live the dealer shows only the up card.
type View struct {
	Hands       [][]string   `json:"hands"`
	HandValues  []int        `json:"hand_values"`
	Dealer      []string     `json:"dealer"`
	DealerValue int          `json:"dealer_value"`
	Bets        []int64      `json:"bets"`
	Current     int          `json:"current"`
	Status      Status       `json:"status"`
	CanDouble   bool         `json:"can_double"`
	CanSplit    bool         `json:"can_split"`
	Results     []HandResult `json:"results,omitempty"`
	Payout      int64        `json:"payout,omitempty"`
}

// ClientView builds the response body for the current state.
func (s *State) ClientView() View {
	v := View{
		Hands:      make([][]string, len(s.Hands)),
		HandValues: make([]int, len(s.Hands)),
		Bets:       append([]int64(nil), s.Bets...),
		Current:    s.Current,
		Status:     s.Status,
		CanDouble:  s.CanDouble(),
		CanSplit:   s.CanSplit(),
	}
	for i, h := range s.Hands {
		v.Hands[i] = h.Codes()
		v.HandValues[i] = h.Value()
	}

	if s.Status == StatusDone {
		v.Dealer = s.Dealer.Codes()
		v.DealerValue = s.Dealer.Value()
		payout, results := s.Settle()
		v.Results = results
		v.Payout = payout
	} else {
		v.Dealer = []string{s.Dealer[0].String(), "??"}
		v.DealerValue = s.Dealer[0].Value()
	}
	return v
}
