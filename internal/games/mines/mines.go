// Package mines implements the 25-cell minesweeper wager game. The bomb
// layout is rolled at start and lives only inside the encrypted session
// blob until the round ends.
package mines

import (
	"math/rand"

	"valoratbot-casino/internal/games"
)

const (
	// Cells is the board size, a fixed 5x5 grid.
	Cells = 25

	// MinMines and MaxMines bound the caller-chosen bomb count.
	MinMines = 1
	MaxMines = 24

	// houseEdge shaves 1% off the fair multiplier.
	houseEdge = 0.99
)

type Status string

const (
	StatusPlaying   Status = "playing"
	StatusCashedOut Status = "cashed_out"
	StatusBombed    Status = "bombed"
)

// State is the secret session blob for a live mines round.
type State struct {
	Wager    int64  `json:"wager"`
	Mines    int    `json:"mines"`
	Bombs    []int  `json:"bombs"`
	Revealed []int  `json:"revealed"`
	Status   Status `json:"status"`
}

// Start rolls a board with the requested bomb count. The wager must
// already be debited.
func Start(wager int64, mines int, rng *rand.Rand) (*State, error) {
	if mines < MinMines || mines > MaxMines {
		return nil, games.ErrBadAction
	}
	perm := rng.Perm(Cells)
	bombs := make([]int, mines)
	copy(bombs, perm[:mines])
	return &State{
		Wager:  wager,
		Mines:  mines,
		Bombs:  bombs,
		Status: StatusPlaying,
	}, nil
}

// Multiplier is the payout multiplier after revealed safe cells: the
// inverse survival probability times the house edge, rounded to two
// decimals. Past the last safe cell the survival probability is zero,
// so the multiplier is reported as 0 rather than letting 1/p blow up.
func Multiplier(mines, revealed int) float64 {
	if revealed <= 0 {
		return 1.0
	}
	if revealed > Cells-mines {
		return 0
	}
	p := 1.0
	for i := 0; i < revealed; i++ {
		p *= float64(Cells-mines-i) / float64(Cells-i)
	}
	return games.Round2((1 / p) * houseEdge)
}

// PickResult describes the outcome of revealing one cell.
type PickResult struct {
	Cell       int     `json:"cell"`
	Bomb       bool    `json:"bomb"`
	Multiplier float64 `json:"multiplier"`
	Payout     int64   `json:"payout"`
	AutoCashed bool    `json:"auto_cashed"`
	Done       bool    `json:"done"`
}

// Pick reveals a cell. A bomb ends the round at zero; clearing the last
// safe cell cashes out automatically.
func (s *State) Pick(cell int) (*PickResult, error) {
	if s.Status != StatusPlaying {
		return nil, games.ErrStateConflict
	}
	if cell < 0 || cell >= Cells {
		return nil, games.ErrBadAction
	}
	for _, r := range s.Revealed {
		if r == cell {
			return nil, games.ErrStateConflict
		}
	}

	for _, b := range s.Bombs {
		if b == cell {
			s.Status = StatusBombed
			return &PickResult{Cell: cell, Bomb: true, Done: true}, nil
		}
	}

	s.Revealed = append(s.Revealed, cell)
	mult := Multiplier(s.Mines, len(s.Revealed))
	res := &PickResult{Cell: cell, Multiplier: mult}

	if len(s.Revealed) == Cells-s.Mines {
		s.Status = StatusCashedOut
		res.AutoCashed = true
		res.Done = true
		res.Payout = games.Payout(s.Wager, mult)
	}
	return res, nil
}

// Cashout settles the round at the current multiplier. At least one
// cell must have been revealed.
func (s *State) Cashout() (int64, float64, error) {
	if s.Status != StatusPlaying {
		return 0, 0, games.ErrStateConflict
	}
	if len(s.Revealed) == 0 {
		return 0, 0, games.ErrStateConflict
	}
	mult := Multiplier(s.Mines, len(s.Revealed))
	s.Status = StatusCashedOut
	return games.Payout(s.Wager, mult), mult, nil
}

// View is the client-visible projection: revealed cells and the current
// multiplier, never the layout. Bombs are only echoed by the handler
// once the round is terminal.
type View struct {
	Mines      int     `json:"mines"`
	Revealed   []int   `json:"revealed"`
	Multiplier float64 `json:"multiplier"`
	NextMult   float64 `json:"next_multiplier"`
	Status     Status  `json:"status"`
	Bombs      []int   `json:"bombs,omitempty"`
}

func (s *State) ClientView() View {
	v := View{
		Mines:      s.Mines,
		Revealed:   append([]int(nil), s.Revealed...),
		Multiplier: Multiplier(s.Mines, len(s.Revealed)),
		NextMult:   Multiplier(s.Mines, len(s.Revealed)+1),
		Status:     s.Status,
	}
	if s.Status != StatusPlaying {
		v.Bombs = append([]int(nil), s.Bombs...)
	}
	return v
}
