package crash

import (
	"math/rand"
	"testing"
	"time"

	"valoratbot-casino/internal/games"
)

func TestNewPointBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	instant := 0
	for i := 0; i < 10000; i++ {
		p := NewPoint(rng)
		if p < 1.0 || p > MaxPoint {
			t.Fatalf("crash point %f out of [1, %f]", p, MaxPoint)
		}
		if p == 1.0 {
			instant++
		}
	}
	// 5% forced instant busts plus the organic ones near 1.00.
	if instant < 300 {
		t.Errorf("only %d/10000 instant crashes, expected the 5%% floor to show", instant)
	}
}

func TestImplausibleCashoutRejected(t *testing.T) {
	start := time.Now()
	s := &State{Wager: 100, Point: 50.0, StartedAt: start.UnixMilli()}

	// 10x after one second: the curve allows only about e^(0.06*3) = 1.2.
	_, err := s.Cashout(10.0, start.Add(time.Second))
	if err != games.ErrStateConflict {
		t.Fatalf("err = %v, want ErrStateConflict for implausible multiplier", err)
	}
}

func TestPlausibleCashoutWins(t *testing.T) {
	start := time.Now()
	s := &State{Wager: 100, Point: 2.0, StartedAt: start.UnixMilli()}

	res, err := s.Cashout(1.5, start.Add(10*time.Second))
	if err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if !res.Win {
		t.Error("1.5x under a 2.0x point should win")
	}
	if res.Payout != 150 {
		t.Errorf("payout = %d, want floor(100*1.5) = 150", res.Payout)
	}
}

func TestCashoutAboveCrashPointLoses(t *testing.T) {
	start := time.Now()
	s := &State{Wager: 100, Point: 1.3, StartedAt: start.UnixMilli()}

	res, err := s.Cashout(1.5, start.Add(10*time.Second))
	if err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if res.Win {
		t.Error("1.5x over a 1.3x point must lose")
	}
	if res.Payout != 0 {
		t.Errorf("payout = %d, want 0", res.Payout)
	}
}

func TestPayoutFloors(t *testing.T) {
	start := time.Now()
	s := &State{Wager: 333, Point: 100, StartedAt: start.UnixMilli()}

	res, err := s.Cashout(1.01, start.Add(time.Minute))
	if err != nil {
		t.Fatalf("cashout: %v", err)
	}
	if res.Payout != 336 { // floor(333 * 1.01) = floor(336.33)
		t.Errorf("payout = %d, want 336", res.Payout)
	}
}

func TestBadMultiplierRejected(t *testing.T) {
	start := time.Now()
	s := &State{Wager: 100, Point: 2.0, StartedAt: start.UnixMilli()}
	for _, m := range []float64{0, 0.5, -1} {
		if _, err := s.Cashout(m, start); err != games.ErrBadAction {
			t.Errorf("multiplier %f: err = %v, want ErrBadAction", m, err)
		}
	}
}

func TestMaxPlausibleCurve(t *testing.T) {
	// At t=1s the bound is e^(0.06*(1+2)) which is about 1.197.
	got := MaxPlausible(time.Second)
	if got < 1.19 || got > 1.21 {
		t.Errorf("MaxPlausible(1s) = %f, want about 1.2", got)
	}
	if MaxPlausible(-time.Second) != MaxPlausible(0) {
		t.Error("negative elapsed time should clamp to zero")
	}
}
