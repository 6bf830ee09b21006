package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"valoratbot-casino/internal/config"
	"valoratbot-casino/internal/games"
	"valoratbot-casino/internal/games/crash"
	"valoratbot-casino/internal/models"
	"valoratbot-casino/internal/services"
)

type fakeWallet struct {
	balance   int64
	debits    []int64
	failDebit error
}

func (f *fakeWallet) Balance(ctx context.Context, guildID, userID string) (int64, error) {
	return f.balance, nil
}

func (f *fakeWallet) Wallet(ctx context.Context, guildID, userID string) (*models.Wallet, error) {
	return &models.Wallet{GuildID: guildID, UserID: userID, Balance: f.balance}, nil
}

func (f *fakeWallet) Debit(ctx context.Context, guildID, userID string, amount int64, description string) (int64, error) {
	if f.failDebit != nil {
		return 0, f.failDebit
	}
	f.debits = append(f.debits, amount)
	f.balance -= amount
	return f.balance, nil
}

func (f *fakeWallet) Credit(ctx context.Context, guildID, userID string, amount int64, description string) (int64, error) {
	f.balance += amount
	return f.balance, nil
}

func (f *fakeWallet) Ledger(ctx context.Context, guildID, userID string, limit int) ([]models.LedgerEntry, error) {
	return nil, nil
}

func (f *fakeWallet) Leaderboard(ctx context.Context, guildID string, limit int) ([]models.WalletRank, error) {
	return nil, nil
}

type fakeSessions struct {
	seqs   map[string]int
	closed []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{seqs: map[string]int{}}
}

func (f *fakeSessions) OpenSession(sessionID string) error {
	f.seqs[sessionID] = 0
	return nil
}

func (f *fakeSessions) AdvanceSession(sessionID string, seq int) error {
	current, ok := f.seqs[sessionID]
	if !ok || current != seq {
		return services.ErrSessionConflict
	}
	f.seqs[sessionID] = current + 1
	return nil
}

func (f *fakeSessions) CloseSession(sessionID string) error {
	delete(f.seqs, sessionID)
	f.closed = append(f.closed, sessionID)
	return nil
}

func (f *fakeSessions) CheckRateLimit(guildID, userID, action string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

func (f *fakeSessions) GetHistory(guildID, userID string, limit int64) ([]*models.RoundRecord, error) {
	return nil, nil
}

func (f *fakeSessions) GetGuildStats(guildID string, game models.GameType) (map[string]string, error) {
	return nil, nil
}

func newStubHandler(t *testing.T, wallet *fakeWallet, sessions *fakeSessions) *CasinoHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	codec, err := services.NewSessionCodec(key)
	if err != nil {
		t.Fatalf("Failed to build codec: %v", err)
	}

	cfg := &config.Config{
		MaxBetBlackjack: 100,
		MaxBetCrash:     100,
		MaxBetMines:     100,
		MaxBetRoulette:  100,
		MaxBetSlots:     100,
	}
	return NewCasinoHandler(cfg, wallet, sessions, codec, nil, nil, zap.NewNop())
}

func postJSON(handler gin.HandlerFunc, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	c.Request = req
	c.Set("user_id", "user1")
	handler(c)
	return w
}

func TestValidateWagerBounds(t *testing.T) {
	for _, w := range []int64{0, -5, 101} {
		if err := validateWager(w, 100); err != games.ErrInvalidWager {
			t.Errorf("validateWager(%d, 100) = %v, want ErrInvalidWager", w, err)
		}
	}
	for _, w := range []int64{1, 100} {
		if err := validateWager(w, 100); err != nil {
			t.Errorf("validateWager(%d, 100) = %v, want nil", w, err)
		}
	}
}

func TestOverCapStartLeavesWalletUntouched(t *testing.T) {
	tests := []struct {
		name    string
		handler func(*CasinoHandler) gin.HandlerFunc
		body    string
	}{
		{"blackjack", func(h *CasinoHandler) gin.HandlerFunc { return h.Blackjack },
			`{"guildId":"guild1","action":"start","wager":101}`},
		{"crash", func(h *CasinoHandler) gin.HandlerFunc { return h.Crash },
			`{"guildId":"guild1","action":"start","wager":101}`},
		{"mines", func(h *CasinoHandler) gin.HandlerFunc { return h.Mines },
			`{"guildId":"guild1","action":"start","wager":101,"mines":5}`},
		{"roulette", func(h *CasinoHandler) gin.HandlerFunc { return h.Roulette },
			`{"guildId":"guild1","bets":[{"type":"rouge","amount":101}]}`},
		{"slots", func(h *CasinoHandler) gin.HandlerFunc { return h.Slots },
			`{"guildId":"guild1","wager":101}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wallet := &fakeWallet{balance: 1000}
			h := newStubHandler(t, wallet, newFakeSessions())

			w := postJSON(tt.handler(h), tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", w.Code)
			}
			if len(wallet.debits) != 0 {
				t.Errorf("wallet was debited %v; over-cap wager must not touch it", wallet.debits)
			}
			if wallet.balance != 1000 {
				t.Errorf("balance = %d, want unchanged 1000", wallet.balance)
			}
		})
	}
}

func TestCrashStartClearsForfeitedCookieOnDebitFailure(t *testing.T) {
	wallet := &fakeWallet{balance: 1000, failDebit: services.ErrInsufficientFunds}
	sessions := newFakeSessions()
	h := newStubHandler(t, wallet, sessions)

	stale := crashSession{
		sessionMeta: newSessionMeta("guild1", "user1"),
		State:       crash.Start(50, newRNG(), time.Now()),
	}
	cw := httptest.NewRecorder()
	cc, _ := gin.CreateTestContext(cw)
	cc.Request = httptest.NewRequest(http.MethodPost, "/", nil)
	if err := h.writeSession(cc, models.GameTypeCrash, &stale); err != nil {
		t.Fatalf("Failed to write stale session: %v", err)
	}
	staleCookie := cw.Result().Cookies()[0]

	w := postJSON(h.Crash, `{"guildId":"guild1","action":"start","wager":60}`, staleCookie)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}

	if len(sessions.closed) != 1 || sessions.closed[0] != stale.ID {
		t.Errorf("stale session not closed: %v", sessions.closed)
	}

	cleared := false
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "vb_crash" && ck.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("forfeited crash cookie must be cleared when the new debit fails")
	}
}
