package models

import "time"

// Wallet is the per-(guild,user) balance row. Amounts are integer units of
// the bot's virtual currency; no real money is handled anywhere.
type Wallet struct {
	GuildID    string    `json:"guild_id"`
	UserID     string    `json:"user_id"`
	Balance    int64     `json:"balance"`
	LoanAmount int64     `json:"loan_amount"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type LedgerOp string

const (
	LedgerOpDebit  LedgerOp = "debit"
	LedgerOpCredit LedgerOp = "credit"
)

// LedgerEntry records one wallet mutation for the dashboard's history views.
type LedgerEntry struct {
	ID          string    `json:"id"`
	GuildID     string    `json:"guild_id"`
	UserID      string    `json:"user_id"`
	Op          LedgerOp  `json:"op"`
	Amount      int64     `json:"amount"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// WalletRank is one leaderboard row.
type WalletRank struct {
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
	Rank    int    `json:"rank"`
}
