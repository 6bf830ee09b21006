package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"valoratbot-casino/internal/config"
	"valoratbot-casino/internal/models"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrWalletNotFound    = errors.New("wallet not found")
	ErrNegativeAmount    = errors.New("amount must be non-negative")
)

// WalletService owns the (guild, user) balance table. Debits are a
// single conditional UPDATE, so two concurrent requests for the same
// player serialize on the row instead of racing a read-modify-write;
// the balance can never go negative.
type WalletService struct {
	db              *sql.DB
	startingBalance int64
}

func NewWalletService(cfg *config.Config) (*WalletService, error) {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &WalletService{db: db, startingBalance: cfg.StartingBalance}, nil
}

func (s *WalletService) Close() error {
	return s.db.Close()
}

// Balance returns the player's balance, creating the wallet row at the
// starting balance on first contact.
func (s *WalletService) Balance(ctx context.Context, guildID, userID string) (int64, error) {
	w, err := s.Wallet(ctx, guildID, userID)
	if err != nil {
		return 0, err
	}
	return w.Balance, nil
}

// Wallet returns the full wallet row, creating it at the starting
// balance on first contact.
func (s *WalletService) Wallet(ctx context.Context, guildID, userID string) (*models.Wallet, error) {
	if err := s.ensureWallet(ctx, guildID, userID); err != nil {
		return nil, err
	}
	var w models.Wallet
	err := s.db.QueryRowContext(ctx,
		`SELECT guild_id, user_id, balance, loan_amount, created_at, updated_at
		 FROM wallets WHERE guild_id=$1 AND user_id=$2`,
		guildID, userID).Scan(&w.GuildID, &w.UserID, &w.Balance, &w.LoanAmount, &w.CreatedAt, &w.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrWalletNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// Debit atomically takes amount from the wallet, failing with
// ErrInsufficientFunds when the balance cannot cover it. Returns the
// new balance.
func (s *WalletService) Debit(ctx context.Context, guildID, userID string, amount int64, description string) (int64, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	if err := s.ensureWallet(ctx, guildID, userID); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx,
		`UPDATE wallets SET balance = balance - $3, updated_at = now()
		 WHERE guild_id=$1 AND user_id=$2 AND balance >= $3
		 RETURNING balance`,
		guildID, userID, amount).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrInsufficientFunds
	}
	if err != nil {
		return 0, fmt.Errorf("debit wallet: %w", err)
	}

	if err := appendLedger(ctx, tx, guildID, userID, models.LedgerOpDebit, amount, description); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

// Credit adds amount to the wallet and returns the new balance.
func (s *WalletService) Credit(ctx context.Context, guildID, userID string, amount int64, description string) (int64, error) {
	if amount < 0 {
		return 0, ErrNegativeAmount
	}
	if err := s.ensureWallet(ctx, guildID, userID); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var balance int64
	err = tx.QueryRowContext(ctx,
		`UPDATE wallets SET balance = balance + $3, updated_at = now()
		 WHERE guild_id=$1 AND user_id=$2
		 RETURNING balance`,
		guildID, userID, amount).Scan(&balance)
	if err == sql.ErrNoRows {
		return 0, ErrWalletNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("credit wallet: %w", err)
	}

	if err := appendLedger(ctx, tx, guildID, userID, models.LedgerOpCredit, amount, description); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return balance, nil
}

// Ledger returns the player's most recent wallet mutations, newest
// first.
func (s *WalletService) Ledger(ctx context.Context, guildID, userID string, limit int) ([]models.LedgerEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, guild_id, user_id, op, amount, description, created_at
		 FROM wallet_ledger
		 WHERE guild_id=$1 AND user_id=$2
		 ORDER BY created_at DESC LIMIT $3`,
		guildID, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("get ledger: %w", err)
	}
	defer rows.Close()

	var entries []models.LedgerEntry
	for rows.Next() {
		var e models.LedgerEntry
		if err := rows.Scan(&e.ID, &e.GuildID, &e.UserID, &e.Op, &e.Amount, &e.Description, &e.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Leaderboard returns the guild's richest wallets.
func (s *WalletService) Leaderboard(ctx context.Context, guildID string, limit int) ([]models.WalletRank, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, balance FROM wallets
		 WHERE guild_id=$1 ORDER BY balance DESC LIMIT $2`,
		guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	defer rows.Close()

	var ranks []models.WalletRank
	for rows.Next() {
		var r models.WalletRank
		if err := rows.Scan(&r.UserID, &r.Balance); err != nil {
			return nil, err
		}
		r.Rank = len(ranks) + 1
		ranks = append(ranks, r)
	}
	return ranks, rows.Err()
}

func (s *WalletService) ensureWallet(ctx context.Context, guildID, userID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO wallets(guild_id, user_id, balance, loan_amount)
		 VALUES ($1, $2, $3, 0)
		 ON CONFLICT (guild_id, user_id) DO NOTHING`,
		guildID, userID, s.startingBalance)
	if err != nil {
		return fmt.Errorf("ensure wallet: %w", err)
	}
	return nil
}

func appendLedger(ctx context.Context, tx *sql.Tx, guildID, userID string, op models.LedgerOp, amount int64, description string) error {
	_, err := tx.ExecContext(ctx,
		`INSERT INTO wallet_ledger(id, guild_id, user_id, op, amount, description)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		uuid.New().String(), guildID, userID, op, amount, description)
	if err != nil {
		return fmt.Errorf("append ledger: %w", err)
	}
	return nil
}
