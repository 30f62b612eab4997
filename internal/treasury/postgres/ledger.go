package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"math/big"

	"zkdrop/internal/claim"
	"zkdrop/internal/treasury"
	txcontext "zkdrop/pkg/platform/tx"
)

// Ledger is the PostgreSQL fungible ledger. Balances are stored as integer
// counts of the smallest token unit in a NUMERIC column wide enough for any
// amount. Statements join the ambient transaction when the context carries
// one, so a settlement's debit commits or rolls back with its dedup insert.
type Ledger struct {
	db *sql.DB
}

func New(db *sql.DB) *Ledger {
	return &Ledger{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (l *Ledger) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return l.db
}

// Migrate creates the treasury_accounts table if needed.
func (l *Ledger) Migrate(ctx context.Context) error {
	_, err := l.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS treasury_accounts (
			account TEXT PRIMARY KEY,
			balance NUMERIC(78, 0) NOT NULL DEFAULT 0 CHECK (balance >= 0)
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate treasury_accounts: %w", err)
	}
	return nil
}

func (l *Ledger) Transfer(ctx context.Context, source treasury.Account, amount claim.Amount, destination treasury.Account) error {
	units := unitsString(amount)

	res, err := l.execer(ctx).ExecContext(ctx, `
		UPDATE treasury_accounts
		SET balance = balance - $2
		WHERE account = $1 AND balance >= $2
	`, source.String(), units)
	if err != nil {
		return fmt.Errorf("debit %s: %w", source, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("debit %s: %w", source, err)
	}
	if rows == 0 {
		return fmt.Errorf("transfer %s from %s: %w", amount, source, treasury.ErrInsufficientBalance)
	}

	if _, err := l.execer(ctx).ExecContext(ctx, `
		INSERT INTO treasury_accounts (account, balance) VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET balance = treasury_accounts.balance + EXCLUDED.balance
	`, destination.String(), units); err != nil {
		return fmt.Errorf("credit %s: %w", destination, err)
	}
	return nil
}

func (l *Ledger) Balance(ctx context.Context, account treasury.Account) (claim.Amount, error) {
	var units string
	err := l.execer(ctx).QueryRowContext(ctx,
		`SELECT balance FROM treasury_accounts WHERE account = $1`, account.String(),
	).Scan(&units)
	if err == sql.ErrNoRows {
		return claim.AmountZero(), nil
	}
	if err != nil {
		return claim.AmountZero(), fmt.Errorf("read balance of %s: %w", account, err)
	}

	v, ok := new(big.Int).SetString(units, 10)
	if !ok {
		return claim.AmountZero(), fmt.Errorf("read balance of %s: invalid numeric %q", account, units)
	}
	return claim.AmountFromBytes(v.Bytes()), nil
}

func (l *Ledger) Credit(ctx context.Context, account treasury.Account, amount claim.Amount) error {
	if _, err := l.execer(ctx).ExecContext(ctx, `
		INSERT INTO treasury_accounts (account, balance) VALUES ($1, $2)
		ON CONFLICT (account) DO UPDATE SET balance = treasury_accounts.balance + EXCLUDED.balance
	`, account.String(), unitsString(amount)); err != nil {
		return fmt.Errorf("credit %s: %w", account, err)
	}
	return nil
}

// unitsString renders an amount as a decimal integer of smallest units for
// the NUMERIC column.
func unitsString(a claim.Amount) string {
	return new(big.Int).SetBytes(a.Bytes()).String()
}
