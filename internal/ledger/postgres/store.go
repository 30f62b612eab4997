package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"zkdrop/internal/claim"
	"zkdrop/pkg/platform/sentinel"
	txcontext "zkdrop/pkg/platform/tx"
)

// Store is the PostgreSQL dedup ledger. When the context carries a
// transaction (the settler's atomic unit), all statements run inside it, so a
// failed transfer rolls the insertion back with everything else.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *Store) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

// Migrate creates the settled_claims table if needed.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS settled_claims (
			id         BYTEA PRIMARY KEY,
			settled_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("migrate settled_claims: %w", err)
	}
	return nil
}

func (s *Store) Contains(ctx context.Context, id claim.ClaimantID) (bool, error) {
	var exists bool
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM settled_claims WHERE id = $1)`, id.Bytes(),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check settled claim: %w", err)
	}
	return exists, nil
}

func (s *Store) Insert(ctx context.Context, id claim.ClaimantID) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO settled_claims (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id.Bytes(),
	)
	if err != nil {
		return fmt.Errorf("insert settled claim: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert settled claim: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("claim %s: %w", id, sentinel.ErrConflict)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id claim.ClaimantID) error {
	if _, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM settled_claims WHERE id = $1`, id.Bytes(),
	); err != nil {
		return fmt.Errorf("remove settled claim: %w", err)
	}
	return nil
}

// List returns all settled ids. Admin surface only.
func (s *Store) List(ctx context.Context) ([]claim.ClaimantID, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `SELECT id FROM settled_claims ORDER BY settled_at`)
	if err != nil {
		return nil, fmt.Errorf("list settled claims: %w", err)
	}
	defer rows.Close()

	var out []claim.ClaimantID
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan settled claim: %w", err)
		}
		var id claim.ClaimantID
		copy(id[:], raw)
		out = append(out, id)
	}
	return out, rows.Err()
}
