package settlement

import (
	"context"
	"database/sql"
	"fmt"

	txcontext "zkdrop/pkg/platform/tx"
)

// NopAtomic runs the unit directly. Paired with the in-memory stores, where
// the settler's compensating remove provides the rollback; sound because
// shard execution is strictly sequential.
type NopAtomic struct{}

func (NopAtomic) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// SQLAtomic runs the unit inside one database transaction carried through
// context, so the tx-aware stores commit or roll back together.
type SQLAtomic struct {
	DB *sql.DB
}

func (a SQLAtomic) RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := a.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settlement unit: %w", err)
	}

	if err := fn(txcontext.WithTx(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback settlement unit after %w: %v", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit settlement unit: %w", err)
	}
	return nil
}
