// Package ledger defines the dedup ledger: the persistent set of claimant
// identities whose settlement succeeded. One entry per identity, ever.
package ledger

import (
	"context"

	"zkdrop/internal/claim"
)

// Store is the persistent dedup set. Shard execution is strictly sequential,
// so Contains-then-Insert for a given id is race-free within a shard.
//
// Remove exists only as compensation inside an aborted settlement unit: when
// the treasury transfer fails, the insertion performed in the same unit is
// undone so the identity is not burned without payment. An id whose
// settlement succeeded is never removed.
type Store interface {
	Contains(ctx context.Context, id claim.ClaimantID) (bool, error)

	// Insert records the id, failing with sentinel.ErrConflict (wrapped) if it
	// is already present.
	Insert(ctx context.Context, id claim.ClaimantID) error

	Remove(ctx context.Context, id claim.ClaimantID) error
}
