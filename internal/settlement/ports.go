package settlement

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"zkdrop/internal/claim"
	"zkdrop/internal/treasury"
)

// EligibilityOracle answers whether an address qualifies for the drop. A
// (false, nil) return is a definitive negative verdict; an error means the
// oracle could not judge the claim. Both abort a submission, with distinct
// fault codes.
type EligibilityOracle interface {
	CheckEligibility(ctx context.Context, address, credential string) (bool, error)
}

// DedupLedger is the persistent set of settled claimant ids. Insert fails
// with sentinel.ErrConflict when the id is present; Remove is the
// compensation used when a transfer fails inside the settlement unit.
type DedupLedger interface {
	Contains(ctx context.Context, id claim.ClaimantID) (bool, error)
	Insert(ctx context.Context, id claim.ClaimantID) error
	Remove(ctx context.Context, id claim.ClaimantID) error
}

// Transferer is the external transfer capability invoked at settlement.
type Transferer interface {
	Transfer(ctx context.Context, source treasury.Account, amount claim.Amount, destination treasury.Account) error
}

// Emitter queues exactly one sealed settlement message for delivery to the
// treasury shard. Emission is the submission phase's only side effect.
type Emitter interface {
	Emit(ctx context.Context, env Envelope) error
}

// Atomic runs one settlement unit: every mutation fn performs commits or none
// does. The SQL implementation uses a database transaction; the no-op
// implementation relies on the settler's compensating remove, which is sound
// because shard execution is strictly sequential.
type Atomic interface {
	RunAtomic(ctx context.Context, fn func(ctx context.Context) error) error
}
