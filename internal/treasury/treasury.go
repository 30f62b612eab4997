// Package treasury defines the transfer capability the settler invokes. The
// token ledger's own accounting is out of scope; this package holds just
// enough of a fungible ledger to honor the call contract, hold the payable
// balance, and let settlement outcomes be observed.
package treasury

import (
	"context"
	"errors"

	"zkdrop/internal/claim"
)

// ErrInsufficientBalance is returned when the source account cannot cover the
// transfer. The settler treats it as a fatal transfer failure for the current
// message.
var ErrInsufficientBalance = errors.New("insufficient balance")

// Account identifies a fungible account.
type Account struct {
	ShardID string
	OwnerID string
}

func (a Account) String() string {
	return a.ShardID + "/" + a.OwnerID
}

// AccountFromDestination converts a payout destination into a ledger account.
func AccountFromDestination(d claim.Destination) Account {
	return Account{ShardID: d.ShardID, OwnerID: d.OwnerID}
}

// Transferer is the external transfer capability: debit source, credit
// destination, all or nothing.
type Transferer interface {
	Transfer(ctx context.Context, source Account, amount claim.Amount, destination Account) error
}

// Ledger extends the transfer capability with the read and mint surface the
// gateway needs for wiring and observability.
type Ledger interface {
	Transferer

	Balance(ctx context.Context, account Account) (claim.Amount, error)

	// Credit mints into an account. Deployment-time funding of the treasury;
	// never called on the settlement path.
	Credit(ctx context.Context, account Account, amount claim.Amount) error
}
