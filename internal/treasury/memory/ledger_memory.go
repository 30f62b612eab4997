package memory

import (
	"context"
	"fmt"
	"sync"

	"zkdrop/internal/claim"
	"zkdrop/internal/treasury"
)

// Ledger is the in-memory fungible ledger backing unit tests and single-node
// development runs.
type Ledger struct {
	mu       sync.Mutex
	balances map[string]claim.Amount
}

func New() *Ledger {
	return &Ledger{balances: make(map[string]claim.Amount)}
}

func (l *Ledger) Transfer(_ context.Context, source treasury.Account, amount claim.Amount, destination treasury.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	from := l.balances[source.String()]
	if from.Cmp(amount) < 0 {
		return fmt.Errorf("transfer %s from %s: %w", amount, source, treasury.ErrInsufficientBalance)
	}
	l.balances[source.String()] = from.Sub(amount)
	l.balances[destination.String()] = l.balances[destination.String()].Add(amount)
	return nil
}

func (l *Ledger) Balance(_ context.Context, account treasury.Account) (claim.Amount, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account.String()], nil
}

func (l *Ledger) Credit(_ context.Context, account treasury.Account, amount claim.Amount) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account.String()] = l.balances[account.String()].Add(amount)
	return nil
}
