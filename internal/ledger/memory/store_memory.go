package memory

import (
	"context"
	"fmt"
	"sync"

	"zkdrop/internal/claim"
	"zkdrop/pkg/platform/sentinel"
)

// Store is the in-memory dedup ledger. It favors clarity over performance and
// backs unit tests and single-node development runs.
type Store struct {
	mu      sync.RWMutex
	settled map[claim.ClaimantID]struct{}
}

func New() *Store {
	return &Store{settled: make(map[claim.ClaimantID]struct{})}
}

func (s *Store) Contains(_ context.Context, id claim.ClaimantID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.settled[id]
	return ok, nil
}

func (s *Store) Insert(_ context.Context, id claim.ClaimantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.settled[id]; ok {
		return fmt.Errorf("claim %s: %w", id, sentinel.ErrConflict)
	}
	s.settled[id] = struct{}{}
	return nil
}

func (s *Store) Remove(_ context.Context, id claim.ClaimantID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.settled, id)
	return nil
}

// List returns all settled ids. Admin surface only.
func (s *Store) List(_ context.Context) ([]claim.ClaimantID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]claim.ClaimantID, 0, len(s.settled))
	for id := range s.settled {
		out = append(out, id)
	}
	return out, nil
}
