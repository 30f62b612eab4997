package redis

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"zkdrop/internal/claim"
	"zkdrop/pkg/platform/sentinel"
)

// settledKey is the redis set holding all settled claimant ids.
const settledKey = "zkdrop:settled_claims"

// Store is the Redis dedup ledger, a single set keyed by claimant id. Redis
// persistence must be configured durable (AOF) for the one-time guarantee to
// survive restarts; for strict durability prefer the postgres store.
type Store struct {
	client goredis.UniversalClient
}

func New(client goredis.UniversalClient) *Store {
	return &Store{client: client}
}

func (s *Store) Contains(ctx context.Context, id claim.ClaimantID) (bool, error) {
	ok, err := s.client.SIsMember(ctx, settledKey, id.Hex()).Result()
	if err != nil {
		return false, fmt.Errorf("check settled claim: %w", err)
	}
	return ok, nil
}

func (s *Store) Insert(ctx context.Context, id claim.ClaimantID) error {
	added, err := s.client.SAdd(ctx, settledKey, id.Hex()).Result()
	if err != nil {
		return fmt.Errorf("insert settled claim: %w", err)
	}
	if added == 0 {
		return fmt.Errorf("claim %s: %w", id, sentinel.ErrConflict)
	}
	return nil
}

func (s *Store) Remove(ctx context.Context, id claim.ClaimantID) error {
	if err := s.client.SRem(ctx, settledKey, id.Hex()).Err(); err != nil {
		return fmt.Errorf("remove settled claim: %w", err)
	}
	return nil
}

// List returns all settled ids. Admin surface only.
func (s *Store) List(ctx context.Context) ([]claim.ClaimantID, error) {
	members, err := s.client.SMembers(ctx, settledKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list settled claims: %w", err)
	}
	out := make([]claim.ClaimantID, 0, len(members))
	for _, m := range members {
		id, err := claim.ParseClaimantID(m)
		if err != nil {
			return nil, fmt.Errorf("parse settled claim %q: %w", m, err)
		}
		out = append(out, id)
	}
	return out, nil
}
