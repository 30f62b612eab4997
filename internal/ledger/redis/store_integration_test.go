//go:build integration

package redis_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"zkdrop/internal/claim"
	redisledger "zkdrop/internal/ledger/redis"
	"zkdrop/pkg/platform/sentinel"
	"zkdrop/pkg/testutil/containers"
)

type RedisLedgerSuite struct {
	suite.Suite
	rc    *containers.RedisContainer
	store *redisledger.Store
}

func TestRedisLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisLedgerSuite))
}

func (s *RedisLedgerSuite) SetupSuite() {
	s.rc = containers.NewRedisContainer(s.T())
	s.store = redisledger.New(s.rc.Client)
}

func (s *RedisLedgerSuite) SetupTest() {
	s.Require().NoError(s.rc.Client.FlushAll(context.Background()).Err())
}

func (s *RedisLedgerSuite) TestInsertContainsRemove() {
	ctx := context.Background()
	id, err := claim.ParseClaimantID("0x00112233445566778899aabbccddeeff00112233")
	s.Require().NoError(err)

	ok, err := s.store.Contains(ctx, id)
	s.Require().NoError(err)
	s.False(ok)

	s.Require().NoError(s.store.Insert(ctx, id))
	s.ErrorIs(s.store.Insert(ctx, id), sentinel.ErrConflict)

	ok, err = s.store.Contains(ctx, id)
	s.Require().NoError(err)
	s.True(ok)

	s.Require().NoError(s.store.Remove(ctx, id))
	ok, err = s.store.Contains(ctx, id)
	s.Require().NoError(err)
	s.False(ok)
}

func (s *RedisLedgerSuite) TestList() {
	ctx := context.Background()
	first, err := claim.ParseClaimantID("0x1111111111111111111111111111111111111111")
	s.Require().NoError(err)
	second, err := claim.ParseClaimantID("0x2222222222222222222222222222222222222222")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Insert(ctx, first))
	s.Require().NoError(s.store.Insert(ctx, second))

	ids, err := s.store.List(ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]claim.ClaimantID{first, second}, ids)
}
