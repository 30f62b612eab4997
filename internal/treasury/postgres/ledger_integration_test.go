//go:build integration

package postgres_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"zkdrop/internal/claim"
	"zkdrop/internal/treasury"
	"zkdrop/internal/treasury/postgres"
	txcontext "zkdrop/pkg/platform/tx"
	"zkdrop/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	suite.Suite
	pg     *containers.PostgresContainer
	ledger *postgres.Ledger
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.ledger = postgres.New(s.pg.DB)
	s.Require().NoError(s.ledger.Migrate(context.Background()))
}

func (s *PostgresLedgerSuite) SetupTest() {
	_, err := s.pg.DB.Exec(`TRUNCATE treasury_accounts`)
	s.Require().NoError(err)
}

var (
	testSource = treasury.Account{ShardID: "treasury-0", OwnerID: "app"}
	testDest   = treasury.Account{ShardID: "shard-1", OwnerID: "alice"}
)

func (s *PostgresLedgerSuite) TestTransferMovesBalance() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Credit(ctx, testSource, claim.NewAmount(10)))

	s.Require().NoError(s.ledger.Transfer(ctx, testSource, claim.AmountOne(), testDest))

	got, err := s.ledger.Balance(ctx, testSource)
	s.Require().NoError(err)
	s.True(got.Equal(claim.NewAmount(9)))

	got, err = s.ledger.Balance(ctx, testDest)
	s.Require().NoError(err)
	s.True(got.Equal(claim.AmountOne()))
}

func (s *PostgresLedgerSuite) TestTransferInsufficientBalance() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Credit(ctx, testSource, claim.AmountOne()))

	err := s.ledger.Transfer(ctx, testSource, claim.NewAmount(2), testDest)
	s.ErrorIs(err, treasury.ErrInsufficientBalance)

	got, err := s.ledger.Balance(ctx, testSource)
	s.Require().NoError(err)
	s.True(got.Equal(claim.AmountOne()), "failed transfer must not debit the source")
}

func (s *PostgresLedgerSuite) TestTransferRollsBackWithTransaction() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Credit(ctx, testSource, claim.NewAmount(5)))

	tx, err := s.pg.DB.BeginTx(ctx, nil)
	s.Require().NoError(err)
	txCtx := txcontext.WithTx(ctx, tx)

	s.Require().NoError(s.ledger.Transfer(txCtx, testSource, claim.AmountOne(), testDest))
	s.Require().NoError(tx.Rollback())

	got, err := s.ledger.Balance(ctx, testSource)
	s.Require().NoError(err)
	s.True(got.Equal(claim.NewAmount(5)), "rolled back transfer must leave the treasury untouched")
}
