package settlement_test

import (
	"context"
	"crypto/ecdsa"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"zkdrop/internal/claim"
	ledgermem "zkdrop/internal/ledger/memory"
	"zkdrop/internal/settlement"
	"zkdrop/internal/treasury"
	treasurymem "zkdrop/internal/treasury/memory"
	"zkdrop/pkg/faults"
)

// =============================================================================
// End-to-End Settlement Scenarios
// =============================================================================
// Justification: both protocol phases wired together over the in-memory
// channel and stores, exercising the one-time guarantee under redelivery and
// the rollback of the dedup record when the treasury cannot pay.

// allowAll is an eligibility oracle that judges every address eligible.
type allowAll struct{}

func (allowAll) CheckEligibility(context.Context, string, string) (bool, error) {
	return true, nil
}

type dropFixture struct {
	channel   *settlement.MemoryChannel
	submitter *settlement.Submitter
	settler   *settlement.Settler
	dedup     *ledgermem.Store
	treasury  *treasurymem.Ledger
	source    treasury.Account
}

func newDropFixture(t *testing.T, funding claim.Amount) *dropFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	channel := settlement.NewMemoryChannel(16)
	dedup := ledgermem.New()
	bank := treasurymem.New()
	source := treasury.Account{ShardID: "treasury-shard", OwnerID: "drop-pool"}
	require.NoError(t, bank.Credit(context.Background(), source, funding))

	submitter, err := settlement.NewSubmitter(
		testApplicationID, testSender, testSecret,
		allowAll{},
		settlement.FixedPayout(claim.AmountOne()),
		channel,
		settlement.WithSubmitterLogger(logger),
	)
	require.NoError(t, err)

	settler, err := settlement.NewSettler(
		testSecret, source, dedup, bank, nil,
		settlement.WithSettlerLogger(logger),
	)
	require.NoError(t, err)

	return &dropFixture{
		channel:   channel,
		submitter: submitter,
		settler:   settler,
		dedup:     dedup,
		treasury:  bank,
		source:    source,
	}
}

func signedClaimFor(t *testing.T, key *ecdsa.PrivateKey, dest claim.Destination) claim.Claim {
	t.Helper()
	sig, err := claim.SignClaim(key, testApplicationID, dest)
	require.NoError(t, err)
	return claim.Claim{Signature: sig, Destination: dest, Credential: "token-1"}
}

func TestClaimIsPaidOnceUnderRedelivery(t *testing.T) {
	ctx := context.Background()
	fx := newDropFixture(t, claim.NewAmount(10))

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	dest := claim.Destination{ShardID: "shard-9", OwnerID: "wallet-1"}

	msg, err := fx.submitter.Submit(ctx, signedClaimFor(t, key, dest))
	require.NoError(t, err)
	require.Equal(t, 1, fx.channel.Len())

	// First delivery pays out and records the claimant.
	require.Empty(t, fx.channel.Drain(ctx, fx.settler))

	destAccount := treasury.AccountFromDestination(dest)
	balance, err := fx.treasury.Balance(ctx, destAccount)
	require.NoError(t, err)
	require.True(t, balance.Equal(claim.AmountOne()))

	paid, err := fx.dedup.Contains(ctx, msg.ID)
	require.NoError(t, err)
	require.True(t, paid)

	// Redeliver the identical envelope: the dedup ledger rejects it and no
	// balance moves.
	env := settlement.Seal(*msg, testSender, testSecret)
	require.NoError(t, fx.channel.Emit(ctx, env))
	errs := fx.channel.Drain(ctx, fx.settler)
	require.Len(t, errs, 1)
	require.Equal(t, faults.CodeAlreadyPaid, faults.CodeOf(errs[0]))

	balance, err = fx.treasury.Balance(ctx, destAccount)
	require.NoError(t, err)
	require.True(t, balance.Equal(claim.AmountOne()))

	sourceBalance, err := fx.treasury.Balance(ctx, fx.source)
	require.NoError(t, err)
	require.True(t, sourceBalance.Equal(claim.NewAmount(9)))
}

func TestSecondClaimOfSameWalletIsRejected(t *testing.T) {
	ctx := context.Background()
	fx := newDropFixture(t, claim.NewAmount(10))

	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	// The same wallet signs twice for two different destinations. Both
	// submissions pass verification; only the first settles.
	first := claim.Destination{ShardID: "shard-9", OwnerID: "wallet-1"}
	second := claim.Destination{ShardID: "shard-4", OwnerID: "wallet-2"}

	_, err = fx.submitter.Submit(ctx, signedClaimFor(t, key, first))
	require.NoError(t, err)
	_, err = fx.submitter.Submit(ctx, signedClaimFor(t, key, second))
	require.NoError(t, err)
	require.Equal(t, 2, fx.channel.Len())

	errs := fx.channel.Drain(ctx, fx.settler)
	require.Len(t, errs, 1)
	require.Equal(t, faults.CodeAlreadyPaid, faults.CodeOf(errs[0]))

	firstBalance, err := fx.treasury.Balance(ctx, treasury.AccountFromDestination(first))
	require.NoError(t, err)
	require.True(t, firstBalance.Equal(claim.AmountOne()))

	secondBalance, err := fx.treasury.Balance(ctx, treasury.AccountFromDestination(second))
	require.NoError(t, err)
	require.True(t, secondBalance.IsZero())
}

func TestExhaustedTreasuryRollsBackDedupRecord(t *testing.T) {
	ctx := context.Background()
	fx := newDropFixture(t, claim.AmountOne())

	keyA, err := crypto.GenerateKey()
	require.NoError(t, err)
	keyB, err := crypto.GenerateKey()
	require.NoError(t, err)

	destA := claim.Destination{ShardID: "shard-9", OwnerID: "wallet-a"}
	destB := claim.Destination{ShardID: "shard-9", OwnerID: "wallet-b"}

	msgA, err := fx.submitter.Submit(ctx, signedClaimFor(t, keyA, destA))
	require.NoError(t, err)
	msgB, err := fx.submitter.Submit(ctx, signedClaimFor(t, keyB, destB))
	require.NoError(t, err)

	errs := fx.channel.Drain(ctx, fx.settler)
	require.Len(t, errs, 1)
	require.Equal(t, faults.CodeTransferFailed, faults.CodeOf(errs[0]))

	// The first claimant drained the pool; the second claimant's id must not
	// stay burned in the ledger, so a later retry can still pay out.
	paidA, err := fx.dedup.Contains(ctx, msgA.ID)
	require.NoError(t, err)
	require.True(t, paidA)

	paidB, err := fx.dedup.Contains(ctx, msgB.ID)
	require.NoError(t, err)
	require.False(t, paidB)

	balanceB, err := fx.treasury.Balance(ctx, treasury.AccountFromDestination(destB))
	require.NoError(t, err)
	require.True(t, balanceB.IsZero())

	// Refund the pool and redeliver B's message: it settles cleanly.
	require.NoError(t, fx.treasury.Credit(ctx, fx.source, claim.AmountOne()))
	require.NoError(t, fx.channel.Emit(ctx, settlement.Seal(*msgB, testSender, testSecret)))
	require.Empty(t, fx.channel.Drain(ctx, fx.settler))

	balanceB, err = fx.treasury.Balance(ctx, treasury.AccountFromDestination(destB))
	require.NoError(t, err)
	require.True(t, balanceB.Equal(claim.AmountOne()))
}
