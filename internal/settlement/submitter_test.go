package settlement_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"zkdrop/internal/claim"
	"zkdrop/internal/settlement"
	"zkdrop/internal/settlement/mocks"
	"zkdrop/pkg/faults"
)

// =============================================================================
// Submitter Test Suite
// =============================================================================
// Justification for unit tests: the submitter owns the "exactly one message or
// none" contract. Tests verify constructor invariants, the fault code for each
// abort path, and that aborts never reach the emitter.

const (
	testApplicationID = "app-7f3a"
	testSender        = "claim-shard-1"
)

var testSecret = []byte("channel-secret-for-tests")

type SubmitterSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockOracle  *mocks.MockEligibilityOracle
	mockEmitter *mocks.MockEmitter
	submitter   *settlement.Submitter
}

func TestSubmitterSuite(t *testing.T) {
	suite.Run(t, new(SubmitterSuite))
}

func (s *SubmitterSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockOracle = mocks.NewMockEligibilityOracle(s.ctrl)
	s.mockEmitter = mocks.NewMockEmitter(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	var err error
	s.submitter, err = settlement.NewSubmitter(
		testApplicationID,
		testSender,
		testSecret,
		s.mockOracle,
		settlement.FixedPayout(claim.AmountOne()),
		s.mockEmitter,
		settlement.WithSubmitterLogger(logger),
	)
	s.Require().NoError(err)
}

func (s *SubmitterSuite) TearDownTest() {
	s.ctrl.Finish()
}

// signedClaim produces a claim with a valid signature and returns the
// claimant id the submitter should recover from it.
func (s *SubmitterSuite) signedClaim() (claim.Claim, claim.ClaimantID) {
	key, err := crypto.GenerateKey()
	s.Require().NoError(err)

	dest := claim.Destination{ShardID: "shard-9", OwnerID: "owner-abc"}
	sig, err := claim.SignClaim(key, testApplicationID, dest)
	s.Require().NoError(err)

	var id claim.ClaimantID
	copy(id[:], crypto.PubkeyToAddress(key.PublicKey).Bytes())
	return claim.Claim{Signature: sig, Destination: dest, Credential: "token-1"}, id
}

// =============================================================================
// Constructor Tests
// =============================================================================

func (s *SubmitterSuite) TestNewSubmitterRequiresOracle() {
	_, err := settlement.NewSubmitter(testApplicationID, testSender, testSecret,
		nil, settlement.FixedPayout(claim.AmountOne()), s.mockEmitter)
	s.Require().Error(err)
	s.Contains(err.Error(), "oracle")
}

func (s *SubmitterSuite) TestNewSubmitterRequiresEmitter() {
	_, err := settlement.NewSubmitter(testApplicationID, testSender, testSecret,
		s.mockOracle, settlement.FixedPayout(claim.AmountOne()), nil)
	s.Require().Error(err)
	s.Contains(err.Error(), "emitter")
}

func (s *SubmitterSuite) TestNewSubmitterRequiresPolicy() {
	_, err := settlement.NewSubmitter(testApplicationID, testSender, testSecret,
		s.mockOracle, nil, s.mockEmitter)
	s.Require().Error(err)
	s.Contains(err.Error(), "policy")
}

// =============================================================================
// Submit Tests
// =============================================================================

func (s *SubmitterSuite) TestSubmitEmitsExactlyOneAuthenticatedMessage() {
	c, wantID := s.signedClaim()

	s.mockOracle.EXPECT().
		CheckEligibility(gomock.Any(), wantID.Hex(), "token-1").
		Return(true, nil)

	var emitted settlement.Envelope
	s.mockEmitter.EXPECT().
		Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, env settlement.Envelope) error {
			emitted = env
			return nil
		}).
		Times(1)

	msg, err := s.submitter.Submit(context.Background(), c)
	s.Require().NoError(err)
	s.Require().NotNil(msg)
	s.Equal(wantID, msg.ID)
	s.True(msg.Amount.Equal(claim.AmountOne()))
	s.Equal(c.Destination, msg.Destination)

	// The queued envelope must open with the channel secret and carry the
	// same message the caller was told about.
	s.Equal(testSender, emitted.Sender)
	opened, err := emitted.Open(testSecret)
	s.Require().NoError(err)
	s.Equal(*msg, opened)
}

func (s *SubmitterSuite) TestSubmitRejectsInvalidSignature() {
	c, _ := s.signedClaim()
	c.Signature[10] ^= 0xff

	// Neither the oracle nor the emitter may see a claim that fails
	// verification.
	msg, err := s.submitter.Submit(context.Background(), c)
	s.Require().Error(err)
	s.Nil(msg)
	s.Equal(faults.CodeInvalidSignature, faults.CodeOf(err))
}

func (s *SubmitterSuite) TestSubmitRejectsMalformedSignature() {
	c, _ := s.signedClaim()
	c.Signature = c.Signature[:32]

	msg, err := s.submitter.Submit(context.Background(), c)
	s.Require().Error(err)
	s.Nil(msg)
	s.Equal(faults.CodeInvalidSignature, faults.CodeOf(err))
}

func (s *SubmitterSuite) TestSubmitAbortsWhenOracleUnavailable() {
	c, wantID := s.signedClaim()

	s.mockOracle.EXPECT().
		CheckEligibility(gomock.Any(), wantID.Hex(), "token-1").
		Return(false, errors.New("gateway timeout"))

	msg, err := s.submitter.Submit(context.Background(), c)
	s.Require().Error(err)
	s.Nil(msg)
	s.Equal(faults.CodeOracleUnavailable, faults.CodeOf(err))
}

func (s *SubmitterSuite) TestSubmitAbortsWhenIneligible() {
	c, wantID := s.signedClaim()

	s.mockOracle.EXPECT().
		CheckEligibility(gomock.Any(), wantID.Hex(), "token-1").
		Return(false, nil)

	msg, err := s.submitter.Submit(context.Background(), c)
	s.Require().Error(err)
	s.Nil(msg)
	s.Equal(faults.CodeIneligible, faults.CodeOf(err))
}

func (s *SubmitterSuite) TestSubmitAbortsWhenEmitFails() {
	c, wantID := s.signedClaim()

	s.mockOracle.EXPECT().
		CheckEligibility(gomock.Any(), wantID.Hex(), "token-1").
		Return(true, nil)
	s.mockEmitter.EXPECT().
		Emit(gomock.Any(), gomock.Any()).
		Return(errors.New("broker down"))

	msg, err := s.submitter.Submit(context.Background(), c)
	s.Require().Error(err)
	s.Nil(msg)
	s.Equal(faults.CodeInternal, faults.CodeOf(err))
}
