package settlement

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"zkdrop/internal/claim"
	"zkdrop/internal/platform/metrics"
	"zkdrop/pkg/faults"
)

// PayoutPolicy computes the payout for a recovered claimant. Deployments
// configure a fixed amount today; a snapshot-weighted schedule would slot in
// here without touching the submission flow.
type PayoutPolicy func(id claim.ClaimantID) claim.Amount

// FixedPayout pays every eligible claimant the same amount.
func FixedPayout(amount claim.Amount) PayoutPolicy {
	return func(claim.ClaimantID) claim.Amount { return amount }
}

// Submitter runs phase one of the settlement protocol on the shard receiving
// the claim. Verify, judge, price, emit — as one indivisible unit: either
// exactly one message is queued or none is, and an abort leaves no state
// behind.
type Submitter struct {
	applicationID string
	sender        string
	secret        []byte
	oracle        EligibilityOracle
	policy        PayoutPolicy
	emitter       Emitter
	logger        *slog.Logger
	metrics       *metrics.Metrics
	tracer        trace.Tracer
}

// SubmitterOption configures optional submitter dependencies.
type SubmitterOption func(*Submitter)

func WithSubmitterLogger(logger *slog.Logger) SubmitterOption {
	return func(s *Submitter) { s.logger = logger }
}

func WithSubmitterMetrics(m *metrics.Metrics) SubmitterOption {
	return func(s *Submitter) { s.metrics = m }
}

// NewSubmitter constructs the phase-one coordinator.
func NewSubmitter(applicationID, sender string, secret []byte, oracle EligibilityOracle, policy PayoutPolicy, emitter Emitter, opts ...SubmitterOption) (*Submitter, error) {
	if oracle == nil {
		return nil, fmt.Errorf("eligibility oracle is required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("settlement emitter is required")
	}
	if policy == nil {
		return nil, fmt.Errorf("payout policy is required")
	}

	s := &Submitter{
		applicationID: applicationID,
		sender:        sender,
		secret:        secret,
		oracle:        oracle,
		policy:        policy,
		emitter:       emitter,
		tracer:        otel.Tracer("zkdrop/settlement"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Submit processes one claim. On success exactly one authenticated settlement
// message has been queued for the treasury shard and the message is returned.
// On any fault nothing has been emitted and nothing was mutated.
func (s *Submitter) Submit(ctx context.Context, c claim.Claim) (*claim.SettlementMessage, error) {
	ctx, span := s.tracer.Start(ctx, "settlement.submit")
	defer span.End()

	id, err := claim.RecoverClaimant(s.applicationID, c.Destination, c.Signature)
	if err != nil {
		return nil, s.abort(ctx, faults.Wrap(err, faults.CodeInvalidSignature, "claim signature rejected"))
	}

	// The oracle query is the only suspension point in phase one; it completes
	// before any observable mutation.
	eligible, err := s.oracle.CheckEligibility(ctx, id.Hex(), c.Credential)
	if err != nil {
		return nil, s.abort(ctx, faults.Wrap(err, faults.CodeOracleUnavailable, "eligibility check failed"))
	}
	if !eligible {
		return nil, s.abort(ctx, faults.New(faults.CodeIneligible, "address is not eligible for the drop"))
	}

	msg := claim.SettlementMessage{
		ID:          id,
		Amount:      s.policy(id),
		Destination: c.Destination,
	}

	env := Seal(msg, s.sender, s.secret)
	if err := s.emitter.Emit(ctx, env); err != nil {
		return nil, s.abort(ctx, faults.Wrap(err, faults.CodeInternal, "failed to queue settlement message"))
	}

	if s.metrics != nil {
		s.metrics.ClaimsSubmitted.Inc()
	}
	s.logger.InfoContext(ctx, "settlement message emitted",
		"claimant", id.Hex(),
		"amount", msg.Amount.String(),
		"destination_shard", msg.Destination.ShardID,
		"envelope_id", env.ID,
	)
	return &msg, nil
}

func (s *Submitter) abort(ctx context.Context, f *faults.Fault) error {
	if s.metrics != nil {
		s.metrics.ClaimsAborted.WithLabelValues(string(f.Code)).Inc()
	}
	s.logger.WarnContext(ctx, "claim submission aborted", "reason", f.Code, "error", f)
	return f
}
