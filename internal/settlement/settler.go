package settlement

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"zkdrop/internal/platform/metrics"
	"zkdrop/internal/treasury"
	"zkdrop/pkg/faults"
	"zkdrop/pkg/platform/sentinel"
)

// Settler runs phase two of the settlement protocol on the treasury shard.
// For each delivered envelope: authenticate, dedup, then insert-and-transfer
// as one atomic unit. A dedup hit fails with already_paid and touches
// nothing; a failed transfer rolls the insertion back with it, so the
// one-time guarantee reads "at most one committed payment", never "id burned
// on a failed payment".
type Settler struct {
	secret   []byte
	source   treasury.Account
	ledger   DedupLedger
	treasury Transferer
	atomic   Atomic
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// SettlerOption configures optional settler dependencies.
type SettlerOption func(*Settler)

func WithSettlerLogger(logger *slog.Logger) SettlerOption {
	return func(s *Settler) { s.logger = logger }
}

func WithSettlerMetrics(m *metrics.Metrics) SettlerOption {
	return func(s *Settler) { s.metrics = m }
}

// NewSettler constructs the phase-two coordinator.
func NewSettler(secret []byte, source treasury.Account, ledger DedupLedger, transferer Transferer, atomic Atomic, opts ...SettlerOption) (*Settler, error) {
	if ledger == nil {
		return nil, fmt.Errorf("dedup ledger is required")
	}
	if transferer == nil {
		return nil, fmt.Errorf("transferer is required")
	}
	if atomic == nil {
		atomic = NopAtomic{}
	}

	s := &Settler{
		secret:   secret,
		source:   source,
		ledger:   ledger,
		treasury: transferer,
		atomic:   atomic,
		tracer:   otel.Tracer("zkdrop/settlement"),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Settle executes one delivered settlement message to its terminal state:
// paid, or aborted with the ledger and treasury untouched. All faults are
// terminal for this delivery; redelivery is the channel's concern and is safe
// against the dedup ledger regardless of count.
func (s *Settler) Settle(ctx context.Context, env Envelope) error {
	ctx, span := s.tracer.Start(ctx, "settlement.settle")
	defer span.End()

	msg, err := env.Open(s.secret)
	if err != nil {
		if errors.Is(err, ErrNotAuthenticated) {
			return faults.Wrap(err, faults.CodeUnauthorized, "settlement envelope rejected")
		}
		return faults.Wrap(err, faults.CodeBadRequest, "settlement envelope malformed")
	}

	err = s.atomic.RunAtomic(ctx, func(ctx context.Context) error {
		paid, err := s.ledger.Contains(ctx, msg.ID)
		if err != nil {
			return faults.Wrap(err, faults.CodeInternal, "dedup ledger unavailable")
		}
		if paid {
			if s.metrics != nil {
				s.metrics.DedupHits.Inc()
			}
			return faults.New(faults.CodeAlreadyPaid, "claim has already been paid")
		}

		// Insert before transfer, inside the same unit: the ordering contract
		// that makes a crash redeliverable and a failed transfer reversible.
		if err := s.ledger.Insert(ctx, msg.ID); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return faults.Wrap(err, faults.CodeAlreadyPaid, "claim has already been paid")
			}
			return faults.Wrap(err, faults.CodeInternal, "dedup ledger insert failed")
		}

		if err := s.treasury.Transfer(ctx, s.source, msg.Amount, treasury.AccountFromDestination(msg.Destination)); err != nil {
			// Compensation for non-transactional stores; under a SQL unit the
			// rollback triggered by the returned error covers it anyway.
			if rmErr := s.ledger.Remove(ctx, msg.ID); rmErr != nil {
				s.logger.ErrorContext(ctx, "failed to compensate dedup insert",
					"claimant", msg.ID.Hex(), "error", rmErr)
			}
			if s.metrics != nil {
				s.metrics.TransferFailures.Inc()
			}
			return faults.Wrap(err, faults.CodeTransferFailed, "treasury transfer failed")
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "settlement aborted",
			"claimant", msg.ID.Hex(),
			"envelope_id", env.ID,
			"reason", faults.CodeOf(err),
			"error", err,
		)
		return err
	}

	if s.metrics != nil {
		s.metrics.SettlementsPaid.Inc()
	}
	s.logger.InfoContext(ctx, "settlement paid",
		"claimant", msg.ID.Hex(),
		"amount", msg.Amount.String(),
		"destination_shard", msg.Destination.ShardID,
		"destination_owner", msg.Destination.OwnerID,
	)
	return nil
}
