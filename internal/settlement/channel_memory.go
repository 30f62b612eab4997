package settlement

import (
	"context"
	"log/slog"
)

// MemoryChannel is the in-process settlement channel: reliable, ordered,
// buffered. It connects the two coordinator halves in tests and single-node
// development runs the same way the Kafka channel does in production.
type MemoryChannel struct {
	ch chan Envelope
}

// NewMemoryChannel creates a channel with the given buffer.
func NewMemoryChannel(buffer int) *MemoryChannel {
	return &MemoryChannel{ch: make(chan Envelope, buffer)}
}

// Emit queues an envelope for delivery in emission order.
func (c *MemoryChannel) Emit(ctx context.Context, env Envelope) error {
	select {
	case c.ch <- env:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run delivers envelopes to the settler one at a time until the context is
// canceled. Settlement faults are terminal per message and logged, not
// retried.
func (c *MemoryChannel) Run(ctx context.Context, settler *Settler, logger *slog.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-c.ch:
			if err := settler.Settle(ctx, env); err != nil {
				logger.WarnContext(ctx, "settlement message failed", "envelope_id", env.ID, "error", err)
			}
		}
	}
}

// Drain synchronously delivers every queued envelope. Test helper for
// asserting on terminal state without running the delivery goroutine.
func (c *MemoryChannel) Drain(ctx context.Context, settler *Settler) []error {
	var errs []error
	for {
		select {
		case env := <-c.ch:
			if err := settler.Settle(ctx, env); err != nil {
				errs = append(errs, err)
			}
		default:
			return errs
		}
	}
}

// Len reports the number of queued envelopes.
func (c *MemoryChannel) Len() int { return len(c.ch) }
