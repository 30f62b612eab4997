// Package kafka wraps franz-go behind the small producer/consumer surface the
// settlement channel needs. Messages on a topic partition are delivered in
// order and handled one at a time, which is what gives the treasury side its
// strictly sequential execution model.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Message is the transport-level record handed to topic handlers.
type Message struct {
	Topic   string
	Key     []byte
	Value   []byte
	Headers map[string][]byte
}

// Handler handles messages from a subscribed topic.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// Producer publishes messages synchronously. Synchronous production keeps the
// submission path's "exactly one message or none" contract observable.
type Producer struct {
	client *kgo.Client
}

// NewProducer creates a producer connected to the given brokers.
func NewProducer(brokers []string) (*Producer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}
	return &Producer{client: client}, nil
}

// Publish produces a single record and waits for the broker acknowledgment.
func (p *Producer) Publish(ctx context.Context, msg Message) error {
	rec := &kgo.Record{
		Topic: msg.Topic,
		Key:   msg.Key,
		Value: msg.Value,
	}
	for k, v := range msg.Headers {
		rec.Headers = append(rec.Headers, kgo.RecordHeader{Key: k, Value: v})
	}
	if err := p.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce to %s: %w", msg.Topic, err)
	}
	return nil
}

// Close flushes and releases the underlying client.
func (p *Producer) Close() {
	p.client.Close()
}

// Consumer consumes a topic within a group and dispatches records to a
// handler strictly in partition order. Offsets are committed only after the
// handler returns, so an unhandled crash redelivers rather than drops.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	logger  *slog.Logger
}

// NewConsumer creates a consumer for the given topics.
func NewConsumer(brokers []string, group string, topics []string, handler Handler, logger *slog.Logger) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return &Consumer{client: client, handler: handler, logger: logger}, nil
}

// Run polls until the context is canceled. Handler errors are logged and the
// offset is committed anyway: settlement failures are terminal for that
// message, and the dedup ledger makes redelivery safe regardless.
func (c *Consumer) Run(ctx context.Context) error {
	defer c.client.Close()
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("kafka fetch error", "topic", topic, "partition", partition, "error", err)
		})

		iter := fetches.RecordIter()
		for !iter.Done() {
			rec := iter.Next()
			msg := &Message{
				Topic:   rec.Topic,
				Key:     rec.Key,
				Value:   rec.Value,
				Headers: make(map[string][]byte, len(rec.Headers)),
			}
			for _, h := range rec.Headers {
				msg.Headers[h.Key] = h.Value
			}
			if err := c.handler.Handle(ctx, msg); err != nil {
				c.logger.Error("message handling failed",
					"topic", rec.Topic,
					"key", string(rec.Key),
					"error", err,
				)
			}
			if err := c.client.CommitRecords(ctx, rec); err != nil {
				return fmt.Errorf("commit offsets: %w", err)
			}
		}
	}
}

// EnsureTopic creates the topic if it does not exist. A single partition is
// deliberate: it is the ordering guarantee of the settlement channel.
func EnsureTopic(ctx context.Context, brokers []string, topic string) error {
	client, err := kgo.NewClient(kgo.SeedBrokers(brokers...))
	if err != nil {
		return fmt.Errorf("create kafka admin client: %w", err)
	}
	defer client.Close()

	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, topic)
	if err != nil {
		return fmt.Errorf("create topic %s: %w", topic, err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}
