package settlement

import (
	"context"
	"encoding/json"
	"fmt"

	"zkdrop/internal/claim"
	"zkdrop/internal/platform/kafka"
)

// KafkaEmitter publishes sealed envelopes to the settlement topic. Records
// are keyed by the payout owner; with the topic's single partition, emission
// order is preserved end to end regardless of the key.
type KafkaEmitter struct {
	producer *kafka.Producer
	topic    string
}

func NewKafkaEmitter(producer *kafka.Producer, topic string) *KafkaEmitter {
	return &KafkaEmitter{producer: producer, topic: topic}
}

func (e *KafkaEmitter) Emit(ctx context.Context, env Envelope) error {
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode settlement envelope: %w", err)
	}
	var key []byte
	if msg, err := claim.DecodeSettlementMessage(env.Payload); err == nil {
		key = []byte(msg.Destination.OwnerID)
	}
	return e.producer.Publish(ctx, kafka.Message{
		Topic: e.topic,
		Key:   key,
		Value: value,
	})
}

// KafkaHandler adapts the settler to the consumer's topic handler contract.
type KafkaHandler struct {
	settler *Settler
}

func NewKafkaHandler(settler *Settler) *KafkaHandler {
	return &KafkaHandler{settler: settler}
}

func (h *KafkaHandler) Handle(ctx context.Context, msg *kafka.Message) error {
	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return fmt.Errorf("decode settlement envelope: %w", err)
	}
	return h.settler.Settle(ctx, env)
}
