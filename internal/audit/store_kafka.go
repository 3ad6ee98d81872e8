package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"a2admin/internal/platform/kafka/producer"
)

// MessageProducer is satisfied by *producer.Producer.
type MessageProducer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaStore publishes events to a topic keyed by tenant so a tenant's
// history stays ordered within one partition.
type KafkaStore struct {
	producer MessageProducer
	topic    string
}

func NewKafkaStore(p MessageProducer, topic string) *KafkaStore {
	return &KafkaStore{producer: p, topic: topic}
}

func (s *KafkaStore) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	key := event.TenantID
	if key == "" {
		key = event.ActorID
	}
	headers := map[string]string{"action": event.Action}
	if event.RequestID != "" {
		headers["request_id"] = event.RequestID
	}
	return s.producer.Produce(ctx, &producer.Message{
		Topic:   s.topic,
		Key:     []byte(key),
		Value:   payload,
		Headers: headers,
	})
}
