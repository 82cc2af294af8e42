// Package kafka publishes domain transition events to a Kafka topic for
// analytics and downstream consumers. Events are emitted after the owning
// transaction commits, so consumers may observe an event at most once per
// commit but must tolerate redelivery on publisher retries.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/segmentio/kafka-go"
)

// eventMessage is the wire representation of one domain event.
type eventMessage struct {
	EntityType string    `json:"entity_type"`
	EntityID   string    `json:"entity_id"`
	PriorState string    `json:"prior_state"`
	NewState   string    `json:"new_state"`
	OccurredAt time.Time `json:"occurred_at"`
}

// EventPublisher writes domain events to a single Kafka topic, keyed by
// entity ID so transitions of one entity stay ordered within a partition.
type EventPublisher struct {
	writer *kafka.Writer
}

// NewEventPublisher creates a publisher writing to the given brokers and
// topic.
func NewEventPublisher(brokers []string, topic string) (*EventPublisher, error) {
	if len(brokers) == 0 {
		return nil, errs.NewValueIsRequiredError("brokers")
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}

	return &EventPublisher{writer: writer}, nil
}

// Publish writes the events to the topic. A nil or empty slice is a no-op.
func (p *EventPublisher) Publish(ctx context.Context, events []kernel.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := json.Marshal(eventMessage{
			EntityType: event.EntityType,
			EntityID:   event.EntityID.String(),
			PriorState: event.PriorState,
			NewState:   event.NewState,
			OccurredAt: event.OccurredAt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal domain event: %w", err)
		}

		messages = append(messages, kafka.Message{
			Key:   []byte(event.EntityID.String()),
			Value: value,
			Time:  event.OccurredAt,
			Headers: []kafka.Header{
				{Key: "entity-type", Value: []byte(event.EntityType)},
				{Key: "transition", Value: []byte(event.PriorState + ">" + event.NewState)},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, messages...); err != nil {
		return fmt.Errorf("failed to publish domain events: %w", err)
	}

	return nil
}

// Close releases the underlying Kafka writer.
func (p *EventPublisher) Close() error {
	return p.writer.Close()
}
