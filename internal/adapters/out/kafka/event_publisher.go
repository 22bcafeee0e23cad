// Package kafka publishes committed order events to a Kafka topic. Publishing
// is best effort: the order state is already committed when events reach the
// producer, so failures are logged and never surfaced back to the handlers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/Shopify/sarama"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

var _ ports.EventPublisher = (*KafkaEventPublisher)(nil)

// eventEnvelope is the wire form of a domain event. Keyed by order so all
// events for one order land in the same partition in commit order.
type eventEnvelope struct {
	Event      string    `json:"event"`
	OrderID    string    `json:"order_id"`
	CourierID  string    `json:"courier_id,omitempty"`
	CustomerID string    `json:"customer_id,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// KafkaEventPublisher sends order lifecycle events through a synchronous
// producer.
type KafkaEventPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaEventPublisher creates a publisher on top of an already connected
// producer.
func NewKafkaEventPublisher(
	producer sarama.SyncProducer, topic string, logger *slog.Logger,
) (*KafkaEventPublisher, error) {
	if producer == nil {
		return nil, errs.NewValueIsRequiredError("producer")
	}
	if topic == "" {
		return nil, errs.NewValueIsRequiredError("topic")
	}
	if logger == nil {
		return nil, errs.NewValueIsRequiredError("logger")
	}

	return &KafkaEventPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "kafka_event_publisher"),
	}, nil
}

// Publish sends each event as one message. A failed send is logged and does
// not stop the remaining events.
func (p *KafkaEventPublisher) Publish(ctx context.Context, events []order.Event) error {
	for _, event := range events {
		data, err := json.Marshal(envelope(event))
		if err != nil {
			return fmt.Errorf("marshal event %s: %w", event.Name(), err)
		}

		_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
			Topic: p.topic,
			Key:   sarama.StringEncoder(event.OrderID().String()),
			Value: sarama.ByteEncoder(data),
		})
		if err != nil {
			p.logger.ErrorContext(ctx, "Failed to publish order event",
				"event", event.Name(), "orderId", event.OrderID(), "error", err)
		}
	}

	return nil
}

func envelope(event order.Event) eventEnvelope {
	env := eventEnvelope{
		Event:      event.Name(),
		OrderID:    event.OrderID().String(),
		OccurredAt: event.OccurredAt(),
	}

	switch e := event.(type) {
	case order.AssignedEvent:
		env.CourierID = e.CourierID.String()
	case order.PickedUpEvent:
		env.CourierID = e.CourierID.String()
		env.CustomerID = e.CustomerID.String()
	case order.DeliveredEvent:
		env.CourierID = e.CourierID.String()
	case order.CancelledEvent:
		env.Reason = e.Reason
	}

	return env
}
