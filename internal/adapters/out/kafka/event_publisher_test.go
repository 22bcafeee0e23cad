package kafka_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

func newTestPublisher(t *testing.T, producer sarama.SyncProducer) *kafka.KafkaEventPublisher {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	publisher, err := kafka.NewKafkaEventPublisher(producer, "order-events", logger)
	require.NoError(t, err)
	return publisher
}

func deliveredEvent(t *testing.T) (order.Event, kernel.UUID) {
	t.Helper()

	pickup, err := kernel.NewAddress("Friedrichstr. 100", nil)
	require.NoError(t, err)
	dropoff, err := kernel.NewAddress("Torstr. 5", nil)
	require.NoError(t, err)
	subtotal, err := kernel.NewMoney(5000)
	require.NoError(t, err)
	fee, err := kernel.NewMoney(900)
	require.NoError(t, err)

	orderID := kernel.NewUUID()
	aggregate, err := order.NewOrder(
		orderID, "ORD-00000042", kernel.NewUUID(), kernel.NewUUID(),
		pickup, dropoff, subtotal, fee, order.PaymentPrepaid, "4821", time.Now())
	require.NoError(t, err)

	courierID := kernel.NewUUID()
	require.NoError(t, aggregate.AssignCourier(order.SystemActor(), courierID, time.Now()))

	events := aggregate.TakeEvents()
	require.NotEmpty(t, events)

	return events[len(events)-1], orderID
}

func TestKafkaEventPublisher_Publish(t *testing.T) {
	t.Run("sends one message per event keyed by order", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		event, orderID := deliveredEvent(t)

		producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
			var envelope map[string]any
			if err := json.Unmarshal(value, &envelope); err != nil {
				return err
			}
			assert.Equal(t, event.Name(), envelope["event"])
			assert.Equal(t, orderID.String(), envelope["order_id"])
			assert.NotEmpty(t, envelope["courier_id"])
			return nil
		})

		err := newTestPublisher(t, producer).Publish(context.Background(), []order.Event{event})

		assert.NoError(t, err)
		assert.NoError(t, producer.Close())
	})

	t.Run("producer failure is swallowed", func(t *testing.T) {
		producer := mocks.NewSyncProducer(t, nil)
		event, _ := deliveredEvent(t)

		producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

		err := newTestPublisher(t, producer).Publish(context.Background(), []order.Event{event})

		assert.NoError(t, err)
		assert.NoError(t, producer.Close())
	})
}
