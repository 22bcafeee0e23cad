package ports

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// EventPublisher delivers domain events to interested parties outside the
// transaction that produced them. Handlers publish after commit, so a failed
// publish never rolls back state; implementations log and move on.
type EventPublisher interface {
	Publish(ctx context.Context, events []order.Event) error
}
