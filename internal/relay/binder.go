package relay

import (
	"context"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

var _ ports.EventPublisher = (*Binder)(nil)

// Binder keeps the hub's order-to-courier bindings in sync with the order
// lifecycle. It sits behind the event publisher port next to the outbound
// broker publisher: an assignment binds the order feed to the accepting
// courier, a terminal event unbinds it.
type Binder struct {
	hub *Hub
}

// NewBinder creates a binder for the given hub.
func NewBinder(hub *Hub) *Binder {
	return &Binder{hub: hub}
}

// Publish applies the binding side of each event. Never fails.
func (b *Binder) Publish(_ context.Context, events []order.Event) error {
	for _, event := range events {
		switch e := event.(type) {
		case order.AssignedEvent:
			b.hub.Bind(e.OrderID(), e.CourierID)
		case order.DeliveredEvent, order.CancelledEvent:
			b.hub.Unbind(event.OrderID())
		}
	}
	return nil
}
