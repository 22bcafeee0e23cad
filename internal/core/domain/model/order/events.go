package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

// Event is a domain event recorded by the Order aggregate when a transition
// commits. Events are drained by the command handler after the transaction
// succeeds and dispatched to the publisher/notifier, so a failed side effect
// can never roll back a committed status.
type Event interface {
	// Name is the stable event identifier used as the message type on the wire.
	Name() string
	// OrderID is the aggregate the event belongs to.
	OrderID() kernel.UUID
	// OccurredAt is when the transition was applied.
	OccurredAt() time.Time
}

type baseEvent struct {
	orderID    kernel.UUID
	occurredAt time.Time
}

func (e baseEvent) OrderID() kernel.UUID  { return e.orderID }
func (e baseEvent) OccurredAt() time.Time { return e.occurredAt }

// AssignedEvent is recorded when a courier accepts an offer and the order
// transitions to assigned. Drives the courier notification.
type AssignedEvent struct {
	baseEvent
	CourierID kernel.UUID
}

// Name implements Event.
func (AssignedEvent) Name() string { return "order.assigned" }

// PickedUpEvent is recorded when the courier picks the order up at the
// restaurant. Drives the customer notification.
type PickedUpEvent struct {
	baseEvent
	CourierID  kernel.UUID
	CustomerID kernel.UUID
}

// Name implements Event.
func (PickedUpEvent) Name() string { return "order.picked_up" }

// DeliveredEvent is recorded when the confirmation code is consumed and the
// order reaches delivered. Drives settlement.
type DeliveredEvent struct {
	baseEvent
	CourierID kernel.UUID
}

// Name implements Event.
func (DeliveredEvent) Name() string { return "order.delivered" }

// CancelledEvent is recorded when the order is cancelled; Reason is surfaced
// to the customer and restaurant collaborators.
type CancelledEvent struct {
	baseEvent
	Reason string
}

// Name implements Event.
func (CancelledEvent) Name() string { return "order.cancelled" }
