// Package queries contains read-only operations in the CQRS split. Query
// handlers go straight to storage and return flat response structs shaped
// for the API, bypassing the aggregates and their invariant machinery.
package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves one order by its identifier.
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the requested order's identifier.
func (q GetOrderQuery) OrderID() kernel.UUID { return q.orderID }

// GetOrderQueryResponse is the flat read model of an order. The
// confirmation code is deliberately absent: it is shared with the customer
// through a separate channel, never through order lookups.
type GetOrderQueryResponse struct {
	ID            kernel.UUID
	Number        string
	Status        string
	CourierID     *kernel.UUID
	RestaurantID  kernel.UUID
	CustomerID    kernel.UUID
	PickupStreet  string
	DropoffStreet string
	Subtotal      int64
	DeliveryFee   int64
	Payment       string
	Earnings      *int64
	CancelReason  string
	CreatedAt     time.Time
	DeliveredAt   *time.Time
	CancelledAt   *time.Time
	Version       int
}
