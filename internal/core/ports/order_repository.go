// Package ports defines the contracts between the core and infrastructure.
// Repositories persist aggregates, the unit of work binds them into a single
// transaction, and the remaining ports cover eventing, notification, live
// location storage and distance estimation. Adapters implement these
// interfaces; the application layer depends only on them.
package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order. The write is guarded by
	// the aggregate's version: if the stored row has moved past the version
	// the aggregate was loaded with, Update fails with order.ErrStaleState
	// and nothing is written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllPendingAssignment retrieves orders waiting for a courier,
	// oldest first, so the dispatch sweep serves them fairly.
	GetAllPendingAssignment(ctx context.Context) ([]*order.Order, error)

	// GetAllActive retrieves every order that is not yet delivered or
	// cancelled. Used by the operational overview.
	GetAllActive(ctx context.Context) ([]*order.Order, error)
}
