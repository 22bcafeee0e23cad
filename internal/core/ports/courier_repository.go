package ports

import (
	"context"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier aggregates.
type CourierRepository interface {
	// Add persists a new courier aggregate.
	Add(ctx context.Context, aggregate *courier.Courier) error

	// Update persists changes to an existing courier aggregate. When the
	// stored version no longer matches the version the aggregate was loaded
	// with, Update fails with courier.ErrStaleState and writes nothing.
	Update(ctx context.Context, aggregate *courier.Courier) error

	// Get retrieves a courier by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such courier exists.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// GetAllAvailable retrieves couriers that can currently receive offers:
	// online and not on an active delivery.
	GetAllAvailable(ctx context.Context) ([]*courier.Courier, error)
}
