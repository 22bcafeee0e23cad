package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
)

// OfferRepository defines the persistence contract for dispatch offers.
// At most one pending offer may exist per order; the storage layer enforces
// this with a uniqueness constraint and the compare-and-swap in Resolve.
type OfferRepository interface {
	// Add persists a new pending offer.
	Add(ctx context.Context, aggregate *offer.Offer) error

	// Resolve persists an offer's terminal outcome. The write only succeeds
	// if the stored row is still pending; when another resolution won the
	// race, Resolve fails with offer.ErrOfferNoLongerValid and nothing is
	// written.
	Resolve(ctx context.Context, aggregate *offer.Offer) error

	// Get retrieves an offer by its unique identifier.
	// Returns errs.ErrObjectNotFound when no such offer exists.
	Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error)

	// GetPendingByOrder retrieves the order's pending offer, if any.
	// Returns errs.ErrObjectNotFound when the order has none.
	GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*offer.Offer, error)

	// GetAllOverdue retrieves pending offers whose response deadline has
	// passed as of now. Consumed by the expiry sweep.
	GetAllOverdue(ctx context.Context, now time.Time) ([]*offer.Offer, error)

	// GetDeclinedCourierIDs returns the couriers that declined or let expire
	// an offer for the order. They are skipped in later rounds.
	GetDeclinedCourierIDs(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error)

	// CountRounds returns how many offers have been created for the order.
	CountRounds(ctx context.Context, orderID kernel.UUID) (int, error)
}
