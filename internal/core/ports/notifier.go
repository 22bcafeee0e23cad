package ports

import (
	"context"

	"dispatch/internal/core/domain/model/offer"
)

// CourierNotifier pushes dispatch offers to couriers. Delivery is best
// effort: a courier who misses the notification still sees the offer until
// its deadline, and the expiry sweep reclaims it afterwards.
type CourierNotifier interface {
	// NotifyOffer tells the courier a new offer is waiting for a response.
	NotifyOffer(ctx context.Context, aggregate *offer.Offer) error
}
