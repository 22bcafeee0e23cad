package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
)

// LocationStore keeps the latest known position per courier. Save applies
// the monotonicity rule atomically: a sample only replaces the stored one
// when its capture time is strictly newer. Stale samples are discarded, not
// errors, because couriers report over unreliable networks and reordering
// is routine.
type LocationStore interface {
	// Save stores the sample if it is newer than the current one.
	// Returns false when the sample was discarded as stale.
	Save(ctx context.Context, sample tracking.Sample) (bool, error)

	// Get retrieves the latest sample for a courier.
	// Returns errs.ErrObjectNotFound when the courier has never reported.
	Get(ctx context.Context, courierID kernel.UUID) (tracking.Sample, error)
}

// TrackingBroadcaster fans freshly accepted samples out to live subscribers
// such as websocket sessions. Broadcast never blocks the caller; slow
// subscribers drop samples rather than stall ingestion.
type TrackingBroadcaster interface {
	Broadcast(sample tracking.Sample)
}
