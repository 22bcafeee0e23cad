package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// DistanceEstimator scores how far a courier is from a pickup point.
// The score feeds candidate ranking: only its ordering matters, so an
// implementation may return kilometers, travel minutes, or anything else
// monotonic in effort.
type DistanceEstimator interface {
	Estimate(ctx context.Context, from, to kernel.GeoPoint) (float64, error)
}

// PayoutPolicy computes the courier's earnings for a delivered order from
// its delivery fee.
type PayoutPolicy interface {
	ComputeEarnings(deliveryFee kernel.Money) kernel.Money
}
