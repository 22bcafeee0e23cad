// Package geo provides the great-circle distance estimator used to rank
// dispatch candidates.
package geo

import (
	"context"
	"math"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
)

const earthRadiusMeters = 6371000.0

var _ ports.DistanceEstimator = (*HaversineEstimator)(nil)

// HaversineEstimator computes straight-line distance over the Earth's
// surface. Road distance is always longer, but the ordering of nearby
// candidates is the same, which is all the ranker needs.
type HaversineEstimator struct{}

// NewHaversineEstimator creates the estimator.
func NewHaversineEstimator() *HaversineEstimator {
	return &HaversineEstimator{}
}

// Estimate returns the distance between the two points in meters.
func (e *HaversineEstimator) Estimate(_ context.Context, from, to kernel.GeoPoint) (float64, error) {
	if err := from.Validate(); err != nil {
		return 0, err
	}
	if err := to.Validate(); err != nil {
		return 0, err
	}

	lat1 := radians(from.Lat())
	lat2 := radians(to.Lat())
	dLat := radians(to.Lat() - from.Lat())
	dLon := radians(to.Lon() - from.Lon())

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c, nil
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
