package queries

import (
	"context"

	"dispatch/internal/core/ports"
)

// GetCourierPositionQueryHandler reads the latest position from the live
// location store rather than the database: position samples never touch
// relational storage.
type GetCourierPositionQueryHandler struct {
	locations ports.LocationStore
}

// NewGetCourierPositionQueryHandler creates a handler for position lookups.
func NewGetCourierPositionQueryHandler(locations ports.LocationStore) GetCourierPositionQueryHandler {
	return GetCourierPositionQueryHandler{locations: locations}
}

// Handle executes the lookup. Returns errs.ErrObjectNotFound for couriers
// that never reported a position.
func (h GetCourierPositionQueryHandler) Handle(
	ctx context.Context,
	query GetCourierPositionQuery,
) (GetCourierPositionQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCourierPositionQueryResponse{}, err
	}

	sample, err := h.locations.Get(ctx, query.CourierID())
	if err != nil {
		return GetCourierPositionQueryResponse{}, err
	}

	return GetCourierPositionQueryResponse{
		CourierID:  sample.CourierID(),
		Lat:        sample.Point().Lat(),
		Lon:        sample.Point().Lon(),
		CapturedAt: sample.CapturedAt(),
	}, nil
}
