package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCourierPositionQueryIsNotConstructed = errors.New(
	"GetCourierPositionQuery must be created via NewGetCourierPositionQuery constructor",
)

// GetCourierPositionQuery retrieves the latest known position of a courier.
type GetCourierPositionQuery struct {
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCourierPositionQuery creates a position lookup query.
func NewGetCourierPositionQuery(courierID kernel.UUID) (GetCourierPositionQuery, error) {
	if err := courierID.Validate(); err != nil {
		return GetCourierPositionQuery{}, err
	}

	return GetCourierPositionQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierPositionQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierPositionQueryIsNotConstructed)
}

// CourierID returns the courier whose position is requested.
func (q GetCourierPositionQuery) CourierID() kernel.UUID { return q.courierID }

// GetCourierPositionQueryResponse is the latest accepted position sample.
type GetCourierPositionQueryResponse struct {
	CourierID  kernel.UUID
	Lat        float64
	Lon        float64
	CapturedAt time.Time
}
