package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetCouriersQueryIsNotConstructed = errors.New(
	"GetCouriersQuery must be created via NewGetCouriersQuery constructor",
)

// GetCouriersQuery lists every registered courier for the fleet overview.
type GetCouriersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetCouriersQuery creates a parameterless courier listing query.
func NewGetCouriersQuery() GetCouriersQuery {
	return GetCouriersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetCouriersQueryIsNotConstructed)
}

// GetCouriersQueryResponse is one courier row of the fleet overview.
type GetCouriersQueryResponse struct {
	ID              kernel.UUID
	Name            string
	Availability    string
	LastAssignedAt  *time.Time
	BalanceCents    int64
	LifetimeCents   int64
	DeliveriesCount int
}
