package queries

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// GetCouriersQueryHandler lists the courier fleet with availability and
// balance figures.
type GetCouriersQueryHandler struct {
	db *gorm.DB
}

// NewGetCouriersQueryHandler creates a handler for the fleet overview.
func NewGetCouriersQueryHandler(db *gorm.DB) GetCouriersQueryHandler {
	return GetCouriersQueryHandler{db: db}
}

// Handle executes the listing query.
func (h GetCouriersQueryHandler) Handle(
	ctx context.Context,
	query GetCouriersQuery,
) ([]GetCouriersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT id, name, availability, last_assigned_at,
		       balance_available, lifetime_earned, deliveries_count
		FROM couriers
		ORDER BY name
	`).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	couriers := make([]GetCouriersQueryResponse, 0)
	for rows.Next() {
		var (
			resp           GetCouriersQueryResponse
			id             uuid.UUID
			availability   int
			lastAssignedAt sql.NullTime
		)
		if err := rows.Scan(
			&id, &resp.Name, &availability, &lastAssignedAt,
			&resp.BalanceCents, &resp.LifetimeCents, &resp.DeliveriesCount,
		); err != nil {
			return nil, err
		}

		courierID, err := kernel.UUIDFromBytes(id[:])
		if err != nil {
			return nil, err
		}
		resp.ID = courierID
		resp.Availability = courier.Availability(availability).String()
		resp.LastAssignedAt = nullableTime(lastAssignedAt)

		couriers = append(couriers, resp)
	}

	return couriers, rows.Err()
}
