package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// GetOrderQueryHandler reads a single order row for API consumption.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for single order lookups.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the lookup. Returns errs.ErrObjectNotFound for unknown
// order identifiers.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id, number, status, courier_id, restaurant_id, customer_id,
			pickup_street, dropoff_street, subtotal, delivery_fee, payment,
			earnings, cancel_reason, created_at, delivered_at, cancelled_at,
			version
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		resp         GetOrderQueryResponse
		id           uuid.UUID
		courierID    uuid.NullUUID
		restaurantID uuid.UUID
		customerID   uuid.UUID
		earnings     sql.NullInt64
		deliveredAt  sql.NullTime
		cancelledAt  sql.NullTime
	)

	err := row.Scan(
		&id, &resp.Number, &resp.Status, &courierID, &restaurantID, &customerID,
		&resp.PickupStreet, &resp.DropoffStreet, &resp.Subtotal, &resp.DeliveryFee, &resp.Payment,
		&earnings, &resp.CancelReason, &resp.CreatedAt, &deliveredAt, &cancelledAt,
		&resp.Version,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("orderId", query.OrderID())
	}
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.RestaurantID, err = kernel.UUIDFromBytes(restaurantID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(customerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if courierID.Valid {
		cID, cErr := kernel.UUIDFromBytes(courierID.UUID[:])
		if cErr != nil {
			return GetOrderQueryResponse{}, cErr
		}
		resp.CourierID = &cID
	}
	if earnings.Valid {
		resp.Earnings = &earnings.Int64
	}
	resp.DeliveredAt = nullableTime(deliveredAt)
	resp.CancelledAt = nullableTime(cancelledAt)

	return resp, nil
}

func nullableTime(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	return &t.Time
}
