// Package orderrepo persists order aggregates with GORM. It owns the mapping
// between the aggregate and its relational row, including the optimistic
// version column that serializes concurrent status transitions.
package orderrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderDTO is the database representation of an order aggregate. The status
// is stored in its wire form so operators can read rows directly, and the
// version column backs the compare-and-swap in Update.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number       string     `gorm:"uniqueIndex"`
	Status       string     `gorm:"index"`
	CourierID    *uuid.UUID `gorm:"type:uuid;index"`
	RestaurantID uuid.UUID  `gorm:"type:uuid"`
	CustomerID   uuid.UUID  `gorm:"type:uuid"`

	PickupStreet string
	PickupLat    *float64
	PickupLon    *float64

	DropoffStreet string
	DropoffLat    *float64
	DropoffLon    *float64

	Subtotal    int64
	DeliveryFee int64
	Payment     string
	Earnings    *int64

	ConfirmCode     string
	ConfirmConsumed bool
	CancelReason    string

	CreatedAt        time.Time
	AssignedAt       *time.Time
	ArrivedPickupAt  *time.Time
	PickedUpAt       *time.Time
	ArrivedDropoffAt *time.Time
	DeliveredAt      *time.Time
	CancelledAt      *time.Time

	Version int
}

// TableName overrides GORM's default naming to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if id := aggregate.Courier(); id != nil {
		raw := id.Bytes()
		courierID = &raw
	}

	var earnings *int64
	if e := aggregate.Earnings(); e != nil {
		cents := e.Cents()
		earnings = &cents
	}

	ts := aggregate.Timestamps()

	dto := OrderDTO{
		ID:               aggregate.ID().Bytes(),
		Number:           aggregate.Number(),
		Status:           aggregate.Status().String(),
		CourierID:        courierID,
		RestaurantID:     aggregate.RestaurantID().Bytes(),
		CustomerID:       aggregate.CustomerID().Bytes(),
		PickupStreet:     aggregate.PickupAddress().Street(),
		DropoffStreet:    aggregate.DropoffAddress().Street(),
		Subtotal:         aggregate.Subtotal().Cents(),
		DeliveryFee:      aggregate.DeliveryFee().Cents(),
		Payment:          aggregate.Payment().String(),
		Earnings:         earnings,
		ConfirmCode:      aggregate.ConfirmationCode(),
		ConfirmConsumed:  aggregate.ConfirmationConsumed(),
		CancelReason:     aggregate.CancelReason(),
		CreatedAt:        ts.CreatedAt,
		AssignedAt:       ts.AssignedAt,
		ArrivedPickupAt:  ts.ArrivedPickupAt,
		PickedUpAt:       ts.PickedUpAt,
		ArrivedDropoffAt: ts.ArrivedDropoffAt,
		DeliveredAt:      ts.DeliveredAt,
		CancelledAt:      ts.CancelledAt,
		Version:          aggregate.Version(),
	}

	if geo := aggregate.PickupAddress().Geo(); geo != nil {
		lat, lon := geo.Lat(), geo.Lon()
		dto.PickupLat, dto.PickupLon = &lat, &lon
	}
	if geo := aggregate.DropoffAddress().Geo(); geo != nil {
		lat, lon := geo.Lat(), geo.Lon()
		dto.DropoffLat, dto.DropoffLon = &lat, &lon
	}

	return dto
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, cErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if cErr != nil {
			return nil, cErr
		}
		courierID = &cID
	}

	status, err := order.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}
	payment, err := order.PaymentMethodFromString(dto.Payment)
	if err != nil {
		return nil, err
	}

	pickup, err := toAddress(dto.PickupStreet, dto.PickupLat, dto.PickupLon)
	if err != nil {
		return nil, err
	}
	dropoff, err := toAddress(dto.DropoffStreet, dto.DropoffLat, dto.DropoffLon)
	if err != nil {
		return nil, err
	}

	subtotal, err := kernel.NewMoney(dto.Subtotal)
	if err != nil {
		return nil, err
	}
	deliveryFee, err := kernel.NewMoney(dto.DeliveryFee)
	if err != nil {
		return nil, err
	}

	var earnings *kernel.Money
	if dto.Earnings != nil {
		e, eErr := kernel.NewMoney(*dto.Earnings)
		if eErr != nil {
			return nil, eErr
		}
		earnings = &e
	}

	return order.RestoreOrder(
		id, dto.Number, status, courierID, restaurantID, customerID,
		pickup, dropoff, subtotal, deliveryFee, payment, earnings,
		dto.ConfirmCode, dto.ConfirmConsumed, dto.CancelReason,
		order.Timestamps{
			CreatedAt:        dto.CreatedAt,
			AssignedAt:       dto.AssignedAt,
			ArrivedPickupAt:  dto.ArrivedPickupAt,
			PickedUpAt:       dto.PickedUpAt,
			ArrivedDropoffAt: dto.ArrivedDropoffAt,
			DeliveredAt:      dto.DeliveredAt,
			CancelledAt:      dto.CancelledAt,
		},
		dto.Version,
	)
}

func toAddress(street string, lat, lon *float64) (kernel.Address, error) {
	var geo *kernel.GeoPoint
	if lat != nil && lon != nil {
		point, err := kernel.NewGeoPoint(*lat, *lon)
		if err != nil {
			return kernel.Address{}, err
		}
		geo = &point
	}

	return kernel.NewAddress(street, geo)
}
