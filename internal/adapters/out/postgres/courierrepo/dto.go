// Package courierrepo persists courier aggregates with GORM.
package courierrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
)

// CourierDTO is the database representation of a courier aggregate.
// Availability is stored as an integer enum; the balance columns are cents.
type CourierDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string
	Availability   int `gorm:"index"`
	LastAssignedAt *time.Time

	BalanceAvailable int64
	LifetimeEarned   int64
	DeliveriesCount  int

	Version int
}

// TableName overrides GORM's default naming to use "couriers".
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(aggregate *courier.Courier) CourierDTO {
	balance := aggregate.Balance()

	return CourierDTO{
		ID:               aggregate.ID().Bytes(),
		Name:             aggregate.Name(),
		Availability:     int(aggregate.Availability()),
		LastAssignedAt:   aggregate.LastAssignedAt(),
		BalanceAvailable: balance.Available.Cents(),
		LifetimeEarned:   balance.LifetimeEarned.Cents(),
		DeliveriesCount:  balance.DeliveriesCount,
		Version:          aggregate.Version(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	available, err := kernel.NewMoney(dto.BalanceAvailable)
	if err != nil {
		return nil, err
	}
	lifetime, err := kernel.NewMoney(dto.LifetimeEarned)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(
		id, dto.Name,
		courier.Availability(dto.Availability),
		dto.LastAssignedAt,
		courier.Balance{
			Available:       available,
			LifetimeEarned:  lifetime,
			DeliveriesCount: dto.DeliveriesCount,
		},
		dto.Version,
	)
}
