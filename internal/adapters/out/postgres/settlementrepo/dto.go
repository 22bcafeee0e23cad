// Package settlementrepo persists settlement markers with GORM. The order
// ID is the primary key: the insert itself is the at-most-once gate, no
// separate locking needed.
package settlementrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
)

// SettlementDTO is the database representation of a settlement record.
type SettlementDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	CourierID     uuid.UUID `gorm:"type:uuid;index"`
	Amount        int64
	CashCollected int64
	SettledAt     time.Time
}

// TableName overrides GORM's default naming to use "settlements".
func (SettlementDTO) TableName() string {
	return "settlements"
}

func fromDomain(aggregate *settlement.Settlement) SettlementDTO {
	return SettlementDTO{
		OrderID:       aggregate.OrderID().Bytes(),
		CourierID:     aggregate.CourierID().Bytes(),
		Amount:        aggregate.Amount().Cents(),
		CashCollected: aggregate.CashCollected().Cents(),
		SettledAt:     aggregate.SettledAt(),
	}
}

func toDomain(dto SettlementDTO) (*settlement.Settlement, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	amount, err := kernel.NewMoney(dto.Amount)
	if err != nil {
		return nil, err
	}
	cashCollected, err := kernel.NewMoney(dto.CashCollected)
	if err != nil {
		return nil, err
	}

	return settlement.RestoreSettlement(orderID, courierID, amount, cashCollected, dto.SettledAt)
}
