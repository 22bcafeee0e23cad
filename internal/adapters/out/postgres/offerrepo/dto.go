// Package offerrepo persists dispatch offers with GORM. A partial unique
// index keeps at most one pending offer per order, and resolution goes
// through a compare-and-swap on the outcome column so concurrent accept,
// decline and expiry requests serialize to exactly one winner.
package offerrepo

import (
	"time"

	"github.com/google/uuid"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/pkg/errs"
)

// OfferDTO is the database representation of a dispatch offer.
type OfferDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;index;index:idx_offers_one_pending,unique,where:outcome = 'pending'"`
	CourierID  uuid.UUID `gorm:"type:uuid;index"`
	Round      int
	Deadline   time.Time `gorm:"index"`
	Outcome    string    `gorm:"index"`
	ResolvedAt *time.Time
}

// TableName overrides GORM's default naming to use "offers".
func (OfferDTO) TableName() string {
	return "offers"
}

func fromDomain(aggregate *offer.Offer) OfferDTO {
	return OfferDTO{
		ID:         aggregate.ID().Bytes(),
		OrderID:    aggregate.OrderID().Bytes(),
		CourierID:  aggregate.CourierID().Bytes(),
		Round:      aggregate.Round(),
		Deadline:   aggregate.Deadline(),
		Outcome:    aggregate.Outcome().String(),
		ResolvedAt: aggregate.ResolvedAt(),
	}
}

func toDomain(dto OfferDTO) (*offer.Offer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	courierID, err := kernel.UUIDFromBytes(dto.CourierID[:])
	if err != nil {
		return nil, err
	}

	outcome, err := outcomeFromString(dto.Outcome)
	if err != nil {
		return nil, err
	}

	return offer.RestoreOffer(id, orderID, courierID, dto.Round, dto.Deadline, outcome, dto.ResolvedAt)
}

func outcomeFromString(s string) (offer.Outcome, error) {
	for _, o := range []offer.Outcome{offer.Pending, offer.Accepted, offer.Declined, offer.Expired} {
		if o.String() == s {
			return o, nil
		}
	}
	return offer.Pending, errs.NewValueIsInvalidError("outcome")
}
