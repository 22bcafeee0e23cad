package offerrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/pkg/errs"
)

// GormOfferRepository implements ports.OfferRepository using GORM.
type GormOfferRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker registers aggregates touched within the unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOfferRepository creates a new GORM offer repository.
func NewGormOfferRepository(db *gorm.DB, tracker aggregateTracker) *GormOfferRepository {
	return &GormOfferRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new pending offer. The partial unique index on (order_id)
// WHERE outcome = 'pending' rejects a second live offer for the same order.
func (r *GormOfferRepository) Add(ctx context.Context, aggregate *offer.Offer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Resolve writes a terminal outcome with a compare-and-swap on the outcome
// column. Only a row still pending is updated; losing the race surfaces as
// offer.ErrOfferNoLongerValid.
func (r *GormOfferRepository) Resolve(ctx context.Context, aggregate *offer.Offer) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if !aggregate.Outcome().IsTerminal() {
		return errs.NewValueIsInvalidError("outcome")
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OfferDTO{}).
		Where("id = ? AND outcome = ?", dto.ID, offer.Pending.String()).
		Updates(map[string]any{
			"outcome":     dto.Outcome,
			"resolved_at": dto.ResolvedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: offer %s already resolved",
			offer.ErrOfferNoLongerValid, aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get retrieves an offer by ID.
func (r *GormOfferRepository) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OfferDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("offerId", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetPendingByOrder retrieves the order's live offer, if any.
func (r *GormOfferRepository) GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*offer.Offer, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto OfferDTO
	err := r.db.WithContext(ctx).
		First(&dto, "order_id = ? AND outcome = ?", orderID.Bytes(), offer.Pending.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllOverdue retrieves pending offers whose deadline has passed.
func (r *GormOfferRepository) GetAllOverdue(ctx context.Context, now time.Time) ([]*offer.Offer, error) {
	var dtos []OfferDTO
	err := r.db.WithContext(ctx).
		Find(&dtos, "outcome = ? AND deadline < ?", offer.Pending.String(), now).Error
	if err != nil {
		return nil, err
	}

	offers := make([]*offer.Offer, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		offers = append(offers, o)
	}

	return offers, nil
}

// GetDeclinedCourierIDs returns couriers that declined or ignored an offer
// for the order.
func (r *GormOfferRepository) GetDeclinedCourierIDs(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var raw []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&OfferDTO{}).
		Where("order_id = ? AND outcome IN ?", orderID.Bytes(), []string{
			offer.Declined.String(), offer.Expired.String(),
		}).
		Pluck("courier_id", &raw).Error
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(raw))
	for _, b := range raw {
		id, idErr := kernel.UUIDFromBytes(b[:])
		if idErr != nil {
			return nil, idErr
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// CountRounds returns how many offers exist for the order.
func (r *GormOfferRepository) CountRounds(ctx context.Context, orderID kernel.UUID) (int, error) {
	if err := orderID.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&OfferDTO{}).
		Where("order_id = ?", orderID.Bytes()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}
