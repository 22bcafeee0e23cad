package settlementrepo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// GormSettlementRepository implements ports.SettlementRepository using GORM.
type GormSettlementRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker registers aggregates touched within the unit of work.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormSettlementRepository creates a new GORM settlement repository.
func NewGormSettlementRepository(db *gorm.DB, tracker aggregateTracker) *GormSettlementRepository {
	return &GormSettlementRepository{
		db:      db,
		tracker: tracker,
	}
}

// Record inserts the settlement marker. An insert conflicting on the order
// ID primary key means the order was settled before; the caller sees
// ports.ErrAlreadySettled and must not credit again.
func (r *GormSettlementRepository) Record(ctx context.Context, aggregate *settlement.Settlement) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: order %s", ports.ErrAlreadySettled, aggregate.OrderID())
	}

	r.tracker.TrackAggregate(aggregate.OrderID(), aggregate)
	return nil
}

// Get retrieves the settlement record for an order.
func (r *GormSettlementRepository) Get(ctx context.Context, orderID kernel.UUID) (*settlement.Settlement, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto SettlementDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("orderId", orderID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
