package ports

import (
	"context"
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/settlement"
)

// ErrAlreadySettled indicates a settlement record already exists for the
// order, so the credit must not be applied a second time.
var ErrAlreadySettled = errors.New("order is already settled")

// SettlementRepository defines the persistence contract for settlement
// records. The order ID is the primary key, which makes Record the
// at-most-once gate for crediting earnings.
type SettlementRepository interface {
	// Record persists the settlement marker. Fails with ErrAlreadySettled
	// when a record for the same order exists, in which case the caller
	// must not credit the courier.
	Record(ctx context.Context, aggregate *settlement.Settlement) error

	// Get retrieves the settlement record for an order.
	// Returns errs.ErrObjectNotFound when the order is not settled.
	Get(ctx context.Context, orderID kernel.UUID) (*settlement.Settlement, error)
}
