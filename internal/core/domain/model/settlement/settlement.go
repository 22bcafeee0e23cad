// Package settlement holds the settlement record: the at-most-once marker
// that a delivered order's earnings were credited to its courier. The order
// ID is the natural key, so inserting a second record for the same order
// fails and the duplicate credit is refused at the storage layer.
package settlement

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// Settlement is an immutable record of a single credited delivery. For
// cash orders it additionally carries the amount the courier collected on
// behalf of the platform, to be reconciled by the remittance process.
type Settlement struct {
	orderID       kernel.UUID
	courierID     kernel.UUID
	amount        kernel.Money
	cashCollected kernel.Money
	settledAt     time.Time

	guard guard.ConstructorGuard
}

// NewSettlement creates a settlement record for a delivered order.
// cashCollected is zero for prepaid orders.
func NewSettlement(
	orderID, courierID kernel.UUID, amount, cashCollected kernel.Money, settledAt time.Time,
) (*Settlement, error) {
	if err := orderID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("orderID", err)
	}
	if err := courierID.Validate(); err != nil {
		return nil, errs.NewValueIsRequiredErrorWithCause("courierID", err)
	}
	if settledAt.IsZero() {
		return nil, errs.NewValueIsRequiredError("settledAt")
	}

	return &Settlement{
		orderID:       orderID,
		courierID:     courierID,
		amount:        amount,
		cashCollected: cashCollected,
		settledAt:     settledAt,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

// RestoreSettlement reconstructs a settlement record from storage.
func RestoreSettlement(
	orderID, courierID kernel.UUID, amount, cashCollected kernel.Money, settledAt time.Time,
) (*Settlement, error) {
	return NewSettlement(orderID, courierID, amount, cashCollected, settledAt)
}

// Validate confirms the record was created through a constructor.
func (s *Settlement) Validate() error {
	return s.guard.Validate(errs.NewValueIsInvalidErrorWithCause("settlement",
		guard.ErrDefaultConstructorGuard))
}

// OrderID returns the settled order's identifier.
func (s *Settlement) OrderID() kernel.UUID { return s.orderID }

// CourierID returns the credited courier's identifier.
func (s *Settlement) CourierID() kernel.UUID { return s.courierID }

// Amount returns the credited earnings.
func (s *Settlement) Amount() kernel.Money { return s.amount }

// CashCollected returns the cash the courier collected at handoff; zero for
// prepaid orders.
func (s *Settlement) CashCollected() kernel.Money { return s.cashCollected }

// SettledAt returns when the credit happened.
func (s *Settlement) SettledAt() time.Time { return s.settledAt }
