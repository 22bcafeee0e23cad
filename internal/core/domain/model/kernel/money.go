package kernel

import (
	"fmt"

	"dispatch/internal/pkg/errs"
)

// Money is a monetary amount in the smallest currency unit (cents).
// Integer arithmetic avoids the rounding artifacts of floating point, which
// matters for settlement where every credited cent must be reproducible.
type Money int64

// NewMoney creates a Money value from an amount in cents.
// Negative amounts are rejected: the core never deals in debts.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return 0, errs.NewValueIsInvalidErrorWithCause("money",
			fmt.Errorf("%d cents is negative", cents))
	}
	return Money(cents), nil
}

// Cents returns the raw amount in the smallest currency unit.
func (m Money) Cents() int64 {
	return int64(m)
}

// Add returns the sum of two amounts.
func (m Money) Add(other Money) Money {
	return m + other
}

// String formats the amount as a decimal value with two fraction digits.
func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m/100, m%100)
}
