package services

import (
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// PercentOrMinimumPolicy computes courier earnings as a percentage of the
// delivery fee with a flat floor: the courier always gets at least the
// minimum even on cheap deliveries.
type PercentOrMinimumPolicy struct {
	percent int
	minimum kernel.Money
}

// NewPercentOrMinimumPolicy creates the policy. percent is an integer
// percentage of the delivery fee (e.g. 80), minimum is the flat floor.
func NewPercentOrMinimumPolicy(percent int, minimum kernel.Money) (PercentOrMinimumPolicy, error) {
	if percent <= 0 || percent > 100 {
		return PercentOrMinimumPolicy{}, errs.NewValueIsOutOfRangeError("percent", percent, 1, 100)
	}
	return PercentOrMinimumPolicy{percent: percent, minimum: minimum}, nil
}

// ComputeEarnings returns the courier payout for an order with the given
// delivery fee.
func (p PercentOrMinimumPolicy) ComputeEarnings(deliveryFee kernel.Money) kernel.Money {
	share := kernel.Money(deliveryFee.Cents() * int64(p.percent) / 100)
	if share < p.minimum {
		return p.minimum
	}
	return share
}
