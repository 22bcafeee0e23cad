// Package tracking contains the location sample value object ingested by
// the live location relay. A courier's current position is a single mutable
// record: newer samples overwrite it, older ones are discarded so
// out-of-order network delivery never regresses the position.
package tracking

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

// ErrSampleIsNotConstructed is returned when validating a zero-value Sample.
var ErrSampleIsNotConstructed = errors.New("Sample must be created via NewSample constructor")

// Sample is one GPS report from a courier's device.
type Sample struct { //nolint:recvcheck //using for validation
	courierID  kernel.UUID
	point      kernel.GeoPoint
	capturedAt time.Time
	guard      guard.ConstructorGuard
}

// NewSample creates a validated location sample. The point carries the
// lat/lon range check; capturedAt must be set (device capture time, not
// server receipt time, so reordering is detectable).
func NewSample(courierID kernel.UUID, point kernel.GeoPoint, capturedAt time.Time) (Sample, error) {
	if err := courierID.Validate(); err != nil {
		return Sample{}, err
	}
	if err := point.Validate(); err != nil {
		return Sample{}, err
	}
	if capturedAt.IsZero() {
		return Sample{}, errs.NewValueIsRequiredError("capturedAt")
	}

	return Sample{
		courierID:  courierID,
		point:      point,
		capturedAt: capturedAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate reports whether the sample was produced by NewSample.
func (s Sample) Validate() error {
	return s.guard.Validate(ErrSampleIsNotConstructed)
}

// CourierID returns the reporting courier.
func (s Sample) CourierID() kernel.UUID { return s.courierID }

// Point returns the reported position.
func (s Sample) Point() kernel.GeoPoint { return s.point }

// CapturedAt returns the device capture time.
func (s Sample) CapturedAt() time.Time { return s.capturedAt }

// IsNewerThan reports whether this sample supersedes other. Equal capture
// times do not supersede, so replays of the stored sample are dropped.
func (s Sample) IsNewerThan(other Sample) bool {
	return s.capturedAt.After(other.capturedAt)
}
