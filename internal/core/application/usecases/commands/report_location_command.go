package commands

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/pkg/guard"
)

var ErrReportLocationCommandIsNotConstructed = errors.New(
	"ReportLocationCommand must be created via NewReportLocationCommand constructor",
)

// ReportLocationCommand represents a courier position report.
type ReportLocationCommand struct { //nolint:recvcheck //using for validation
	sample tracking.Sample

	guard guard.ConstructorGuard
}

// NewReportLocationCommand creates a position report. Coordinate and
// timestamp validation happens in the sample constructor, so a malformed
// report never reaches the handler.
func NewReportLocationCommand(
	courierID kernel.UUID,
	point kernel.GeoPoint,
	capturedAt time.Time,
) (ReportLocationCommand, error) {
	sample, err := tracking.NewSample(courierID, point, capturedAt)
	if err != nil {
		return ReportLocationCommand{}, err
	}

	return ReportLocationCommand{
		sample: sample,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReportLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportLocationCommandIsNotConstructed)
}

// Sample returns the validated position sample.
func (c ReportLocationCommand) Sample() tracking.Sample { return c.sample }
