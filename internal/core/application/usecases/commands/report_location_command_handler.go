package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"
)

// ReportLocationCommandHandler ingests courier position reports. Reports
// that arrive faster than the minimum interval or out of capture order are
// discarded silently; couriers on flaky networks retry aggressively and the
// relay only cares about the freshest point. Accepted samples go to the
// store first, then fan out to live subscribers.
type ReportLocationCommandHandler struct {
	store       ports.LocationStore
	broadcaster ports.TrackingBroadcaster
	minInterval time.Duration
}

// NewReportLocationCommandHandler creates a handler for position ingestion.
// minInterval throttles per-courier report frequency; zero disables the
// throttle.
func NewReportLocationCommandHandler(
	store ports.LocationStore,
	broadcaster ports.TrackingBroadcaster,
	minInterval time.Duration,
) ReportLocationCommandHandler {
	return ReportLocationCommandHandler{
		store:       store,
		broadcaster: broadcaster,
		minInterval: minInterval,
	}
}

// Handle processes one position report. Discarded reports are not errors.
func (h ReportLocationCommandHandler) Handle(ctx context.Context, cmd ReportLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	sample := cmd.Sample()

	if h.minInterval > 0 {
		current, err := h.store.Get(ctx, sample.CourierID())
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			// first report from this courier
		case err != nil:
			return err
		case sample.CapturedAt().Sub(current.CapturedAt()) < h.minInterval:
			return nil
		}
	}

	stored, err := h.store.Save(ctx, sample)
	if err != nil {
		return err
	}
	if !stored {
		// out-of-order sample lost the race, the stored one is newer
		return nil
	}

	h.broadcaster.Broadcast(sample)

	return nil
}
