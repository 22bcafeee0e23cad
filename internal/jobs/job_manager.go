// Package jobs provides the scheduled sweeps behind the dispatch core:
// offering pending orders to couriers and expiring unanswered offers. Both
// run every second through github.com/robfig/cron/v3 and are managed
// together by JobManager.
package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	dispatchJob    *DispatchJob
	offerExpiryJob *OfferExpiryJob
}

// NewJobManager creates a job manager wiring the sweep handlers into their
// jobs.
func NewJobManager(
	dispatchHandler commands.DispatchOrdersCommandHandler,
	expireOffersHandler commands.ExpireOffersCommandHandler,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		dispatchJob:    NewDispatchJob(dispatchHandler, logger),
		offerExpiryJob: NewOfferExpiryJob(expireOffersHandler, logger),
	}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.offerExpiryJob.Start(); err != nil {
		return fmt.Errorf("failed to start offer expiry job: %w", err)
	}

	if err := jm.dispatchJob.Start(); err != nil {
		jm.offerExpiryJob.Stop()
		return fmt.Errorf("failed to start dispatch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.dispatchJob.Stop()
	jm.offerExpiryJob.Stop()
}
