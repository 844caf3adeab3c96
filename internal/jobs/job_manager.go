package jobs

import (
	"fmt"
	"log/slog"

	"circulation/internal/core/application/usecases/commands"
	"circulation/internal/core/domain/model/kernel"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	orderFulfillmentJob *OrderFulfillmentJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	fulfillReadyOrdersHandler commands.FulfillReadyOrdersCommandHandler,
	systemUserID kernel.UUID,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		orderFulfillmentJob: NewOrderFulfillmentJob(fulfillReadyOrdersHandler, systemUserID, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.orderFulfillmentJob.Start(); err != nil {
		return fmt.Errorf("failed to start order fulfillment job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.orderFulfillmentJob.Stop()
}
