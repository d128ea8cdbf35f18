package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	outboxDispatchJob *OutboxDispatchJob
}

// NewJobManager creates a new job manager with all required jobs.
// Takes command handlers as dependencies to wire up the job execution.
func NewJobManager(
	processOutboxHandler commands.ProcessOutboxCommandHandler,
	batchLimit int,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		outboxDispatchJob: NewOutboxDispatchJob(processOutboxHandler, batchLimit, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.outboxDispatchJob.Start(); err != nil {
		return fmt.Errorf("failed to start outbox dispatch job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.outboxDispatchJob.Stop()
}
