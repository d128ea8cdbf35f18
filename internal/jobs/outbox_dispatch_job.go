package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// OutboxDispatchJob polls the transactional outbox and pushes due messages to
// their platform notifiers. Runs every second; an empty backlog is the normal
// case and produces no output.
type OutboxDispatchJob struct {
	handler    commands.ProcessOutboxCommandHandler
	batchLimit int
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewOutboxDispatchJob creates a new job draining the outbox in batches of batchLimit.
func NewOutboxDispatchJob(
	handler commands.ProcessOutboxCommandHandler,
	batchLimit int,
	logger *slog.Logger,
) *OutboxDispatchJob {
	return &OutboxDispatchJob{
		handler:    handler,
		batchLimit: batchLimit,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "outbox_dispatch_job"),
	}
}

// Start begins the outbox dispatch job to run every second.
func (j *OutboxDispatchJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()

		cmd, err := commands.NewProcessOutboxCommand(j.batchLimit)
		if err != nil {
			j.logger.ErrorContext(ctx, "Invalid outbox batch configuration", "error", err)
			return
		}

		attempted, err := j.handler.Handle(ctx, cmd)
		if err != nil {
			j.logger.ErrorContext(ctx, "Outbox dispatch job failed", "error", err)
			return
		}

		if attempted > 0 {
			j.logger.DebugContext(ctx, "Outbox batch processed", "attempted", attempted)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job started (running every second)")
	return nil
}

// Stop stops the outbox dispatch job.
func (j *OutboxDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Outbox dispatch job stopped")
}
