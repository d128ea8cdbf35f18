// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// The only job today is OutboxDispatchJob, which drains the transactional
// outbox every second so notifications leave the system with at most a
// one-second lag after the business transaction that enqueued them.
//
// Jobs are managed through JobManager, which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(processOutboxHandler, batchLimit, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
package jobs
