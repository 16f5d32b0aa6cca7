// Package jobs provides scheduled background tasks for the storefront.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the order lifecycle.
//
// # Available Jobs
//
// 1. NotificationDispatcherJob - Runs every second to drain the notification
// outbox and deliver order confirmation messages.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(outbox, notifier, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Dispatch is best-effort: a failed send is logged and dropped rather than
// retried, so a misbehaving mail provider cannot back up the queue.
package jobs
