package jobs

import (
	"fmt"
	"log/slog"

	"storefront/internal/core/ports"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	notificationDispatcherJob *NotificationDispatcherJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	outbox ports.NotificationOutbox,
	notifier ports.Notifier,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		notificationDispatcherJob: NewNotificationDispatcherJob(outbox, notifier, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.notificationDispatcherJob.Start(); err != nil {
		return fmt.Errorf("failed to start notification dispatcher job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.notificationDispatcherJob.Stop()
}
