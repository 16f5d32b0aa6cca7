package jobs

import (
	"context"
	"log/slog"

	"storefront/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// NotificationDispatcherJob periodically drains the notification outbox and
// hands each message to the notifier. Runs every second so confirmations go
// out promptly after the order commit that produced them.
type NotificationDispatcherJob struct {
	outbox   ports.NotificationOutbox
	notifier ports.Notifier
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewNotificationDispatcherJob creates a new dispatcher job.
func NewNotificationDispatcherJob(
	outbox ports.NotificationOutbox,
	notifier ports.Notifier,
	logger *slog.Logger,
) *NotificationDispatcherJob {
	return &NotificationDispatcherJob{
		outbox:   outbox,
		notifier: notifier,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "notification_dispatcher_job"),
	}
}

// Start begins the dispatcher job to run every second.
func (j *NotificationDispatcherJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx := context.Background()

		// Delivery is best-effort: a failed send is logged and dropped, it
		// never blocks the order mutation that enqueued it.
		for _, msg := range j.outbox.Drain() {
			if err := j.notifier.SendOrderConfirmation(ctx, msg); err != nil {
				j.logger.ErrorContext(ctx, "Order confirmation send failed",
					"orderNumber", msg.OrderNumber,
					"customerEmail", msg.CustomerEmail,
					"error", err,
				)
			}
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification dispatcher job started (running every second)")
	return nil
}

// Stop stops the dispatcher job.
func (j *NotificationDispatcherJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification dispatcher job stopped")
}
