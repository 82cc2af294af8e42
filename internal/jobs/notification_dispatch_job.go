package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// NotificationDispatchJob drains due notification tasks through the
// channel providers. Runs every ten seconds so customer messages follow
// their triggering transition closely without hammering the gateways.
type NotificationDispatchJob struct {
	handler   commands.DispatchNotificationsCommandHandler
	batchSize int
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewNotificationDispatchJob creates the dispatch sweep. batchSize bounds
// how many due tasks one pass picks up.
func NewNotificationDispatchJob(
	handler commands.DispatchNotificationsCommandHandler,
	batchSize int,
	logger *slog.Logger,
) *NotificationDispatchJob {
	return &NotificationDispatchJob{
		handler:   handler,
		batchSize: batchSize,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "notification_dispatch_job"),
	}
}

// Start begins the dispatch sweep, running every ten seconds.
func (j *NotificationDispatchJob) Start() error {
	_, err := j.cron.AddFunc("*/10 * * * * *", func() {
		ctx := context.Background()

		cmd, cmdErr := commands.NewDispatchNotificationsCommand(j.batchSize)
		if cmdErr != nil {
			j.logger.ErrorContext(ctx, "Failed to build dispatch command", "error", cmdErr)
			return
		}

		result, handleErr := j.handler.Handle(ctx, cmd)
		if handleErr != nil {
			j.logger.ErrorContext(ctx, "Notification dispatch failed", "error", handleErr)
			return
		}

		if result.Sent > 0 || result.Retried > 0 || result.Failed > 0 {
			j.logger.InfoContext(ctx, "Notification dispatch pass finished",
				"sent", result.Sent, "retried", result.Retried, "failed", result.Failed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification dispatch job started (running every ten seconds)")
	return nil
}

// Stop stops the dispatch sweep.
func (j *NotificationDispatchJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Notification dispatch job stopped")
}
