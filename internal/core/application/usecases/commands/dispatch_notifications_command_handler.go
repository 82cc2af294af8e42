package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
)

// DispatchNotificationsResult summarizes one dispatch pass.
type DispatchNotificationsResult struct {
	Sent    int
	Retried int
	Failed  int
}

// DispatchNotificationsCommandHandler drains due notification tasks through
// the channel providers. Each task carries its own retry budget, so one
// broken provider or recipient never stalls the rest of the batch.
type DispatchNotificationsCommandHandler struct {
	uowFactory  NotificationUoWFactory
	directory   ports.CustomerDirectory
	providers   map[notification.Channel]ports.TransportProvider
	backoffBase time.Duration
	logger      *slog.Logger
}

// NewDispatchNotificationsCommandHandler creates a handler for the dispatch
// sweep. backoffBase is the delay before the first retry; it doubles on
// every subsequent transport failure.
func NewDispatchNotificationsCommandHandler(
	uowFactory NotificationUoWFactory,
	directory ports.CustomerDirectory,
	providers []ports.TransportProvider,
	backoffBase time.Duration,
	logger *slog.Logger,
) DispatchNotificationsCommandHandler {
	byChannel := make(map[notification.Channel]ports.TransportProvider, len(providers))
	for _, p := range providers {
		byChannel[p.Channel()] = p
	}
	return DispatchNotificationsCommandHandler{
		uowFactory:  uowFactory,
		directory:   directory,
		providers:   byChannel,
		backoffBase: backoffBase,
		logger:      logger,
	}
}

// Handle processes one dispatch pass.
func (h DispatchNotificationsCommandHandler) Handle(
	ctx context.Context,
	cmd DispatchNotificationsCommand,
) (DispatchNotificationsResult, error) {
	result := DispatchNotificationsResult{}

	if err := cmd.Validate(); err != nil {
		return result, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return result, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	now := time.Now().UTC()
	taskRepo := uow.NotificationTaskRepository()
	tasks, err := taskRepo.GetAllDue(ctx, now, cmd.Limit())
	if err != nil {
		return result, err
	}

	for _, task := range tasks {
		if err = task.Claim(now); err != nil {
			// Another worker got there first.
			continue
		}

		sendErr := h.send(ctx, task)
		switch {
		case sendErr == nil:
			result.Sent++
		case errors.Is(task.RecordTransportFailure(sendErr.Error(), h.backoffBase, now), notification.ErrRetriesExhausted):
			result.Failed++
			h.logger.Warn("notification retries exhausted",
				"task_id", task.ID().String(),
				"order_id", task.OrderID().String(),
				"channel", task.Channel().String(),
				"cause", sendErr.Error())
		default:
			result.Retried++
			h.logger.Info("notification send failed, retry scheduled",
				"task_id", task.ID().String(),
				"retry_count", task.RetryCount(),
				"cause", sendErr.Error())
		}

		if err = taskRepo.Update(ctx, task); err != nil {
			return result, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return result, err
	}
	return result, nil
}

// send resolves the recipient and pushes the payload through the channel's
// provider, marking the task sent on success.
func (h DispatchNotificationsCommandHandler) send(ctx context.Context, task *notification.Task) error {
	provider, ok := h.providers[task.Channel()]
	if !ok {
		return fmt.Errorf("no transport provider for channel %s", task.Channel())
	}

	contact, err := h.directory.GetContact(ctx, task.CustomerID())
	if err != nil {
		return err
	}

	externalID, err := provider.Send(ctx, contact, task)
	if err != nil {
		return err
	}

	return task.MarkSent(externalID)
}
