package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// FailDeliveryAttemptCommandHandler closes a failed attempt. While the
// retry budget lasts, the attempt is rescheduled and a successor delivery
// returns to the scheduling pool. Once it runs out, the delivery and the
// order fail for good.
type FailDeliveryAttemptCommandHandler struct {
	uowFactory  DeliveryUoWFactory
	directory   ports.CustomerDirectory
	maxAttempts int
	maxRetries  int
}

// NewFailDeliveryAttemptCommandHandler creates a handler for failed attempts.
func NewFailDeliveryAttemptCommandHandler(
	uowFactory DeliveryUoWFactory,
	directory ports.CustomerDirectory,
	maxDeliveryAttempts int,
	maxNotificationRetries int,
) FailDeliveryAttemptCommandHandler {
	return FailDeliveryAttemptCommandHandler{
		uowFactory:  uowFactory,
		directory:   directory,
		maxAttempts: maxDeliveryAttempts,
		maxRetries:  maxNotificationRetries,
	}
}

// Handle processes the failed-attempt command.
func (h FailDeliveryAttemptCommandHandler) Handle(ctx context.Context, cmd FailDeliveryAttemptCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()
	d, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, d.OrderID())
	if err != nil {
		return err
	}

	messageType := MessageDeliveryRescheduled
	if d.Attempt() < h.maxAttempts {
		if err = h.reschedule(ctx, deliveryRepo, d, cmd.Reason()); err != nil {
			return err
		}
	} else {
		messageType = MessageOrderFailed
		if err = d.Fail(cmd.Reason()); err != nil {
			return err
		}
		if err = deliveryRepo.Update(ctx, d); err != nil {
			return err
		}
		if err = aggregate.MarkFailed(); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return err
		}
	}

	err = enqueueNotification(ctx, h.directory, uow.NotificationTaskRepository(),
		aggregate.ID(), aggregate.CustomerID(), messageType, h.maxRetries)
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h FailDeliveryAttemptCommandHandler) reschedule(
	ctx context.Context,
	deliveryRepo ports.DeliveryRepository,
	d *delivery.Delivery,
	reason string,
) error {
	if err := d.Reschedule(reason); err != nil {
		return err
	}
	if err := deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	successor, err := delivery.NewDelivery(
		kernel.NewUUID(),
		d.OrderID(),
		d.Address(),
		d.Window(),
		d.Load(),
		d.NeedsSpecialHandling(),
		d.Attempt()+1,
		false,
	)
	if err != nil {
		return err
	}

	return deliveryRepo.Add(ctx, successor)
}
