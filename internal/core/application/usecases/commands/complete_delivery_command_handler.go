package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// CompleteDeliveryCommandHandler records a successful handover. The delivery
// closes with its proof, the owning order becomes Delivered and the customer
// gets a confirmation.
type CompleteDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	directory  ports.CustomerDirectory
	maxRetries int
}

// NewCompleteDeliveryCommandHandler creates a handler for delivery completion.
func NewCompleteDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	directory ports.CustomerDirectory,
	maxNotificationRetries int,
) CompleteDeliveryCommandHandler {
	return CompleteDeliveryCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		maxRetries: maxNotificationRetries,
	}
}

// Handle processes the completion command.
func (h CompleteDeliveryCommandHandler) Handle(ctx context.Context, cmd CompleteDeliveryCommand) error {
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
	if err = d.Complete(cmd.Proof(), cmd.DeliveredAt()); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, d.OrderID())
	if err != nil {
		return err
	}
	if err = aggregate.MarkDelivered(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	err = enqueueNotification(ctx, h.directory, uow.NotificationTaskRepository(),
		aggregate.ID(), aggregate.CustomerID(), MessageOrderDelivered, h.maxRetries)
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
