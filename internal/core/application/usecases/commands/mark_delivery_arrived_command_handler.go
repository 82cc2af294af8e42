package commands

import (
	"context"
)

// MarkDeliveryArrivedCommandHandler advances an in-transit delivery to
// Arrived on a driver action.
type MarkDeliveryArrivedCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewMarkDeliveryArrivedCommandHandler creates a handler for arrival updates.
func NewMarkDeliveryArrivedCommandHandler(uowFactory DeliveryUoWFactory) MarkDeliveryArrivedCommandHandler {
	return MarkDeliveryArrivedCommandHandler{uowFactory: uowFactory}
}

// Handle processes the arrival update.
func (h MarkDeliveryArrivedCommandHandler) Handle(ctx context.Context, cmd MarkDeliveryArrivedCommand) error {
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
	if err = d.MarkArrived(); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
