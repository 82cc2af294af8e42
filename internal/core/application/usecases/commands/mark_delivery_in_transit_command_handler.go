package commands

import (
	"context"
)

// MarkDeliveryInTransitCommandHandler advances a dispatched delivery to
// InTransit on a driver action.
type MarkDeliveryInTransitCommandHandler struct {
	uowFactory DeliveryUoWFactory
}

// NewMarkDeliveryInTransitCommandHandler creates a handler for in-transit updates.
func NewMarkDeliveryInTransitCommandHandler(uowFactory DeliveryUoWFactory) MarkDeliveryInTransitCommandHandler {
	return MarkDeliveryInTransitCommandHandler{uowFactory: uowFactory}
}

// Handle processes the in-transit update.
func (h MarkDeliveryInTransitCommandHandler) Handle(ctx context.Context, cmd MarkDeliveryInTransitCommand) error {
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
	if err = d.MarkInTransit(); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
