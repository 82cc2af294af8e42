package commands

import (
	"context"
)

// CancelRouteCommandHandler abandons a route before execution. Deliveries
// that were already attached detach back to the scheduling pool, so the
// next planning run picks them up again.
type CancelRouteCommandHandler struct {
	uowFactory RouteExecutionUoWFactory
}

// NewCancelRouteCommandHandler creates a handler for route cancellation.
func NewCancelRouteCommandHandler(uowFactory RouteExecutionUoWFactory) CancelRouteCommandHandler {
	return CancelRouteCommandHandler{uowFactory: uowFactory}
}

// Handle processes the cancellation command.
func (h CancelRouteCommandHandler) Handle(ctx context.Context, cmd CancelRouteCommand) error {
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

	routeRepo := uow.RouteRepository()
	r, err := routeRepo.Get(ctx, cmd.RouteID())
	if err != nil {
		return err
	}
	if err = r.Cancel(); err != nil {
		return err
	}

	deliveryRepo := uow.DeliveryRepository()
	deliveries, err := deliveryRepo.GetAllByRoute(ctx, r.ID())
	if err != nil {
		return err
	}
	for _, d := range deliveries {
		if err = d.Unassign(); err != nil {
			return err
		}
		if err = deliveryRepo.Update(ctx, d); err != nil {
			return err
		}
	}

	if err = routeRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
