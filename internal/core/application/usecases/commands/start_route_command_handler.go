package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// StartRouteCommandHandler dispatches an assigned route: the route moves
// to InProgress, every delivery on board to Dispatched, and each owning
// order to OutForDelivery with a customer notification. The assembly gate
// is re-checked by the order aggregate, so an order with an incomplete
// item aborts the whole start.
type StartRouteCommandHandler struct {
	uowFactory RouteExecutionUoWFactory
	directory  ports.CustomerDirectory
	maxRetries int
}

// NewStartRouteCommandHandler creates a handler for route starts.
func NewStartRouteCommandHandler(
	uowFactory RouteExecutionUoWFactory,
	directory ports.CustomerDirectory,
	maxNotificationRetries int,
) StartRouteCommandHandler {
	return StartRouteCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		maxRetries: maxNotificationRetries,
	}
}

// Handle processes the start command.
func (h StartRouteCommandHandler) Handle(ctx context.Context, cmd StartRouteCommand) error {
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
	if err = r.Start(); err != nil {
		return err
	}

	deliveryRepo := uow.DeliveryRepository()
	orderRepo := uow.OrderRepository()

	deliveries, err := deliveryRepo.GetAllByRoute(ctx, r.ID())
	if err != nil {
		return err
	}
	for _, d := range deliveries {
		if err = d.Dispatch(); err != nil {
			return err
		}
		if err = deliveryRepo.Update(ctx, d); err != nil {
			return err
		}

		aggregate, err := orderRepo.Get(ctx, d.OrderID())
		if err != nil {
			return err
		}
		if err = aggregate.MarkOutForDelivery(); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return err
		}

		if err = enqueueNotification(
			ctx, h.directory, uow.NotificationTaskRepository(),
			aggregate.ID(), aggregate.CustomerID(), MessageOrderOutForDelivery, h.maxRetries,
		); err != nil {
			return err
		}
	}

	if err = routeRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
