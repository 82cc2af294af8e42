package commands

import (
	"context"
	"errors"
)

// ErrRouteHasOpenDeliveries is returned when a route completion arrives
// while a delivery on it still awaits an outcome.
var ErrRouteHasOpenDeliveries = errors.New("route still has deliveries without an outcome")

// CompleteRouteCommandHandler closes a route once every delivery on it has
// reached an outcome.
type CompleteRouteCommandHandler struct {
	uowFactory RouteExecutionUoWFactory
}

// NewCompleteRouteCommandHandler creates a handler for route completion.
func NewCompleteRouteCommandHandler(uowFactory RouteExecutionUoWFactory) CompleteRouteCommandHandler {
	return CompleteRouteCommandHandler{uowFactory: uowFactory}
}

// Handle processes the completion command.
func (h CompleteRouteCommandHandler) Handle(ctx context.Context, cmd CompleteRouteCommand) error {
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

	deliveries, err := uow.DeliveryRepository().GetAllByRoute(ctx, r.ID())
	if err != nil {
		return err
	}
	for _, d := range deliveries {
		if d.IsActive() {
			return ErrRouteHasOpenDeliveries
		}
	}

	if err = r.Complete(); err != nil {
		return err
	}
	if err = routeRepo.Update(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
