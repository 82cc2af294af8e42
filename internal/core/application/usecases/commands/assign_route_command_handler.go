package commands

import (
	"context"
)

// AssignRouteCommandHandler freezes a planned route and attaches its
// deliveries to the booked driver. From here only a revert to planned
// re-opens the stop list.
type AssignRouteCommandHandler struct {
	uowFactory RouteExecutionUoWFactory
}

// NewAssignRouteCommandHandler creates a handler for route assignment.
func NewAssignRouteCommandHandler(uowFactory RouteExecutionUoWFactory) AssignRouteCommandHandler {
	return AssignRouteCommandHandler{uowFactory: uowFactory}
}

// Handle processes the assignment command.
func (h AssignRouteCommandHandler) Handle(ctx context.Context, cmd AssignRouteCommand) error {
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
	if err = r.Assign(); err != nil {
		return err
	}

	deliveryRepo := uow.DeliveryRepository()
	for _, stop := range r.Stops() {
		d, err := deliveryRepo.Get(ctx, stop.DeliveryID)
		if err != nil {
			return err
		}
		if err = d.AssignToRoute(r.ID(), r.DriverID()); err != nil {
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
