package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCancelRouteCommandIsNotConstructed = errors.New(
	"CancelRouteCommand must be created via NewCancelRouteCommand constructor",
)

// CancelRouteCommand abandons a route before execution; its deliveries
// return to the scheduling pool.
type CancelRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelRouteCommand creates a cancellation command.
func NewCancelRouteCommand(routeID kernel.UUID) (CancelRouteCommand, error) {
	if err := routeID.Validate(); err != nil {
		return CancelRouteCommand{}, err
	}
	return CancelRouteCommand{
		routeID: routeID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelRouteCommand) Validate() error {
	return c.guard.Validate(ErrCancelRouteCommandIsNotConstructed)
}

// RouteID returns the route being cancelled.
func (c CancelRouteCommand) RouteID() kernel.UUID { return c.routeID }
