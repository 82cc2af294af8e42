package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrCompleteRouteCommandIsNotConstructed = errors.New(
	"CompleteRouteCommand must be created via NewCompleteRouteCommand constructor",
)

// CompleteRouteCommand closes a route after its last stop.
type CompleteRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCompleteRouteCommand creates a completion command.
func NewCompleteRouteCommand(routeID kernel.UUID) (CompleteRouteCommand, error) {
	if err := routeID.Validate(); err != nil {
		return CompleteRouteCommand{}, err
	}
	return CompleteRouteCommand{
		routeID: routeID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteRouteCommand) Validate() error {
	return c.guard.Validate(ErrCompleteRouteCommandIsNotConstructed)
}

// RouteID returns the route being completed.
func (c CompleteRouteCommand) RouteID() kernel.UUID { return c.routeID }
