package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrStartRouteCommandIsNotConstructed = errors.New(
	"StartRouteCommand must be created via NewStartRouteCommand constructor",
)

// StartRouteCommand begins route execution: the driver leaves the depot.
type StartRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartRouteCommand creates a start command.
func NewStartRouteCommand(routeID kernel.UUID) (StartRouteCommand, error) {
	if err := routeID.Validate(); err != nil {
		return StartRouteCommand{}, err
	}
	return StartRouteCommand{
		routeID: routeID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c StartRouteCommand) Validate() error {
	return c.guard.Validate(ErrStartRouteCommandIsNotConstructed)
}

// RouteID returns the route being started.
func (c StartRouteCommand) RouteID() kernel.UUID { return c.routeID }
