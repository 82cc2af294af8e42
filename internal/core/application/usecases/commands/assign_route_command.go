package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrAssignRouteCommandIsNotConstructed = errors.New(
	"AssignRouteCommand must be created via NewAssignRouteCommand constructor",
)

// AssignRouteCommand books the driver on a planned route and freezes it.
type AssignRouteCommand struct { //nolint:recvcheck //using for validation
	routeID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAssignRouteCommand creates an assignment command.
func NewAssignRouteCommand(routeID kernel.UUID) (AssignRouteCommand, error) {
	if err := routeID.Validate(); err != nil {
		return AssignRouteCommand{}, err
	}
	return AssignRouteCommand{
		routeID: routeID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c AssignRouteCommand) Validate() error {
	return c.guard.Validate(ErrAssignRouteCommandIsNotConstructed)
}

// RouteID returns the route being assigned.
func (c AssignRouteCommand) RouteID() kernel.UUID { return c.routeID }
