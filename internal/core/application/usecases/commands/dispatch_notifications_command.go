package commands

import (
	"errors"
	"math"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrDispatchNotificationsCommandIsNotConstructed = errors.New(
	"DispatchNotificationsCommand must be created via NewDispatchNotificationsCommand constructor",
)

// DispatchNotificationsCommand runs one delivery pass over due notification
// tasks.
type DispatchNotificationsCommand struct { //nolint:recvcheck //using for validation
	limit int

	guard guard.ConstructorGuard
}

// NewDispatchNotificationsCommand creates a dispatch command. limit bounds
// how many due tasks one pass picks up.
func NewDispatchNotificationsCommand(limit int) (DispatchNotificationsCommand, error) {
	if limit <= 0 {
		return DispatchNotificationsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, math.MaxInt)
	}
	return DispatchNotificationsCommand{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c DispatchNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrDispatchNotificationsCommandIsNotConstructed)
}

// Limit returns the batch size of the pass.
func (c DispatchNotificationsCommand) Limit() int { return c.limit }
