package commands

import (
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrPlanRoutesCommandIsNotConstructed = errors.New(
	"PlanRoutesCommand must be created via NewPlanRoutesCommand constructor",
)

// PlanRoutesCommand requests a batch planning run: partition the pooled
// deliveries of ready orders into capacity-bounded routes for one team on
// one date.
type PlanRoutesCommand struct { //nolint:recvcheck //using for validation
	date time.Time
	team string

	guard guard.ConstructorGuard
}

// NewPlanRoutesCommand creates a planning command for a team and date.
func NewPlanRoutesCommand(date time.Time, team string) (PlanRoutesCommand, error) {
	if date.IsZero() {
		return PlanRoutesCommand{}, errs.NewValueIsRequiredError("date")
	}
	if team == "" {
		return PlanRoutesCommand{}, errs.NewValueIsRequiredError("team")
	}
	return PlanRoutesCommand{
		date:  date.Truncate(24 * time.Hour),
		team:  team,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c PlanRoutesCommand) Validate() error {
	return c.guard.Validate(ErrPlanRoutesCommandIsNotConstructed)
}

// Date returns the delivery date being planned (midnight-truncated).
func (c PlanRoutesCommand) Date() time.Time { return c.date }

// Team returns the driver team being planned.
func (c PlanRoutesCommand) Team() string { return c.team }
