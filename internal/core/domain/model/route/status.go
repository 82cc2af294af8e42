package route

import "fulfillment/internal/pkg/errs"

// Status represents the lifecycle state of a route.
//
//	Planned → Assigned → InProgress → Completed
//
// Cancelled is reachable from Planned and Assigned only; once execution
// starts the route runs to completion and individual deliveries carry the
// failure semantics. Planner mutation is only permitted in Planned;
// re-optimization requires reverting an Assigned route to Planned first.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Planned means the route is being built and may still be mutated.
	Planned

	// Assigned means the driver is booked and the route is frozen.
	Assigned

	// InProgress means the driver is executing the route; deliveries are
	// dispatched and owning orders are out for delivery.
	InProgress

	// Completed is the terminal state after the last stop.
	Completed

	// Cancelled is the terminal state for routes abandoned before execution.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Planned:    "Planned",
		Assigned:   "Assigned",
		InProgress: "InProgress",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

func transitions() map[Status][]Status {
	return map[Status][]Status{
		Planned:    {Assigned, Cancelled},
		Assigned:   {InProgress, Planned, Cancelled},
		InProgress: {Completed},
	}
}

// String returns the human-readable name of the status.
func (s Status) String() string {
	if str, ok := statusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidError("status")
	}
	if _, ok := statusStrings()[s]; !ok {
		return errs.NewValueIsInvalidError("status")
	}
	return nil
}

// IsTerminal reports whether no further transitions are allowed.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates and performs a transition, returning the new
// status or an InvalidTransitionError with the original state preserved.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return s, err
	}
	if !s.CanTransitionTo(next) {
		return s, errs.NewInvalidTransitionError("route", s.String(), next.String())
	}
	return next, nil
}
