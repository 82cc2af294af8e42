// Package assembly contains the AssemblyTask aggregate: one task per
// reserved order item, tracking physical preparation from the moment stock
// is claimed until the item is packed or the task is abandoned.
package assembly

import "fulfillment/internal/pkg/errs"

// Status represents the lifecycle state of an assembly task.
//
//	Pending → InProgress → Completed
//	              │
//	              └→ Defective → Pending (replacement) | Cancelled
//
// Pending and InProgress can also be cancelled when the order is. Completed
// and Cancelled are terminal; tasks are kept as history, never destroyed.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Pending means the task awaits a worker claim.
	Pending

	// InProgress means exactly one worker holds the task.
	InProgress

	// Defective means preparation surfaced a defect awaiting resolution.
	Defective

	// Completed is the successful terminal state.
	Completed

	// Cancelled is the terminal state for abandoned tasks.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Pending:    "Pending",
		InProgress: "InProgress",
		Defective:  "Defective",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

func transitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {InProgress, Cancelled},
		InProgress: {Completed, Defective, Cancelled},
		Defective:  {Pending, Cancelled},
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
		return s, errs.NewInvalidTransitionError("assembly task", s.String(), next.String())
	}
	return next, nil
}
