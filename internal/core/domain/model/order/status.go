package order

import "fulfillment/internal/pkg/errs"

// Status represents the lifecycle state of an order.
//
// Forward path:
//
//	Received → Validated → Processing → InAssembly → ReadyForDelivery
//	         → OutForDelivery → Delivered
//
// Failed, Cancelled and Returned are side branches reachable from any
// non-terminal state except Delivered. Delivered, Failed, Cancelled and
// Returned are terminal.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Received is the initial status at intake, before customer and item
	// data have been validated.
	Received

	// Validated means customer and item data passed validation.
	Validated

	// Processing means every item has a reservation attempt in flight.
	Processing

	// InAssembly means every item holds a reservation and at least one
	// assembly task is pending.
	InAssembly

	// ReadyForDelivery means all assembly tasks completed with no
	// unresolved defects; the order awaits route planning.
	ReadyForDelivery

	// OutForDelivery means the order's delivery rides a dispatched route.
	OutForDelivery

	// Delivered is the successful terminal state.
	Delivered

	// Failed is the terminal state after exhausted delivery attempts or an
	// unrecoverable pipeline error.
	Failed

	// Cancelled is the terminal state after cancellation; outstanding
	// reservations have been released.
	Cancelled

	// Returned is the terminal state after a recorded return; committed
	// stock has been compensated back.
	Returned
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:          "Unknown",
		Received:         "Received",
		Validated:        "Validated",
		Processing:       "Processing",
		InAssembly:       "InAssembly",
		ReadyForDelivery: "ReadyForDelivery",
		OutForDelivery:   "OutForDelivery",
		Delivered:        "Delivered",
		Failed:           "Failed",
		Cancelled:        "Cancelled",
		Returned:         "Returned",
	}
}

// transitions is the forward transition table. Side branches to Failed,
// Cancelled and Returned are handled in CanTransitionTo, not listed per row.
func transitions() map[Status][]Status {
	return map[Status][]Status{
		Received:         {Validated},
		Validated:        {Processing},
		Processing:       {InAssembly},
		InAssembly:       {ReadyForDelivery},
		ReadyForDelivery: {OutForDelivery},
		OutForDelivery:   {Delivered},
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
	switch s {
	case Delivered, Failed, Cancelled, Returned:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}

	switch next {
	case Failed, Cancelled, Returned:
		// Side branches from any non-terminal state.
		return true
	default:
	}

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
		return s, errs.NewInvalidTransitionError("order", s.String(), next.String())
	}
	return next, nil
}
