package delivery

import "fulfillment/internal/pkg/errs"

// Status represents the lifecycle state of a single delivery attempt.
//
//	Scheduled/ScheduledAdHoc → Assigned → Dispatched → InTransit → Arrived → Delivered
//
// Failed, Rescheduled, Returned and Cancelled are alternate exits once the
// driver is en route. A Rescheduled delivery is closed in favour of a fresh
// Scheduled one carrying the next attempt number.
type Status int

const (
	// Unknown catches uninitialized Status values.
	Unknown Status = iota

	// Scheduled means the delivery waits in the pool for batch planning.
	Scheduled

	// ScheduledAdHoc means the delivery bypasses batch planning and gets a
	// dedicated single-stop route.
	ScheduledAdHoc

	// Assigned means the delivery rides a planned route.
	Assigned

	// Dispatched means the route execution has started.
	Dispatched

	// InTransit means the driver is moving towards this stop.
	InTransit

	// Arrived means the driver is at the destination.
	Arrived

	// Delivered is the successful terminal state, backed by proof.
	Delivered

	// Failed is the terminal state of an exhausted delivery attempt.
	Failed

	// Rescheduled closes this attempt in favour of a successor.
	Rescheduled

	// Returned means the customer refused and the goods travel back.
	Returned

	// Cancelled is the terminal state for withdrawn deliveries; an order
	// cancellation recalls the stop at any point before handover.
	Cancelled
)

func statusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "Unknown",
		Scheduled:      "Scheduled",
		ScheduledAdHoc: "ScheduledAdHoc",
		Assigned:       "Assigned",
		Dispatched:     "Dispatched",
		InTransit:      "InTransit",
		Arrived:        "Arrived",
		Delivered:      "Delivered",
		Failed:         "Failed",
		Rescheduled:    "Rescheduled",
		Returned:       "Returned",
		Cancelled:      "Cancelled",
	}
}

func transitions() map[Status][]Status {
	return map[Status][]Status{
		Scheduled:      {Assigned, Cancelled},
		ScheduledAdHoc: {Assigned, Cancelled},
		Assigned:       {Dispatched, Scheduled, ScheduledAdHoc, Cancelled},
		Dispatched:     {InTransit, Cancelled},
		InTransit:      {Arrived, Failed, Rescheduled, Returned, Cancelled},
		Arrived:        {Delivered, Failed, Rescheduled, Returned, Cancelled},
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
	case Delivered, Failed, Rescheduled, Returned, Cancelled:
		return true
	}
	return false
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
		return s, errs.NewInvalidTransitionError("delivery", s.String(), next.String())
	}
	return next, nil
}
