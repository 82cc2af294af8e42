package kernel

import (
	"fmt"
	"time"

	"fulfillment/internal/pkg/errs"
)

// TimeWindow is the scheduled interval a delivery is promised within.
// From must be strictly before To. The zero value is treated as "no window"
// by callers that allow unscheduled work; use Validate where a window is
// mandatory.
type TimeWindow struct {
	from time.Time
	to   time.Time
}

// NewTimeWindow creates a validated window.
func NewTimeWindow(from, to time.Time) (TimeWindow, error) {
	if from.IsZero() {
		return TimeWindow{}, errs.NewValueIsRequiredError("window start")
	}
	if !to.After(from) {
		return TimeWindow{}, errs.NewValueIsInvalidErrorWithCause("window",
			fmt.Errorf("end %s is not after start %s", to, from))
	}
	return TimeWindow{from: from, to: to}, nil
}

// From returns the inclusive start of the window.
func (w TimeWindow) From() time.Time { return w.from }

// To returns the exclusive end of the window.
func (w TimeWindow) To() time.Time { return w.to }

// IsZero reports whether no window was set.
func (w TimeWindow) IsZero() bool { return w.from.IsZero() && w.to.IsZero() }

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t time.Time) bool {
	return !t.Before(w.from) && t.Before(w.to)
}

// StartsBefore orders windows by their start, used as the secondary sort key
// of route-planning candidates.
func (w TimeWindow) StartsBefore(other TimeWindow) bool {
	return w.from.Before(other.from)
}

// Validate rejects the zero value.
func (w TimeWindow) Validate() error {
	if w.IsZero() {
		return errs.NewValueIsRequiredError("time window")
	}
	return nil
}
