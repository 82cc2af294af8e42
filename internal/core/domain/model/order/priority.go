package order

import "fulfillment/internal/pkg/errs"

// Priority orders route-planning candidates: higher values are packed first.
type Priority int

const (
	PriorityLow Priority = iota + 1
	PriorityNormal
	PriorityHigh
	PriorityUrgent
)

func priorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityLow:    "Low",
		PriorityNormal: "Normal",
		PriorityHigh:   "High",
		PriorityUrgent: "Urgent",
	}
}

// String returns the human-readable name of the priority.
func (p Priority) String() string {
	if s, ok := priorityStrings()[p]; ok {
		return s
	}
	return "Unknown"
}

// Validate rejects values outside the defined range.
func (p Priority) Validate() error {
	if _, ok := priorityStrings()[p]; !ok {
		return errs.NewValueIsOutOfRangeError("priority", int(p), int(PriorityLow), int(PriorityUrgent))
	}
	return nil
}
