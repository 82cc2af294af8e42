package kernel

import "time"

// DomainEvent describes one state transition of an entity: which entity,
// the prior and new state, and when it happened. Events are collected by
// aggregates during command handling and published after the owning
// transaction commits; analytics consumers and the notification dispatcher
// both feed off them.
type DomainEvent struct {
	EntityType string
	EntityID   UUID
	PriorState string
	NewState   string
	OccurredAt time.Time
}

// NewTransitionEvent records a transition happening now.
func NewTransitionEvent(entityType string, entityID UUID, priorState, newState string) DomainEvent {
	return DomainEvent{
		EntityType: entityType,
		EntityID:   entityID,
		PriorState: priorState,
		NewState:   newState,
		OccurredAt: time.Now().UTC(),
	}
}

// EventRecorder is embedded by aggregates to accumulate transition events.
// Events survive until DrainEvents is called by the unit of work after a
// successful commit.
type EventRecorder struct {
	events []DomainEvent
}

// RecordTransition appends a transition event for the owning entity.
func (r *EventRecorder) RecordTransition(entityType string, entityID UUID, prior, next string) {
	r.events = append(r.events, NewTransitionEvent(entityType, entityID, prior, next))
}

// Events returns the recorded events without clearing them.
func (r *EventRecorder) Events() []DomainEvent {
	return r.events
}

// DrainEvents returns the recorded events and clears the recorder.
func (r *EventRecorder) DrainEvents() []DomainEvent {
	drained := r.events
	r.events = nil
	return drained
}
