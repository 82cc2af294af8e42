package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
)

// EventPublisher emits domain events on every state transition for
// analytics and downstream consumers.
type EventPublisher interface {
	// Publish emits the given events. Implementations must tolerate being
	// called with an empty slice.
	Publish(ctx context.Context, events []kernel.DomainEvent) error
}

// CustomerContact is the notification targeting data resolved from the
// customer directory.
type CustomerContact struct {
	CustomerID       kernel.UUID
	Name             string
	PreferredChannel notification.Channel
	Phone            string
	Email            string
	PushToken        string
}

// CustomerDirectory resolves customer identifiers to delivery addresses
// and contact preferences. Customer record management itself is an
// external collaborator.
type CustomerDirectory interface {
	// GetAddress resolves the customer's geocoded delivery address.
	GetAddress(ctx context.Context, customerID kernel.UUID) (kernel.Address, error)

	// GetContact resolves the customer's notification targeting data.
	GetContact(ctx context.Context, customerID kernel.UUID) (CustomerContact, error)
}

// RouteEstimate is the distance/duration estimate for an ordered sequence
// of addresses.
type RouteEstimate struct {
	DistanceMeters  int
	DurationMinutes int
}

// DistanceEstimator estimates total travel distance and time over an
// ordered address sequence. Pluggable; route cost derives from it.
type DistanceEstimator interface {
	Estimate(ctx context.Context, addresses []kernel.Address) (RouteEstimate, error)
}

// TransportProvider sends one rendered message over one channel. The
// dispatcher owns the retry policy, not the provider; transient failures
// surface as TransportFailureError.
type TransportProvider interface {
	// Channel reports which channel the provider serves.
	Channel() notification.Channel

	// Send delivers the task's payload to the recipient and returns the
	// provider's external message identifier.
	Send(ctx context.Context, recipient CustomerContact, task *notification.Task) (string, error)
}
