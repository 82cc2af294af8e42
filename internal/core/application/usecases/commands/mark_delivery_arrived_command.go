package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkDeliveryArrivedCommandIsNotConstructed = errors.New(
	"MarkDeliveryArrivedCommand must be created via NewMarkDeliveryArrivedCommand constructor",
)

// MarkDeliveryArrivedCommand records the driver at the destination.
type MarkDeliveryArrivedCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkDeliveryArrivedCommand creates an arrival command.
func NewMarkDeliveryArrivedCommand(deliveryID kernel.UUID) (MarkDeliveryArrivedCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return MarkDeliveryArrivedCommand{}, err
	}
	return MarkDeliveryArrivedCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDeliveryArrivedCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveryArrivedCommandIsNotConstructed)
}

// DeliveryID returns the delivery at its destination.
func (c MarkDeliveryArrivedCommand) DeliveryID() kernel.UUID { return c.deliveryID }
