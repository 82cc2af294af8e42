package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrMarkDeliveryInTransitCommandIsNotConstructed = errors.New(
	"MarkDeliveryInTransitCommand must be created via NewMarkDeliveryInTransitCommand constructor",
)

// MarkDeliveryInTransitCommand records the driver heading to the stop.
type MarkDeliveryInTransitCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkDeliveryInTransitCommand creates an in-transit command.
func NewMarkDeliveryInTransitCommand(deliveryID kernel.UUID) (MarkDeliveryInTransitCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return MarkDeliveryInTransitCommand{}, err
	}
	return MarkDeliveryInTransitCommand{
		deliveryID: deliveryID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkDeliveryInTransitCommand) Validate() error {
	return c.guard.Validate(ErrMarkDeliveryInTransitCommandIsNotConstructed)
}

// DeliveryID returns the delivery in motion.
func (c MarkDeliveryInTransitCommand) DeliveryID() kernel.UUID { return c.deliveryID }
