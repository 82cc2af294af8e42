package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReturnDeliveryCommandIsNotConstructed = errors.New(
	"ReturnDeliveryCommand must be created via NewReturnDeliveryCommand constructor",
)

// ReturnDeliveryCommand reports goods coming back to the warehouse, such as
// a refused package or an undeliverable address.
type ReturnDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewReturnDeliveryCommand creates a return command.
func NewReturnDeliveryCommand(deliveryID kernel.UUID, reason string) (ReturnDeliveryCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return ReturnDeliveryCommand{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return ReturnDeliveryCommand{}, errs.NewValueIsRequiredError("reason")
	}

	return ReturnDeliveryCommand{
		deliveryID: deliveryID,
		reason:     reason,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReturnDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrReturnDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the delivery being returned.
func (c ReturnDeliveryCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// Reason returns the driver's explanation.
func (c ReturnDeliveryCommand) Reason() string { return c.reason }
