package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrFailDeliveryAttemptCommandIsNotConstructed = errors.New(
	"FailDeliveryAttemptCommand must be created via NewFailDeliveryAttemptCommand constructor",
)

// FailDeliveryAttemptCommand reports an unsuccessful delivery attempt, such
// as customer absence or a refused package.
type FailDeliveryAttemptCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	reason     string

	guard guard.ConstructorGuard
}

// NewFailDeliveryAttemptCommand creates a failed-attempt command.
func NewFailDeliveryAttemptCommand(deliveryID kernel.UUID, reason string) (FailDeliveryAttemptCommand, error) {
	if err := deliveryID.Validate(); err != nil {
		return FailDeliveryAttemptCommand{}, err
	}
	if strings.TrimSpace(reason) == "" {
		return FailDeliveryAttemptCommand{}, errs.NewValueIsRequiredError("reason")
	}

	return FailDeliveryAttemptCommand{
		deliveryID: deliveryID,
		reason:     reason,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c FailDeliveryAttemptCommand) Validate() error {
	return c.guard.Validate(ErrFailDeliveryAttemptCommandIsNotConstructed)
}

// DeliveryID returns the failed delivery.
func (c FailDeliveryAttemptCommand) DeliveryID() kernel.UUID { return c.deliveryID }

// Reason returns the driver's explanation.
func (c FailDeliveryAttemptCommand) Reason() string { return c.reason }
