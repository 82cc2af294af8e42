package commands

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateAdHocDeliveryCommandIsNotConstructed = errors.New(
	"CreateAdHocDeliveryCommand must be created via NewCreateAdHocDeliveryCommand constructor",
)

// CreateAdHocDeliveryCommand bypasses batch planning: one ready order, one
// named driver, one dedicated single-stop route, assigned immediately.
type CreateAdHocDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	date     time.Time

	guard guard.ConstructorGuard
}

// NewCreateAdHocDeliveryCommand creates an ad hoc delivery command.
func NewCreateAdHocDeliveryCommand(orderID, driverID kernel.UUID, date time.Time) (CreateAdHocDeliveryCommand, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return CreateAdHocDeliveryCommand{}, err
	}
	if date.IsZero() {
		return CreateAdHocDeliveryCommand{}, errs.NewValueIsRequiredError("date")
	}
	return CreateAdHocDeliveryCommand{
		orderID:  orderID,
		driverID: driverID,
		date:     date.Truncate(24 * time.Hour),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateAdHocDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrCreateAdHocDeliveryCommandIsNotConstructed)
}

// OrderID returns the order to deliver.
func (c CreateAdHocDeliveryCommand) OrderID() kernel.UUID { return c.orderID }

// DriverID returns the driver taking the dedicated route.
func (c CreateAdHocDeliveryCommand) DriverID() kernel.UUID { return c.driverID }

// Date returns the delivery date (midnight-truncated).
func (c CreateAdHocDeliveryCommand) Date() time.Time { return c.date }
