package commands

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// OrderLine is one requested line item of the intake payload.
type OrderLine struct {
	SKU             string
	Quantity        int
	WeightGrams     int
	VolumeCubicCm   int
	SpecialHandling bool
}

// CreateOrderCommand represents a validated intake request: a customer, a
// priority, a requested delivery window and at least one line item. The
// delivery address is resolved from the customer directory, not carried in
// the payload.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID
	priority   order.Priority
	windowFrom time.Time
	windowTo   time.Time
	lines      []OrderLine

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates an intake command. The window is optional
// as a pair: both zero means unscheduled, otherwise from must precede to.
func NewCreateOrderCommand(
	orderID, customerID kernel.UUID,
	priority order.Priority,
	windowFrom, windowTo time.Time,
	lines []OrderLine,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomerID(customerID),
		cmd.setPriority(priority),
		cmd.setWindow(windowFrom, windowTo),
		cmd.setLines(lines),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier assigned to the new order.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CustomerID returns the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// Priority returns the planning priority.
func (c CreateOrderCommand) Priority() order.Priority { return c.priority }

// WindowFrom returns the requested window start; zero when unscheduled.
func (c CreateOrderCommand) WindowFrom() time.Time { return c.windowFrom }

// WindowTo returns the requested window end; zero when unscheduled.
func (c CreateOrderCommand) WindowTo() time.Time { return c.windowTo }

// Lines returns the requested line items.
func (c CreateOrderCommand) Lines() []OrderLine { return c.lines }

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return fmt.Errorf("customer: %w", err)
	}
	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setPriority(priority order.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	c.priority = priority
	return nil
}

func (c *CreateOrderCommand) setWindow(from, to time.Time) error {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	window, err := kernel.NewTimeWindow(from, to)
	if err != nil {
		return err
	}
	c.windowFrom = window.From()
	c.windowTo = window.To()
	return nil
}

func (c *CreateOrderCommand) setLines(lines []OrderLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("lines")
	}
	for _, line := range lines {
		if line.SKU == "" {
			return errs.NewValueIsRequiredError("sku")
		}
		if line.Quantity <= 0 {
			return errs.NewValueIsInvalidError("quantity")
		}
	}
	c.lines = lines
	return nil
}
