package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrReserveOrderItemsCommandIsNotConstructed = errors.New(
	"ReserveOrderItemsCommand must be created via NewReserveOrderItemsCommand constructor",
)

// ReserveOrderItemsCommand requests one reservation attempt for every
// unreserved item of an order. It is issued once after intake and re-issued
// by the backorder retry sweep while the order is on hold.
type ReserveOrderItemsCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewReserveOrderItemsCommand creates a reservation command for an order.
func NewReserveOrderItemsCommand(orderID kernel.UUID) (ReserveOrderItemsCommand, error) {
	if err := orderID.Validate(); err != nil {
		return ReserveOrderItemsCommand{}, err
	}
	return ReserveOrderItemsCommand{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c ReserveOrderItemsCommand) Validate() error {
	return c.guard.Validate(ErrReserveOrderItemsCommandIsNotConstructed)
}

// OrderID returns the order whose items should be reserved.
func (c ReserveOrderItemsCommand) OrderID() kernel.UUID { return c.orderID }
