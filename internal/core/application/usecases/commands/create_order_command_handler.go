package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CreateOrderCommandHandler accepts a validated intake payload, resolves
// the customer's geocoded address and creates the order in Received status,
// immediately advancing it to Validated. The welcome notification is
// enqueued in the same transaction.
type CreateOrderCommandHandler struct {
	uowFactory IntakeUoWFactory
	directory  ports.CustomerDirectory
	maxRetries int
}

// NewCreateOrderCommandHandler creates a handler for order intake.
// maxNotificationRetries bounds the retry budget of the enqueued message.
func NewCreateOrderCommandHandler(
	uowFactory IntakeUoWFactory,
	directory ports.CustomerDirectory,
	maxNotificationRetries int,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		maxRetries: maxNotificationRetries,
	}
}

// Handle processes the intake command.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	address, err := h.directory.GetAddress(ctx, cmd.CustomerID())
	if err != nil {
		return err
	}

	items := make([]*order.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		load, err := kernel.NewLoad(line.WeightGrams, line.VolumeCubicCm, line.Quantity)
		if err != nil {
			return err
		}
		item, err := order.NewItem(kernel.NewUUID(), line.SKU, line.Quantity, load, line.SpecialHandling)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	var window kernel.TimeWindow
	if !cmd.WindowFrom().IsZero() {
		if window, err = kernel.NewTimeWindow(cmd.WindowFrom(), cmd.WindowTo()); err != nil {
			return err
		}
	}

	aggregate, err := order.NewOrder(cmd.OrderID(), cmd.CustomerID(), address, window, cmd.Priority(), items)
	if err != nil {
		return err
	}

	// The payload arrives pre-validated from the intake boundary.
	if err = aggregate.MarkValidated(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	if err = enqueueNotification(
		ctx, h.directory, uow.NotificationTaskRepository(),
		aggregate.ID(), aggregate.CustomerID(), MessageOrderReceived, h.maxRetries,
	); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
