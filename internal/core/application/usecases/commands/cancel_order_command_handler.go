package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keyedmutex"
)

// CancelOrderCommandHandler withdraws an order and unwinds its footprint:
// outstanding reservations return to the ledger, open assembly tasks are
// abandoned and the active delivery is cancelled. Cancellation is accepted
// at any stage before handover, including a delivery already en route,
// where the cancelled stop recalls the driver.
type CancelOrderCommandHandler struct {
	uowFactory CancellationUoWFactory
	directory  ports.CustomerDirectory
	skuLocks   *keyedmutex.KeyedMutex
	maxRetries int
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory CancellationUoWFactory,
	directory ports.CustomerDirectory,
	skuLocks *keyedmutex.KeyedMutex,
	maxNotificationRetries int,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		skuLocks:   skuLocks,
		maxRetries: maxNotificationRetries,
	}
}

// Handle processes the cancellation command. Cancelling an already-cancelled
// order succeeds without side effects.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if aggregate.Status() == order.Cancelled {
		return nil
	}

	if err = h.cancelActiveDelivery(ctx, uow, aggregate); err != nil {
		return err
	}
	if err = aggregate.Cancel(); err != nil {
		return err
	}
	if err = h.releaseReservations(ctx, uow, aggregate); err != nil {
		return err
	}
	if err = h.abandonAssemblyTasks(ctx, uow, aggregate); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	err = enqueueNotification(ctx, h.directory, uow.NotificationTaskRepository(),
		aggregate.ID(), aggregate.CustomerID(), MessageOrderCancelled, h.maxRetries)
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h CancelOrderCommandHandler) cancelActiveDelivery(
	ctx context.Context,
	uow CancellationUoW,
	aggregate *order.Order,
) error {
	deliveryRepo := uow.DeliveryRepository()
	d, err := deliveryRepo.GetActiveByOrder(ctx, aggregate.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err = d.Cancel(); err != nil {
		return err
	}
	return deliveryRepo.Update(ctx, d)
}

// releaseReservations returns reserved-but-not-assembled quantities to the
// ledger. Assembled quantities stay committed until the goods physically
// come back, which a cancellation this late does not cover.
func (h CancelOrderCommandHandler) releaseReservations(
	ctx context.Context,
	uow CancellationUoW,
	aggregate *order.Order,
) error {
	reserved := make([]*order.Item, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		if item.IsReserved() && !item.IsAssembled() {
			reserved = append(reserved, item)
		}
	}
	if len(reserved) == 0 {
		return nil
	}

	unlock := lockSKUs(h.skuLocks, reserved)
	defer unlock()

	stockRepo := uow.StockRepository()
	for _, item := range reserved {
		stockItem, err := stockRepo.GetBySKU(ctx, item.SKU())
		if err != nil {
			return err
		}
		if err = stockItem.Release(item.Quantity()); err != nil {
			return err
		}
		if err = stockRepo.Update(ctx, stockItem); err != nil {
			return err
		}
		if err = aggregate.ReleaseItemReservation(item.ID()); err != nil {
			return err
		}
	}

	return nil
}

func (h CancelOrderCommandHandler) abandonAssemblyTasks(
	ctx context.Context,
	uow CancellationUoW,
	aggregate *order.Order,
) error {
	taskRepo := uow.AssemblyTaskRepository()
	tasks, err := taskRepo.GetAllByOrder(ctx, aggregate.ID())
	if err != nil {
		return err
	}

	for _, task := range tasks {
		if task.Status().IsTerminal() {
			continue
		}
		if err = task.Cancel(); err != nil {
			return err
		}
		if err = taskRepo.Update(ctx, task); err != nil {
			return err
		}
	}

	return nil
}
