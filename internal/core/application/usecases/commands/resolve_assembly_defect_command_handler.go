package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/keyedmutex"
)

// ResolveAssemblyDefectCommandHandler closes a reported defect. Replacement
// re-queues the task so another worker prepares a fresh unit. Removal
// cancels the task and the item, returns the item's reserved stock to the
// ledger, and lets the order continue with its remaining items; an order
// whose last item is removed is cancelled outright.
type ResolveAssemblyDefectCommandHandler struct {
	uowFactory AssemblyUoWFactory
	skuLocks   *keyedmutex.KeyedMutex
}

// NewResolveAssemblyDefectCommandHandler creates a handler for defect resolution.
func NewResolveAssemblyDefectCommandHandler(
	uowFactory AssemblyUoWFactory,
	skuLocks *keyedmutex.KeyedMutex,
) ResolveAssemblyDefectCommandHandler {
	return ResolveAssemblyDefectCommandHandler{
		uowFactory: uowFactory,
		skuLocks:   skuLocks,
	}
}

// Handle processes the defect resolution.
func (h ResolveAssemblyDefectCommandHandler) Handle(ctx context.Context, cmd ResolveAssemblyDefectCommand) error {
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

	taskRepo := uow.AssemblyTaskRepository()
	task, err := taskRepo.Get(ctx, cmd.TaskID())
	if err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, task.OrderID())
	if err != nil {
		return err
	}

	switch cmd.Resolution() {
	case ResolutionReplace:
		if err = task.Requeue(); err != nil {
			return err
		}
		if err = aggregate.ResolveItemDefect(task.ItemID()); err != nil {
			return err
		}

	case ResolutionRemove:
		if err = h.removeItem(ctx, uow, aggregate, task.ItemID()); err != nil {
			return err
		}
		if err = task.Cancel(); err != nil {
			return err
		}
		if len(aggregate.ActiveItems()) == 0 {
			if err = aggregate.Cancel(); err != nil {
				return err
			}
		} else if aggregate.Status() == order.InAssembly && aggregate.AllItemsAssembled() {
			if err = aggregate.MarkReadyForDelivery(); err != nil {
				return err
			}
		}
	}

	if err = taskRepo.Update(ctx, task); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// removeItem releases the item's reservation back to the ledger and
// cancels the item on the order.
func (h ResolveAssemblyDefectCommandHandler) removeItem(
	ctx context.Context,
	uow AssemblyUoW,
	aggregate *order.Order,
	itemID kernel.UUID,
) error {
	item, err := aggregate.ItemByID(itemID)
	if err != nil {
		return err
	}

	if item.IsReserved() && !item.IsAssembled() {
		h.skuLocks.Lock(item.SKU())
		defer h.skuLocks.Unlock(item.SKU())

		stockRepo := uow.StockRepository()
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
	}

	return aggregate.CancelItem(itemID)
}
