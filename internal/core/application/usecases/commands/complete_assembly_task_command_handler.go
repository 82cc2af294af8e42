package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/keyedmutex"
)

// CompleteAssemblyTaskCommandHandler finishes an assembly task: the item's
// reserved stock is committed (onHand and reserved decrement together), the
// item is flagged assembled, and once every non-cancelled item of the order
// is assembled with no unresolved defect the order advances to
// ReadyForDelivery. Task, ledger and order commit in one transaction.
type CompleteAssemblyTaskCommandHandler struct {
	uowFactory AssemblyUoWFactory
	skuLocks   *keyedmutex.KeyedMutex
}

// NewCompleteAssemblyTaskCommandHandler creates a handler for task
// completion. skuLocks must be the shared per-SKU mutex set.
func NewCompleteAssemblyTaskCommandHandler(
	uowFactory AssemblyUoWFactory,
	skuLocks *keyedmutex.KeyedMutex,
) CompleteAssemblyTaskCommandHandler {
	return CompleteAssemblyTaskCommandHandler{
		uowFactory: uowFactory,
		skuLocks:   skuLocks,
	}
}

// Handle processes the completion command.
func (h CompleteAssemblyTaskCommandHandler) Handle(ctx context.Context, cmd CompleteAssemblyTaskCommand) error {
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
	if err = task.Complete(); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, task.OrderID())
	if err != nil {
		return err
	}
	item, err := aggregate.ItemByID(task.ItemID())
	if err != nil {
		return err
	}

	h.skuLocks.Lock(item.SKU())
	defer h.skuLocks.Unlock(item.SKU())

	stockRepo := uow.StockRepository()
	stockItem, err := stockRepo.GetBySKU(ctx, item.SKU())
	if err != nil {
		return err
	}
	if err = stockItem.Commit(item.Quantity()); err != nil {
		return err
	}
	if err = stockRepo.Update(ctx, stockItem); err != nil {
		return err
	}

	if err = aggregate.MarkItemAssembled(item.ID()); err != nil {
		return err
	}
	if aggregate.Status() == order.InAssembly && aggregate.AllItemsAssembled() {
		if err = aggregate.MarkReadyForDelivery(); err != nil {
			return err
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
