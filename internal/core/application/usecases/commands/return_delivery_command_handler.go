package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/keyedmutex"
)

// ReturnDeliveryCommandHandler closes a returned delivery. Assembled goods
// travel back to the warehouse, so every assembled item's quantity goes
// back onto the ledger in the same transaction.
type ReturnDeliveryCommandHandler struct {
	uowFactory DeliveryUoWFactory
	directory  ports.CustomerDirectory
	skuLocks   *keyedmutex.KeyedMutex
	maxRetries int
}

// NewReturnDeliveryCommandHandler creates a handler for returned deliveries.
func NewReturnDeliveryCommandHandler(
	uowFactory DeliveryUoWFactory,
	directory ports.CustomerDirectory,
	skuLocks *keyedmutex.KeyedMutex,
	maxNotificationRetries int,
) ReturnDeliveryCommandHandler {
	return ReturnDeliveryCommandHandler{
		uowFactory: uowFactory,
		directory:  directory,
		skuLocks:   skuLocks,
		maxRetries: maxNotificationRetries,
	}
}

// Handle processes the return command.
func (h ReturnDeliveryCommandHandler) Handle(ctx context.Context, cmd ReturnDeliveryCommand) error {
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

	deliveryRepo := uow.DeliveryRepository()
	d, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}
	if err = d.Return(cmd.Reason()); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, d); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, d.OrderID())
	if err != nil {
		return err
	}
	if err = aggregate.MarkReturned(); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if err = h.restock(ctx, uow, aggregate); err != nil {
		return err
	}

	err = enqueueNotification(ctx, h.directory, uow.NotificationTaskRepository(),
		aggregate.ID(), aggregate.CustomerID(), MessageOrderReturned, h.maxRetries)
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// restock puts assembled quantities back on hand. Reserved counters were
// already consumed when assembly committed the picks, so only the on-hand
// side moves here.
func (h ReturnDeliveryCommandHandler) restock(ctx context.Context, uow DeliveryUoW, aggregate *order.Order) error {
	assembled := make([]*order.Item, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		if item.IsAssembled() {
			assembled = append(assembled, item)
		}
	}
	unlock := lockSKUs(h.skuLocks, assembled)
	defer unlock()

	stockRepo := uow.StockRepository()
	for _, item := range assembled {
		stockItem, err := stockRepo.GetBySKU(ctx, item.SKU())
		if err != nil {
			return err
		}
		if err = stockItem.AdjustOnHand(item.Quantity()); err != nil {
			return err
		}
		if err = stockRepo.Update(ctx, stockItem); err != nil {
			return err
		}
	}

	return nil
}
