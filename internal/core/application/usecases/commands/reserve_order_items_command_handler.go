package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/assembly"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keyedmutex"
)

var (
	// ErrOrderNotReservable is returned when the order is past the
	// reservation stage or already terminal.
	ErrOrderNotReservable = errors.New("order is not in a reservable status")
	// ErrBackorderExhausted signals that the bounded backorder retries ran
	// out; the order stays on hold for manual review.
	ErrBackorderExhausted = errors.New("backorder retry attempts exhausted, order needs review")
)

// ReserveOrderItemsCommandHandler performs exactly one reserve attempt per
// unreserved item. A successful reservation creates the item's assembly
// task in the same transaction; a shortage puts the order on backorder hold
// with a bounded retry counter driven by the retry sweep.
//
// SKU mutexes serialize ledger access across concurrent reservations so
// two orders never interleave a load-mutate-persist cycle on one SKU.
type ReserveOrderItemsCommandHandler struct {
	uowFactory           ReservationUoWFactory
	skuLocks             *keyedmutex.KeyedMutex
	maxBackorderAttempts int
}

// NewReserveOrderItemsCommandHandler creates a handler for reservation
// attempts. skuLocks must be the process-wide per-SKU mutex set shared with
// every other ledger-mutating handler.
func NewReserveOrderItemsCommandHandler(
	uowFactory ReservationUoWFactory,
	skuLocks *keyedmutex.KeyedMutex,
	maxBackorderAttempts int,
) ReserveOrderItemsCommandHandler {
	return ReserveOrderItemsCommandHandler{
		uowFactory:           uowFactory,
		skuLocks:             skuLocks,
		maxBackorderAttempts: maxBackorderAttempts,
	}
}

// Handle processes one reservation pass over the order.
func (h ReserveOrderItemsCommandHandler) Handle(ctx context.Context, cmd ReserveOrderItemsCommand) error {
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

	switch aggregate.Status() {
	case order.Validated:
		if err = aggregate.BeginProcessing(); err != nil {
			return err
		}
	case order.Processing:
		// Retry pass over an order on backorder hold.
	default:
		return ErrOrderNotReservable
	}

	pending := unreservedItems(aggregate)
	unlock := lockSKUs(h.skuLocks, pending)
	defer unlock()

	shortage, err := h.reserveItems(ctx, uow, aggregate, pending)
	if err != nil {
		return err
	}

	if shortage == nil {
		aggregate.ReleaseHold()
		if err = aggregate.BeginAssembly(); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, aggregate); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	aggregate.PlaceOnHold(shortage.Error())
	attempts := aggregate.RecordBackorderAttempt()

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if attempts > h.maxBackorderAttempts {
		return errors.Join(ErrBackorderExhausted, shortage)
	}
	return shortage
}

// reserveItems attempts each pending item once. The first shortage is
// returned as the hold reason; reservations that already succeeded in this
// pass are kept.
func (h ReserveOrderItemsCommandHandler) reserveItems(
	ctx context.Context,
	uow ReservationUoW,
	aggregate *order.Order,
	pending []*order.Item,
) (shortage error, err error) {
	stockRepo := uow.StockRepository()
	taskRepo := uow.AssemblyTaskRepository()

	for _, item := range pending {
		stockItem, err := stockRepo.GetBySKU(ctx, item.SKU())
		if err != nil {
			if errors.Is(err, errs.ErrObjectNotFound) && shortage == nil {
				shortage = errs.NewInsufficientStockError(item.SKU(), item.Quantity(), 0)
				continue
			}
			if errors.Is(err, errs.ErrObjectNotFound) {
				continue
			}
			return nil, err
		}

		if reserveErr := stockItem.Reserve(item.Quantity()); reserveErr != nil {
			if !errors.Is(reserveErr, errs.ErrInsufficientStock) {
				return nil, reserveErr
			}
			if shortage == nil {
				shortage = reserveErr
			}
			continue
		}

		if err = stockRepo.Update(ctx, stockItem); err != nil {
			return nil, err
		}
		if err = aggregate.MarkItemReserved(item.ID()); err != nil {
			return nil, err
		}

		task, err := assembly.NewTask(kernel.NewUUID(), aggregate.ID(), item.ID(), item.SKU(), aggregate.Priority())
		if err != nil {
			return nil, err
		}
		if err = taskRepo.Add(ctx, task); err != nil {
			return nil, err
		}
	}

	return shortage, nil
}

func unreservedItems(aggregate *order.Order) []*order.Item {
	items := make([]*order.Item, 0, len(aggregate.ActiveItems()))
	for _, item := range aggregate.ActiveItems() {
		if !item.IsReserved() {
			items = append(items, item)
		}
	}
	return items
}
