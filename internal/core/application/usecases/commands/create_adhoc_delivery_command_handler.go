package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keyedmutex"
)

var (
	// ErrOrderNotReadyForDelivery is returned when the order has not
	// finished assembly.
	ErrOrderNotReadyForDelivery = errors.New("order is not ready for delivery")
	// ErrOrderHasActiveDelivery is returned when another delivery attempt
	// is already open for the order.
	ErrOrderHasActiveDelivery = errors.New("order already has an active delivery")
	// ErrDriverNotAvailable is returned when the named driver cannot be booked.
	ErrDriverNotAvailable = errors.New("driver is not available")
)

// CreateAdHocDeliveryCommandHandler opens a dedicated single-stop route
// for one ready order and a named driver, skipping the batch planner. The
// route is assigned (frozen) immediately.
type CreateAdHocDeliveryCommandHandler struct {
	uowFactory PlanningUoWFactory
	planLocks  *keyedmutex.KeyedMutex
}

// NewCreateAdHocDeliveryCommandHandler creates a handler for ad hoc deliveries.
func NewCreateAdHocDeliveryCommandHandler(
	uowFactory PlanningUoWFactory,
	planLocks *keyedmutex.KeyedMutex,
) CreateAdHocDeliveryCommandHandler {
	return CreateAdHocDeliveryCommandHandler{
		uowFactory: uowFactory,
		planLocks:  planLocks,
	}
}

// Handle processes the ad hoc delivery command.
func (h CreateAdHocDeliveryCommandHandler) Handle(ctx context.Context, cmd CreateAdHocDeliveryCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	lockKey := fmt.Sprintf("%s@%s", cmd.DriverID(), cmd.Date().Format("2006-01-02"))
	h.planLocks.Lock(lockKey)
	defer h.planLocks.Unlock(lockKey)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if aggregate.Status() != order.ReadyForDelivery {
		return ErrOrderNotReadyForDelivery
	}

	deliveryRepo := uow.DeliveryRepository()
	if _, err = deliveryRepo.GetActiveByOrder(ctx, aggregate.ID()); err == nil {
		return ErrOrderHasActiveDelivery
	} else if !errors.Is(err, errs.ErrObjectNotFound) {
		return err
	}

	d, err := uow.DriverRepository().Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	if !d.IsAvailable() {
		return ErrDriverNotAvailable
	}

	attempt, err := delivery.NewDelivery(
		kernel.NewUUID(), aggregate.ID(),
		aggregate.Address(), aggregate.Window(), aggregate.Load(),
		aggregate.NeedsSpecialHandling(), 1, true,
	)
	if err != nil {
		return err
	}

	r, err := route.NewRoute(kernel.NewUUID(), d, cmd.Date(), true)
	if err != nil {
		return err
	}
	if err = r.AddStop(route.Stop{
		DeliveryID:      attempt.ID(),
		OrderID:         aggregate.ID(),
		Load:            attempt.Load(),
		Address:         attempt.Address(),
		SpecialHandling: attempt.NeedsSpecialHandling(),
	}); err != nil {
		return err
	}
	if err = r.Assign(); err != nil {
		return err
	}
	if err = attempt.AssignToRoute(r.ID(), d.ID()); err != nil {
		return err
	}

	if err = deliveryRepo.Add(ctx, attempt); err != nil {
		return err
	}
	if err = uow.RouteRepository().Add(ctx, r); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
