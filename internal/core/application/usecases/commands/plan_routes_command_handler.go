package commands

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/keyedmutex"
)

// UnassignedDelivery reports one candidate the planner could not place.
type UnassignedDelivery struct {
	DeliveryID kernel.UUID
	OrderID    kernel.UUID
	Reason     string
}

// PlanRoutesResult summarizes a planning run.
type PlanRoutesResult struct {
	RouteIDs   []kernel.UUID
	Unassigned []UnassignedDelivery
}

// PlanRoutesCommandHandler runs one batch planning pass. Candidates are
// the pooled Scheduled deliveries plus fresh deliveries opened for every
// ReadyForDelivery order that has no active delivery yet. The domain
// planner packs them onto routes; this handler adds the external distance
// estimate, derives the route cost, and persists everything atomically.
//
// A per-team-and-date mutex serializes planning runs so two sweeps cannot
// book the same drivers concurrently.
type PlanRoutesCommandHandler struct {
	uowFactory    PlanningUoWFactory
	planner       services.RoutePlanner
	estimator     ports.DistanceEstimator
	planLocks     *keyedmutex.KeyedMutex
	costPerKmCent int
}

// NewPlanRoutesCommandHandler creates a handler for batch planning runs.
func NewPlanRoutesCommandHandler(
	uowFactory PlanningUoWFactory,
	planner services.RoutePlanner,
	estimator ports.DistanceEstimator,
	planLocks *keyedmutex.KeyedMutex,
	costPerKmCents int,
) PlanRoutesCommandHandler {
	return PlanRoutesCommandHandler{
		uowFactory:    uowFactory,
		planner:       planner,
		estimator:     estimator,
		planLocks:     planLocks,
		costPerKmCent: costPerKmCents,
	}
}

// Handle processes the planning command.
func (h PlanRoutesCommandHandler) Handle(ctx context.Context, cmd PlanRoutesCommand) (PlanRoutesResult, error) {
	if err := cmd.Validate(); err != nil {
		return PlanRoutesResult{}, err
	}

	lockKey := fmt.Sprintf("%s@%s", cmd.Team(), cmd.Date().Format("2006-01-02"))
	h.planLocks.Lock(lockKey)
	defer h.planLocks.Unlock(lockKey)

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return PlanRoutesResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	candidates, err := h.collectCandidates(ctx, uow)
	if err != nil {
		return PlanRoutesResult{}, err
	}

	drivers, err := uow.DriverRepository().GetAllAvailable(ctx, cmd.Team(), cmd.Date())
	if err != nil {
		return PlanRoutesResult{}, err
	}

	planned, err := h.planner.Plan(candidates, drivers, cmd.Date(), kernel.NewUUID)
	if err != nil {
		return PlanRoutesResult{}, err
	}

	shifts := make(map[string]int, len(drivers))
	for _, d := range drivers {
		shifts[d.ID().String()] = d.ShiftMinutes()
	}

	routeRepo := uow.RouteRepository()
	result := PlanRoutesResult{}
	for _, r := range planned.Routes {
		if err = h.estimateRoute(ctx, r, shifts[r.DriverID().String()]); err != nil {
			return PlanRoutesResult{}, err
		}
		if err = routeRepo.Add(ctx, r); err != nil {
			return PlanRoutesResult{}, err
		}
		result.RouteIDs = append(result.RouteIDs, r.ID())
	}

	for _, u := range planned.Unassigned {
		result.Unassigned = append(result.Unassigned, UnassignedDelivery{
			DeliveryID: u.Candidate.Delivery.ID(),
			OrderID:    u.Candidate.Delivery.OrderID(),
			Reason:     u.Reason.Error(),
		})
	}

	if err = uow.Commit(ctx); err != nil {
		return PlanRoutesResult{}, err
	}
	return result, nil
}

// collectCandidates pairs pooled deliveries and freshly opened ones with
// their order's planning priority. New deliveries are persisted so an
// order holds at most one active delivery even when it goes unassigned.
func (h PlanRoutesCommandHandler) collectCandidates(
	ctx context.Context,
	uow PlanningUoW,
) ([]services.Candidate, error) {
	orderRepo := uow.OrderRepository()
	deliveryRepo := uow.DeliveryRepository()

	var candidates []services.Candidate

	pooled, err := deliveryRepo.GetAllPooled(ctx)
	if err != nil {
		return nil, err
	}
	for _, d := range pooled {
		owner, err := orderRepo.Get(ctx, d.OrderID())
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, services.Candidate{Delivery: d, Priority: owner.Priority()})
	}

	ready, err := orderRepo.GetAllReadyForDelivery(ctx)
	if err != nil {
		return nil, err
	}
	for _, owner := range ready {
		if _, err = deliveryRepo.GetActiveByOrder(ctx, owner.ID()); err == nil {
			continue
		} else if !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}

		d, err := delivery.NewDelivery(
			kernel.NewUUID(), owner.ID(),
			owner.Address(), owner.Window(), owner.Load(),
			owner.NeedsSpecialHandling(), 1, false,
		)
		if err != nil {
			return nil, err
		}
		if err = deliveryRepo.Add(ctx, d); err != nil {
			return nil, err
		}
		candidates = append(candidates, services.Candidate{Delivery: d, Priority: owner.Priority()})
	}

	return candidates, nil
}

// estimateRoute asks the external estimator for distance and duration over
// the planned stop order and derives the route cost from distance.
func (h PlanRoutesCommandHandler) estimateRoute(ctx context.Context, r *route.Route, shiftMinutes int) error {
	stops := r.Stops()
	addresses := make([]kernel.Address, 0, len(stops))
	for _, stop := range stops {
		addresses = append(addresses, stop.Address)
	}

	estimate, err := h.estimator.Estimate(ctx, addresses)
	if err != nil {
		return err
	}

	costCents := estimate.DistanceMeters * h.costPerKmCent / 1000
	return r.SetEstimates(estimate.DistanceMeters, estimate.DurationMinutes, costCents, shiftMinutes)
}
