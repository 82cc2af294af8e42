package route

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const entityType = "route"

var (
	// ErrRouteIsNotConstructed is returned when a Route bypassed NewRoute or RestoreRoute.
	ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute or RestoreRoute constructor")
	// ErrRouteIsFrozen is returned for planner mutations after the route
	// left Planned status.
	ErrRouteIsFrozen = errors.New("route is frozen after assignment; revert to planned to re-optimize")
	// ErrStopNotFound is returned when a delivery ID is not on the route.
	ErrStopNotFound = errors.New("route stop not found")
	// ErrVehicleIncompatible is returned when a special-handling delivery
	// is offered to a vehicle without the required equipment.
	ErrVehicleIncompatible = errors.New("special-handling delivery requires a special-equipped vehicle")
)

// Stop is one delivery on a route with the attributes packing and stop
// ordering need: its load, its destination, and the special-handling pin.
type Stop struct {
	DeliveryID      kernel.UUID
	OrderID         kernel.UUID
	Load            kernel.Load
	Address         kernel.Address
	SpecialHandling bool
}

// Route is a planned grouping of deliveries for one driver on one date.
// The stop slice order is the driving order. A route in Planned status is
// the planner's mutable workspace; Assigned freezes it, and only reverting
// to Planned re-opens it.
type Route struct {
	kernel.EventRecorder

	id          kernel.UUID
	driverID    kernel.UUID
	team        string
	date        time.Time
	vehicleType driver.VehicleType
	capacity    kernel.Load
	adHoc       bool
	stops       []Stop
	status      Status

	distanceMeters    int
	durationMinutes   int
	costCents         int
	optimizationScore float64
	overtime          bool
	weekend           bool

	guard guard.ConstructorGuard
}

// NewRoute opens an empty planned route against a driver. The driver's
// capacity and vehicle type are snapshotted so packing decisions stay
// stable even if the driver record changes mid-planning.
func NewRoute(
	id kernel.UUID,
	d *driver.Driver,
	date time.Time,
	adHoc bool,
) (*Route, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, errs.NewValueIsRequiredError("date")
	}

	day := date.Truncate(24 * time.Hour)
	return &Route{
		id:          id,
		driverID:    d.ID(),
		team:        d.Team(),
		date:        day,
		vehicleType: d.VehicleType(),
		capacity:    d.Capacity(),
		adHoc:       adHoc,
		status:      Planned,
		weekend:     day.Weekday() == time.Saturday || day.Weekday() == time.Sunday,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// RestoreRoute reconstructs a route from persistence.
func RestoreRoute(
	id, driverID kernel.UUID,
	team string,
	date time.Time,
	vehicleType driver.VehicleType,
	capacity kernel.Load,
	adHoc bool,
	stops []Stop,
	status Status,
	distanceMeters, durationMinutes, costCents int,
	optimizationScore float64,
	overtime, weekend bool,
) (*Route, error) {
	if err := errors.Join(id.Validate(), driverID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if team == "" {
		return nil, errs.NewValueIsRequiredError("team")
	}

	return &Route{
		id:                id,
		driverID:          driverID,
		team:              team,
		date:              date,
		vehicleType:       vehicleType,
		capacity:          capacity,
		adHoc:             adHoc,
		stops:             stops,
		status:            status,
		distanceMeters:    distanceMeters,
		durationMinutes:   durationMinutes,
		costCents:         costCents,
		optimizationScore: optimizationScore,
		overtime:          overtime,
		weekend:           weekend,
		guard:             guard.NewConstructorGuard(),
	}, nil
}

// Validate rejects routes that bypassed the constructors.
func (r *Route) Validate() error {
	if r == nil {
		return ErrRouteIsNotConstructed
	}
	return r.guard.Validate(ErrRouteIsNotConstructed)
}

// ID returns the route's unique identifier.
func (r *Route) ID() kernel.UUID { return r.id }

// DriverID returns the booked driver.
func (r *Route) DriverID() kernel.UUID { return r.driverID }

// Team returns the team the route was planned for.
func (r *Route) Team() string { return r.team }

// Date returns the delivery date (midnight-truncated).
func (r *Route) Date() time.Time { return r.date }

// VehicleType returns the snapshotted vehicle type.
func (r *Route) VehicleType() driver.VehicleType { return r.vehicleType }

// Capacity returns the snapshotted driver capacity.
func (r *Route) Capacity() kernel.Load { return r.capacity }

// IsAdHoc reports whether the route was created outside batch planning.
func (r *Route) IsAdHoc() bool { return r.adHoc }

// Status returns the current route status.
func (r *Route) Status() Status { return r.status }

// Stops returns the stops in driving order.
func (r *Route) Stops() []Stop { return r.stops }

// DistanceMeters returns the estimated total driving distance.
func (r *Route) DistanceMeters() int { return r.distanceMeters }

// DurationMinutes returns the estimated total driving time.
func (r *Route) DurationMinutes() int { return r.durationMinutes }

// CostCents returns the estimated route cost.
func (r *Route) CostCents() int { return r.costCents }

// OptimizationScore summarizes load factor and stop-ordering efficiency in [0, 1].
func (r *Route) OptimizationScore() float64 { return r.optimizationScore }

// HasOvertimeSurcharge reports whether the estimate exceeds the driver's shift.
func (r *Route) HasOvertimeSurcharge() bool { return r.overtime }

// HasWeekendSurcharge reports whether the route runs on a weekend.
func (r *Route) HasWeekendSurcharge() bool { return r.weekend }

// Load returns the combined load of all stops.
func (r *Route) Load() kernel.Load {
	var total kernel.Load
	for _, stop := range r.stops {
		total = total.Add(stop.Load)
	}
	return total
}

// CanFit reports whether a stop would be admitted by AddStop, without
// mutating the route. The planner probes open routes with it.
func (r *Route) CanFit(stop Stop) error {
	if r.status != Planned {
		return ErrRouteIsFrozen
	}
	if stop.SpecialHandling && !r.vehicleType.SupportsSpecialHandling() {
		return ErrVehicleIncompatible
	}
	return r.Load().Add(stop.Load).Fits(r.capacity)
}

// AddStop appends a delivery to the route, enforcing vehicle compatibility
// and the capacity invariant on every dimension.
func (r *Route) AddStop(stop Stop) error {
	if err := r.CanFit(stop); err != nil {
		return err
	}
	if err := errors.Join(stop.DeliveryID.Validate(), stop.OrderID.Validate()); err != nil {
		return err
	}

	r.stops = append(r.stops, stop)
	return nil
}

// RemoveStop detaches a delivery from a still-planned route.
func (r *Route) RemoveStop(deliveryID kernel.UUID) error {
	if r.status != Planned {
		return ErrRouteIsFrozen
	}
	for i, stop := range r.stops {
		if stop.DeliveryID.IsEqual(deliveryID) {
			r.stops = append(r.stops[:i], r.stops[i+1:]...)
			return nil
		}
	}
	return ErrStopNotFound
}

// SetStopOrder rearranges the driving order. The new order must be a
// permutation of the current stops.
func (r *Route) SetStopOrder(deliveryIDs []kernel.UUID) error {
	if r.status != Planned {
		return ErrRouteIsFrozen
	}
	if len(deliveryIDs) != len(r.stops) {
		return errs.NewValueIsInvalidErrorWithCause("stop order",
			fmt.Errorf("%d ids for %d stops", len(deliveryIDs), len(r.stops)))
	}

	reordered := make([]Stop, 0, len(r.stops))
	for _, id := range deliveryIDs {
		found := false
		for _, stop := range r.stops {
			if stop.DeliveryID.IsEqual(id) {
				reordered = append(reordered, stop)
				found = true
				break
			}
		}
		if !found {
			return ErrStopNotFound
		}
	}

	r.stops = reordered
	return nil
}

// SetEstimates records the externally computed distance/duration and the
// derived cost, and computes the overtime flag against the driver's
// standard shift. Only the planner calls this, while the route is Planned.
func (r *Route) SetEstimates(distanceMeters, durationMinutes, costCents, shiftMinutes int) error {
	if r.status != Planned {
		return ErrRouteIsFrozen
	}
	if distanceMeters < 0 || durationMinutes < 0 || costCents < 0 {
		return errs.NewValueIsInvalidError("estimates")
	}

	r.distanceMeters = distanceMeters
	r.durationMinutes = durationMinutes
	r.costCents = costCents
	r.overtime = shiftMinutes > 0 && durationMinutes > shiftMinutes
	return nil
}

// SetOptimizationScore records the planner's load/ordering efficiency score.
func (r *Route) SetOptimizationScore(score float64) error {
	if r.status != Planned {
		return ErrRouteIsFrozen
	}
	if score < 0 || score > 1 {
		return errs.NewValueIsOutOfRangeError("optimization score", score, 0, 1)
	}
	r.optimizationScore = score
	return nil
}

// Assign books the driver and freezes the route.
func (r *Route) Assign() error {
	return r.transition(Assigned)
}

// RevertToPlanned re-opens an assigned route for re-optimization.
func (r *Route) RevertToPlanned() error {
	return r.transition(Planned)
}

// Start begins execution; deliveries on board are now dispatched.
func (r *Route) Start() error {
	return r.transition(InProgress)
}

// Complete finishes the route after its last stop.
func (r *Route) Complete() error {
	return r.transition(Completed)
}

// Cancel abandons a route before execution and is idempotent.
func (r *Route) Cancel() error {
	if r.status == Cancelled {
		return nil
	}
	return r.transition(Cancelled)
}

func (r *Route) transition(next Status) error {
	prior := r.status
	updated, err := r.status.TransitionTo(next)
	if err != nil {
		return err
	}

	r.status = updated
	r.RecordTransition(entityType, r.id, prior.String(), updated.String())
	return nil
}
