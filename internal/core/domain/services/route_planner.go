package services

import (
	"errors"
	"math"
	"sort"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/route"
)

// ErrDriverPoolExhausted is returned per candidate when every open route is
// full and no available driver remains to open a new one.
var ErrDriverPoolExhausted = errors.New("no available driver can take the delivery")

// DistanceFunc estimates the travel cost between two addresses. The planner
// only compares values, so any consistent metric works; NewRoutePlanner
// defaults to haversine distance over the geocoded coordinates.
type DistanceFunc func(from, to kernel.Address) float64

// Candidate pairs a pooled delivery with the priority of its owning order.
// Priority is a planning input only; it is not stored on the delivery.
type Candidate struct {
	Delivery *delivery.Delivery
	Priority order.Priority
}

// Unassigned reports a candidate the planner could not place, with the
// reason from the last placement attempt. Candidates are never dropped
// silently.
type Unassigned struct {
	Candidate Candidate
	Reason    error
}

// PlanResult is the outcome of one planning run: the built routes with
// their deliveries attached, plus the leftovers.
type PlanResult struct {
	Routes     []*route.Route
	Unassigned []Unassigned
}

// RoutePlanner is a domain service that partitions a pool of deliveries
// into capacity-bounded routes and books a driver for each.
//
// Packing strategy: candidates are sorted by order priority descending,
// then delivery window start ascending, and greedily placed onto the most
// loaded open route that can still fit them. Preferring fuller routes keeps
// the route count low. When no open route fits, the next available driver
// opens a new one. Special-handling deliveries only fit routes whose
// vehicle supports them, which the Route aggregate enforces.
type RoutePlanner struct {
	distance DistanceFunc
}

// NewRoutePlanner creates a planner. Pass nil to order stops by haversine
// distance over the geocoded coordinates.
func NewRoutePlanner(distance DistanceFunc) RoutePlanner {
	if distance == nil {
		distance = HaversineDistance
	}
	return RoutePlanner{distance: distance}
}

// Plan builds routes for one date out of the candidate pool and the
// available drivers. Every placed delivery is attached to its route;
// stop order, per-route optimization score and the unassigned report are
// part of the result. Routes are returned in Planned status; assignment
// and dispatch are separate steps.
//
// newRouteID supplies identifiers so the caller controls ID generation.
func (p RoutePlanner) Plan(
	candidates []Candidate,
	drivers []*driver.Driver,
	date time.Time,
	newRouteID func() kernel.UUID,
) (PlanResult, error) {
	for _, c := range candidates {
		if err := c.Delivery.Validate(); err != nil {
			return PlanResult{}, err
		}
	}

	pool := make([]*driver.Driver, 0, len(drivers))
	for _, d := range drivers {
		if err := d.Validate(); err != nil {
			return PlanResult{}, err
		}
		if d.IsAvailable() {
			pool = append(pool, d)
		}
	}

	sorted := make([]Candidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].Delivery.Window().StartsBefore(sorted[j].Delivery.Window())
	})

	var result PlanResult
	for _, c := range sorted {
		stop := route.Stop{
			DeliveryID:      c.Delivery.ID(),
			OrderID:         c.Delivery.OrderID(),
			Load:            c.Delivery.Load(),
			Address:         c.Delivery.Address(),
			SpecialHandling: c.Delivery.NeedsSpecialHandling(),
		}

		placed, reason, err := p.place(stop, &result.Routes, &pool, date, newRouteID)
		if err != nil {
			return PlanResult{}, err
		}
		if placed == nil {
			result.Unassigned = append(result.Unassigned, Unassigned{Candidate: c, Reason: reason})
		}
	}

	for _, r := range result.Routes {
		if err := p.orderStops(r); err != nil {
			return PlanResult{}, err
		}
		if err := r.SetOptimizationScore(p.score(r)); err != nil {
			return PlanResult{}, err
		}
	}

	return result, nil
}

// place puts the stop on the fullest open route that fits it, opening a
// new route from the driver pool when none does. A nil placed route with a
// non-nil reason means the candidate stays unassigned.
func (p RoutePlanner) place(
	stop route.Stop,
	routes *[]*route.Route,
	pool *[]*driver.Driver,
	date time.Time,
	newRouteID func() kernel.UUID,
) (placed *route.Route, reason, err error) {
	var (
		best       *route.Route
		bestFactor = -1.0
	)
	for _, r := range *routes {
		if r.CanFit(stop) != nil {
			continue
		}
		if f := loadFactor(r.Load(), r.Capacity()); f > bestFactor {
			bestFactor = f
			best = r
		}
	}
	if best != nil {
		return best, nil, best.AddStop(stop)
	}

	reason = ErrDriverPoolExhausted
	for i, d := range *pool {
		r, err := route.NewRoute(newRouteID(), d, date, false)
		if err != nil {
			return nil, nil, err
		}
		if fit := r.CanFit(stop); fit != nil {
			reason = fit
			continue
		}
		*pool = append((*pool)[:i], (*pool)[i+1:]...)
		*routes = append(*routes, r)
		return r, nil, r.AddStop(stop)
	}

	return nil, reason, nil
}

// orderStops rearranges a route nearest-neighbour: start at the first
// packed stop and repeatedly hop to the closest remaining one.
func (p RoutePlanner) orderStops(r *route.Route) error {
	stops := r.Stops()
	if len(stops) <= 2 {
		return nil
	}

	remaining := make([]route.Stop, len(stops))
	copy(remaining, stops)

	ordered := make([]kernel.UUID, 0, len(stops))
	current := remaining[0]
	ordered = append(ordered, current.DeliveryID)
	remaining = remaining[1:]

	for len(remaining) > 0 {
		nearest, nearestDist := 0, math.MaxFloat64
		for i, s := range remaining {
			if d := p.distance(current.Address, s.Address); d < nearestDist {
				nearest, nearestDist = i, d
			}
		}
		current = remaining[nearest]
		ordered = append(ordered, current.DeliveryID)
		remaining = append(remaining[:nearest], remaining[nearest+1:]...)
	}

	return r.SetStopOrder(ordered)
}

// score combines how full the vehicle is with how efficient the stop
// ordering is, both in [0, 1].
func (p RoutePlanner) score(r *route.Route) float64 {
	return loadFactor(r.Load(), r.Capacity()) * p.orderingEfficiency(r.Stops())
}

// orderingEfficiency compares the straight hop from first to last stop
// against the actual tour length. A single detour-free leg scores 1.
func (p RoutePlanner) orderingEfficiency(stops []route.Stop) float64 {
	if len(stops) <= 1 {
		return 1
	}

	var tour float64
	for i := 1; i < len(stops); i++ {
		tour += p.distance(stops[i-1].Address, stops[i].Address)
	}
	if tour == 0 {
		return 1
	}

	direct := p.distance(stops[0].Address, stops[len(stops)-1].Address)
	if direct == 0 {
		// Round trip back to the start; detours are not measurable, treat
		// the tour as fully efficient.
		return 1
	}
	return math.Min(1, direct/tour)
}

// loadFactor averages the per-dimension utilization of capacity.
func loadFactor(load, capacity kernel.Load) float64 {
	var sum, dims float64
	if capacity.WeightGrams() > 0 {
		sum += float64(load.WeightGrams()) / float64(capacity.WeightGrams())
		dims++
	}
	if capacity.VolumeCubicCm() > 0 {
		sum += float64(load.VolumeCubicCm()) / float64(capacity.VolumeCubicCm())
		dims++
	}
	if capacity.Items() > 0 {
		sum += float64(load.Items()) / float64(capacity.Items())
		dims++
	}
	if dims == 0 {
		return 0
	}
	return sum / dims
}

const earthRadiusMeters = 6_371_000

// HaversineDistance is the default DistanceFunc: great-circle distance in
// meters between two geocoded addresses.
func HaversineDistance(from, to kernel.Address) float64 {
	lat1 := from.Latitude() * math.Pi / 180
	lat2 := to.Latitude() * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (to.Longitude() - from.Longitude()) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
