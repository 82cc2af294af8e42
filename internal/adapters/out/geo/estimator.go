// Package geo implements the distance estimator used by route planning.
// Estimates are great-circle distances between consecutive stops plus a
// fixed service time per stop. Good enough for capacity planning; a road
// network estimator can replace this behind the same port.
package geo

import (
	"context"
	"math"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

const (
	earthRadiusMeters = 6_371_000

	// Urban driving averages with stops and traffic.
	averageSpeedKmh = 25

	// Parking, handover, signature.
	serviceMinutesPerStop = 5
)

// HaversineEstimator estimates route distance and duration from stop
// coordinates alone.
type HaversineEstimator struct{}

// NewHaversineEstimator creates a coordinate-based estimator.
func NewHaversineEstimator() *HaversineEstimator {
	return &HaversineEstimator{}
}

// Estimate sums the great-circle legs between consecutive addresses and
// derives duration from the urban average speed plus per-stop service
// time. Fewer than two addresses yields a zero-distance estimate with
// only service time.
func (e *HaversineEstimator) Estimate(_ context.Context, addresses []kernel.Address) (ports.RouteEstimate, error) {
	var distance float64
	for i := 1; i < len(addresses); i++ {
		distance += haversineMeters(addresses[i-1], addresses[i])
	}

	drivingMinutes := distance / 1000 / averageSpeedKmh * 60
	serviceMinutes := len(addresses) * serviceMinutesPerStop

	return ports.RouteEstimate{
		DistanceMeters:  int(math.Round(distance)),
		DurationMinutes: int(math.Ceil(drivingMinutes)) + serviceMinutes,
	}, nil
}

func haversineMeters(from, to kernel.Address) float64 {
	lat1 := from.Latitude() * math.Pi / 180
	lat2 := to.Latitude() * math.Pi / 180
	dLat := (to.Latitude() - from.Latitude()) * math.Pi / 180
	dLon := (to.Longitude() - from.Longitude()) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(a))
}
