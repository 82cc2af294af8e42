package services_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planDate() time.Time {
	return time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
}

func plannerDriver(t *testing.T, vt driver.VehicleType, maxItems int) *driver.Driver {
	t.Helper()
	cap, err := kernel.NewLoad(100_000, 200_000, maxItems)
	require.NoError(t, err)
	d, err := driver.NewDriver(kernel.NewUUID(), "Bea", "north", vt, cap, 480)
	require.NoError(t, err)
	return d
}

func candidate(t *testing.T, priority order.Priority, windowStart time.Time, items int, special bool, lat, lon float64) services.Candidate {
	t.Helper()
	addr, err := kernel.NewAddress("1 Elm St", "Springfield", "", lat, lon)
	require.NoError(t, err)
	window, err := kernel.NewTimeWindow(windowStart, windowStart.Add(4*time.Hour))
	require.NoError(t, err)
	load, err := kernel.NewLoad(items*1000, items*2000, items)
	require.NoError(t, err)

	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), addr, window, load, special, 1, false)
	require.NoError(t, err)
	return services.Candidate{Delivery: d, Priority: priority}
}

func TestRoutePlanner_Plan(t *testing.T) {
	planner := services.NewRoutePlanner(nil)
	morning := planDate().Add(9 * time.Hour)

	t.Run("packs everything onto one route when it fits", func(t *testing.T) {
		candidates := []services.Candidate{
			candidate(t, order.PriorityNormal, morning, 2, false, 39.78, -89.65),
			candidate(t, order.PriorityNormal, morning.Add(time.Hour), 3, false, 39.79, -89.64),
			candidate(t, order.PriorityNormal, morning.Add(2*time.Hour), 1, false, 39.80, -89.63),
		}
		drivers := []*driver.Driver{plannerDriver(t, driver.VehicleVan, 10), plannerDriver(t, driver.VehicleVan, 10)}

		result, err := planner.Plan(candidates, drivers, planDate(), kernel.NewUUID)

		require.NoError(t, err)
		require.Len(t, result.Routes, 1)
		assert.Empty(t, result.Unassigned)
		assert.Len(t, result.Routes[0].Stops(), 3)
		assert.Equal(t, route.Planned, result.Routes[0].Status())
	})

	t.Run("leftovers reported unassigned, never dropped", func(t *testing.T) {
		// Five single-item deliveries against one driver with item
		// capacity three: one route of three, two unassigned.
		var candidates []services.Candidate
		for i := 0; i < 5; i++ {
			candidates = append(candidates, candidate(t, order.PriorityNormal, morning, 1, false, 39.78, -89.65))
		}
		drivers := []*driver.Driver{plannerDriver(t, driver.VehicleVan, 3)}

		result, err := planner.Plan(candidates, drivers, planDate(), kernel.NewUUID)

		require.NoError(t, err)
		require.Len(t, result.Routes, 1)
		assert.Len(t, result.Routes[0].Stops(), 3)
		require.Len(t, result.Unassigned, 2)
		for _, u := range result.Unassigned {
			assert.ErrorIs(t, u.Reason, services.ErrDriverPoolExhausted)
		}
	})

	t.Run("higher priority placed first", func(t *testing.T) {
		low := candidate(t, order.PriorityLow, morning, 3, false, 39.78, -89.65)
		urgent := candidate(t, order.PriorityUrgent, morning.Add(3*time.Hour), 3, false, 39.79, -89.64)
		drivers := []*driver.Driver{plannerDriver(t, driver.VehicleVan, 3)}

		result, err := planner.Plan([]services.Candidate{low, urgent}, drivers, planDate(), kernel.NewUUID)

		require.NoError(t, err)
		require.Len(t, result.Routes, 1)
		require.Len(t, result.Unassigned, 1)
		assert.True(t, result.Routes[0].Stops()[0].DeliveryID.IsEqual(urgent.Delivery.ID()))
		assert.True(t, result.Unassigned[0].Candidate.Delivery.ID().IsEqual(low.Delivery.ID()))
	})

	t.Run("earlier window breaks priority ties", func(t *testing.T) {
		late := candidate(t, order.PriorityNormal, morning.Add(4*time.Hour), 3, false, 39.78, -89.65)
		early := candidate(t, order.PriorityNormal, morning, 3, false, 39.79, -89.64)
		drivers := []*driver.Driver{plannerDriver(t, driver.VehicleVan, 3)}

		result, err := planner.Plan([]services.Candidate{late, early}, drivers, planDate(), kernel.NewUUID)

		require.NoError(t, err)
		require.Len(t, result.Unassigned, 1)
		assert.True(t, result.Routes[0].Stops()[0].DeliveryID.IsEqual(early.Delivery.ID()))
	})

	t.Run("special handling opens a route on the equipped vehicle", func(t *testing.T) {
		special := candidate(t, order.PriorityNormal, morning, 1, true, 39.78, -89.65)
		drivers := []*driver.Driver{
			plannerDriver(t, driver.VehicleVan, 10),
			plannerDriver(t, driver.VehicleSpecialEquipped, 10),
		}

		result, err := planner.Plan([]services.Candidate{special}, drivers, planDate(), kernel.NewUUID)

		require.NoError(t, err)
		require.Len(t, result.Routes, 1)
		assert.Equal(t, driver.VehicleSpecialEquipped, result.Routes[0].VehicleType())
	})

	t.Run("special handling with no equipped vehicle reports incompatibility", func(t *testing.T) {
		special := candidate(t, order.PriorityNormal, morning, 1, true, 39.78, -89.65)
		drivers := []*driver.Driver{plannerDriver(t, driver.VehicleVan, 10)}

		result, err := planner.Plan([]services.Candidate{special}, drivers, planDate(), kernel.NewUUID)

		require.NoError(t, err)
		assert.Empty(t, result.Routes)
		require.Len(t, result.Unassigned, 1)
		assert.ErrorIs(t, result.Unassigned[0].Reason, route.ErrVehicleIncompatible)
	})

	t.Run("oversized candidate reports capacity, smaller ones still ride", func(t *testing.T) {
		oversized := candidate(t, order.PriorityUrgent, morning, 5, false, 39.78, -89.65)
		small := candidate(t, order.PriorityLow, morning, 2, false, 39.79, -89.64)
		drivers := []*driver.Driver{plannerDriver(t, driver.VehicleVan, 3)}

		result, err := planner.Plan([]services.Candidate{oversized, small}, drivers, planDate(), kernel.NewUUID)

		require.NoError(t, err)
		require.Len(t, result.Routes, 1)
		assert.Len(t, result.Routes[0].Stops(), 1)
		require.Len(t, result.Unassigned, 1)
		assert.ErrorIs(t, result.Unassigned[0].Reason, errs.ErrCapacityExceeded)
	})

	t.Run("unavailable drivers are skipped", func(t *testing.T) {
		off := plannerDriver(t, driver.VehicleVan, 10)
		off.MarkUnavailable()
		c := candidate(t, order.PriorityNormal, morning, 1, false, 39.78, -89.65)

		result, err := planner.Plan([]services.Candidate{c}, []*driver.Driver{off}, planDate(), kernel.NewUUID)

		require.NoError(t, err)
		assert.Empty(t, result.Routes)
		require.Len(t, result.Unassigned, 1)
	})

	t.Run("capacity never exceeded on any route", func(t *testing.T) {
		var candidates []services.Candidate
		for i := 0; i < 12; i++ {
			candidates = append(candidates, candidate(t, order.PriorityNormal, morning, 2, false, 39.78+float64(i)/100, -89.65))
		}
		drivers := []*driver.Driver{
			plannerDriver(t, driver.VehicleVan, 5),
			plannerDriver(t, driver.VehicleTruck, 7),
			plannerDriver(t, driver.VehicleVan, 4),
		}

		result, err := planner.Plan(candidates, drivers, planDate(), kernel.NewUUID)

		require.NoError(t, err)
		for _, r := range result.Routes {
			require.NoError(t, r.Load().Fits(r.Capacity()))
			assert.GreaterOrEqual(t, r.OptimizationScore(), 0.0)
			assert.LessOrEqual(t, r.OptimizationScore(), 1.0)
		}
	})
}

func TestRoutePlanner_StopOrdering(t *testing.T) {
	planner := services.NewRoutePlanner(nil)
	morning := planDate().Add(9 * time.Hour)

	// Three stops on a line of longitude; packing order puts the middle
	// one last, nearest neighbour must visit them south to north.
	south := candidate(t, order.PriorityUrgent, morning, 1, false, 39.70, -89.65)
	north := candidate(t, order.PriorityHigh, morning, 1, false, 39.90, -89.65)
	middle := candidate(t, order.PriorityNormal, morning, 1, false, 39.80, -89.65)
	drivers := []*driver.Driver{plannerDriver(t, driver.VehicleVan, 10)}

	result, err := planner.Plan([]services.Candidate{south, north, middle}, drivers, planDate(), kernel.NewUUID)

	require.NoError(t, err)
	require.Len(t, result.Routes, 1)
	stops := result.Routes[0].Stops()
	require.Len(t, stops, 3)
	assert.True(t, stops[0].DeliveryID.IsEqual(south.Delivery.ID()))
	assert.True(t, stops[1].DeliveryID.IsEqual(middle.Delivery.ID()))
	assert.True(t, stops[2].DeliveryID.IsEqual(north.Delivery.ID()))
}

func TestHaversineDistance(t *testing.T) {
	a, err := kernel.NewAddress("1 Elm St", "Springfield", "", 39.78, -89.65)
	require.NoError(t, err)
	b, err := kernel.NewAddress("2 Elm St", "Springfield", "", 39.79, -89.65)
	require.NoError(t, err)

	assert.Zero(t, services.HaversineDistance(a, a))
	// One hundredth of a degree of latitude is roughly 1.11 km.
	assert.InDelta(t, 1112, services.HaversineDistance(a, b), 10)
}
