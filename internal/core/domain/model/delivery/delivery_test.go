package delivery_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDelivery(t *testing.T, adHoc bool) *delivery.Delivery {
	t.Helper()
	addr, err := kernel.NewAddress("12 Main St", "Springfield", "", 39.78, -89.65)
	require.NoError(t, err)
	window, err := kernel.NewTimeWindow(
		time.Date(2024, 6, 3, 9, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 3, 13, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	load, err := kernel.NewLoad(2500, 4000, 2)
	require.NoError(t, err)

	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), addr, window, load, false, 1, adHoc)
	require.NoError(t, err)
	return d
}

func dispatched(t *testing.T) *delivery.Delivery {
	t.Helper()
	d := testDelivery(t, false)
	require.NoError(t, d.AssignToRoute(kernel.NewUUID(), kernel.NewUUID()))
	require.NoError(t, d.Dispatch())
	return d
}

func TestNewDelivery(t *testing.T) {
	t.Run("pooled for batch planning", func(t *testing.T) {
		d := testDelivery(t, false)
		require.NoError(t, d.Validate())
		assert.Equal(t, delivery.Scheduled, d.Status())
		assert.Equal(t, 1, d.Attempt())
		assert.True(t, d.IsActive())
		assert.Nil(t, d.RouteID())
	})

	t.Run("ad hoc bypasses the pool", func(t *testing.T) {
		d := testDelivery(t, true)
		assert.Equal(t, delivery.ScheduledAdHoc, d.Status())
		assert.True(t, d.IsAdHoc())
	})

	t.Run("attempt numbering starts at 1", func(t *testing.T) {
		addr, _ := kernel.NewAddress("12 Main St", "Springfield", "", 39.78, -89.65)
		_, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), addr,
			kernel.TimeWindow{}, kernel.Load{}, false, 0, false)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestDelivery_AssignUnassign(t *testing.T) {
	d := testDelivery(t, false)
	routeID, driverID := kernel.NewUUID(), kernel.NewUUID()

	require.NoError(t, d.AssignToRoute(routeID, driverID))
	assert.Equal(t, delivery.Assigned, d.Status())
	require.NotNil(t, d.RouteID())
	assert.True(t, d.RouteID().IsEqual(routeID))

	require.NoError(t, d.Unassign())
	assert.Equal(t, delivery.Scheduled, d.Status())
	assert.Nil(t, d.RouteID())
	assert.Nil(t, d.DriverID())
}

func TestDelivery_Complete(t *testing.T) {
	t.Run("requires proof", func(t *testing.T) {
		d := dispatched(t)
		require.NoError(t, d.MarkInTransit())
		require.NoError(t, d.MarkArrived())

		err := d.Complete(delivery.Proof{}, time.Now())
		require.ErrorIs(t, err, errs.ErrMissingProofOfDelivery)
		assert.Equal(t, delivery.Arrived, d.Status(), "delivery must stay arrived without proof")
	})

	t.Run("delivered with signature", func(t *testing.T) {
		d := dispatched(t)
		require.NoError(t, d.MarkInTransit())
		require.NoError(t, d.MarkArrived())

		proof, err := delivery.NewProof(delivery.ProofSignature, "sig-8841")
		require.NoError(t, err)
		at := time.Now()
		require.NoError(t, d.Complete(proof, at))

		assert.Equal(t, delivery.Delivered, d.Status())
		assert.False(t, d.IsActive())
		require.NotNil(t, d.DeliveredAt())
		assert.Equal(t, at, *d.DeliveredAt())
	})

	t.Run("not before arrival", func(t *testing.T) {
		d := dispatched(t)
		require.NoError(t, d.MarkInTransit())

		proof, _ := delivery.NewProof(delivery.ProofPhoto, "photo-17")
		require.ErrorIs(t, d.Complete(proof, time.Now()), errs.ErrInvalidTransition)
	})
}

func TestNewProof(t *testing.T) {
	_, err := delivery.NewProof(delivery.ProofSignature, "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = delivery.NewProof(delivery.ProofNone, "ref")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestDelivery_FailureExits(t *testing.T) {
	t.Run("fail records reason", func(t *testing.T) {
		d := dispatched(t)
		require.NoError(t, d.MarkInTransit())

		require.ErrorIs(t, d.Fail(""), errs.ErrValueIsRequired)
		require.NoError(t, d.Fail("customer not home"))
		assert.Equal(t, delivery.Failed, d.Status())
		assert.Equal(t, "customer not home", d.FailureReason())
	})

	t.Run("reschedule closes the attempt", func(t *testing.T) {
		d := dispatched(t)
		require.NoError(t, d.MarkInTransit())
		require.NoError(t, d.MarkArrived())

		require.NoError(t, d.Reschedule("access code missing"))
		assert.Equal(t, delivery.Rescheduled, d.Status())
		assert.False(t, d.IsActive())
	})

	t.Run("return on refusal", func(t *testing.T) {
		d := dispatched(t)
		require.NoError(t, d.MarkInTransit())
		require.NoError(t, d.MarkArrived())

		require.NoError(t, d.Return("customer refused"))
		assert.Equal(t, delivery.Returned, d.Status())
	})

	t.Run("not before dispatch", func(t *testing.T) {
		d := testDelivery(t, false)
		require.ErrorIs(t, d.Fail("too early"), errs.ErrInvalidTransition)
	})
}

func TestDelivery_Cancel(t *testing.T) {
	d := testDelivery(t, false)
	require.NoError(t, d.Cancel())
	require.NoError(t, d.Cancel(), "cancel must be idempotent")
	assert.Equal(t, delivery.Cancelled, d.Status())

	t.Run("recalls an en-route driver", func(t *testing.T) {
		d2 := dispatched(t)
		require.NoError(t, d2.MarkInTransit())
		require.NoError(t, d2.Cancel())
		assert.Equal(t, delivery.Cancelled, d2.Status())
	})

	t.Run("even at the doorstep", func(t *testing.T) {
		d3 := dispatched(t)
		require.NoError(t, d3.MarkInTransit())
		require.NoError(t, d3.MarkArrived())
		require.NoError(t, d3.Cancel())
		assert.Equal(t, delivery.Cancelled, d3.Status())
	})

	t.Run("not once handed over", func(t *testing.T) {
		d4 := dispatched(t)
		require.NoError(t, d4.MarkInTransit())
		require.NoError(t, d4.MarkArrived())
		proof, err := delivery.NewProof(delivery.ProofSignature, "sig-2210")
		require.NoError(t, err)
		require.NoError(t, d4.Complete(proof, time.Now()))
		require.ErrorIs(t, d4.Cancel(), errs.ErrInvalidTransition)
	})
}

func TestDelivery_Events(t *testing.T) {
	d := dispatched(t)
	require.NoError(t, d.MarkInTransit())

	events := d.DrainEvents()
	require.Len(t, events, 3)
	assert.Equal(t, "delivery", events[0].EntityType)
	assert.Equal(t, "Scheduled", events[0].PriorState)
	assert.Equal(t, "InTransit", events[2].NewState)
	assert.Empty(t, d.DrainEvents())
}
