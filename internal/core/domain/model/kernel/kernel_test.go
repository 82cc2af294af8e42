package kernel_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUID(t *testing.T) {
	t.Run("new UUID is valid and unique", func(t *testing.T) {
		id1 := kernel.NewUUID()
		id2 := kernel.NewUUID()

		require.NoError(t, id1.Validate())
		assert.False(t, id1.IsEqual(id2))
	})

	t.Run("round-trips through string", func(t *testing.T) {
		id := kernel.NewUUID()
		parsed, err := kernel.UUIDFromString(id.String())

		require.NoError(t, err)
		assert.True(t, id.IsEqual(parsed))
	})

	t.Run("round-trips through bytes", func(t *testing.T) {
		id := kernel.NewUUID()
		raw := id.Bytes()
		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, id.IsEqual(restored))
	})

	t.Run("rejects malformed strings", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")
		require.Error(t, err)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var id kernel.UUID
		require.Error(t, id.Validate())
	})
}

func TestAddress(t *testing.T) {
	t.Run("creates valid address", func(t *testing.T) {
		addr, err := kernel.NewAddress("12 Main St", "Springfield", "62704", 39.78, -89.65)

		require.NoError(t, err)
		require.NoError(t, addr.Validate())
		assert.Equal(t, "12 Main St", addr.Street())
		assert.Equal(t, "12 Main St, Springfield 62704", addr.String())
	})

	t.Run("requires street and city", func(t *testing.T) {
		_, err := kernel.NewAddress("", "Springfield", "", 0, 0)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)

		_, err = kernel.NewAddress("12 Main St", "", "", 0, 0)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects coordinates out of range", func(t *testing.T) {
		_, err := kernel.NewAddress("12 Main St", "Springfield", "", 91, 0)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

		_, err = kernel.NewAddress("12 Main St", "Springfield", "", 0, -200)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		var addr kernel.Address
		require.ErrorIs(t, addr.Validate(), kernel.ErrAddressIsNotConstructed)
	})
}

func TestTimeWindow(t *testing.T) {
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("creates valid window", func(t *testing.T) {
		w, err := kernel.NewTimeWindow(now, now.Add(2*time.Hour))

		require.NoError(t, err)
		assert.True(t, w.Contains(now.Add(time.Hour)))
		assert.False(t, w.Contains(now.Add(3*time.Hour)))
	})

	t.Run("rejects inverted window", func(t *testing.T) {
		_, err := kernel.NewTimeWindow(now, now.Add(-time.Hour))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("orders by start", func(t *testing.T) {
		early, _ := kernel.NewTimeWindow(now, now.Add(time.Hour))
		late, _ := kernel.NewTimeWindow(now.Add(time.Hour), now.Add(2*time.Hour))

		assert.True(t, early.StartsBefore(late))
		assert.False(t, late.StartsBefore(early))
	})
}

func TestLoad(t *testing.T) {
	t.Run("adds dimension-wise", func(t *testing.T) {
		a, _ := kernel.NewLoad(1000, 500, 1)
		b, _ := kernel.NewLoad(2000, 1500, 2)

		sum := a.Add(b)
		assert.Equal(t, 3000, sum.WeightGrams())
		assert.Equal(t, 2000, sum.VolumeCubicCm())
		assert.Equal(t, 3, sum.Items())
	})

	t.Run("rejects negative dimensions", func(t *testing.T) {
		_, err := kernel.NewLoad(-1, 0, 0)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("Fits names the exceeded dimension", func(t *testing.T) {
		limit, _ := kernel.NewLoad(1000, 1000, 10)

		over, _ := kernel.NewLoad(1500, 100, 1)
		err := over.Fits(limit)
		require.ErrorIs(t, err, errs.ErrCapacityExceeded)

		var capErr *errs.CapacityExceededError
		require.ErrorAs(t, err, &capErr)
		assert.Equal(t, "max_weight", capErr.Resource)

		within, _ := kernel.NewLoad(1000, 1000, 10)
		require.NoError(t, within.Fits(limit))
	})
}

func TestEventRecorder(t *testing.T) {
	var rec kernel.EventRecorder
	id := kernel.NewUUID()

	rec.RecordTransition("order", id, "Received", "Validated")
	rec.RecordTransition("order", id, "Validated", "Processing")

	events := rec.DrainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "Received", events[0].PriorState)
	assert.Equal(t, "Processing", events[1].NewState)
	assert.WithinDuration(t, time.Now().UTC(), events[0].OccurredAt, time.Minute)

	assert.Empty(t, rec.DrainEvents(), "drain clears the recorder")
}
