package assembly_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/assembly"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTask(t *testing.T) *assembly.Task {
	t.Helper()
	task, err := assembly.NewTask(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		"SKU-1", order.PriorityNormal,
	)
	require.NoError(t, err)
	return task
}

func TestNewTask(t *testing.T) {
	t.Run("starts pending and unassigned", func(t *testing.T) {
		task := newTask(t)

		require.NoError(t, task.Validate())
		assert.Equal(t, assembly.Pending, task.Status())
		assert.Nil(t, task.Assignee())
		assert.Nil(t, task.StartedAt())
		assert.False(t, task.CreatedAt().IsZero())
	})

	t.Run("requires sku", func(t *testing.T) {
		_, err := assembly.NewTask(
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			"", order.PriorityNormal,
		)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestTask_Claim(t *testing.T) {
	t.Run("claims pending task", func(t *testing.T) {
		task := newTask(t)
		worker := kernel.NewUUID()

		require.NoError(t, task.Claim(worker))
		assert.Equal(t, assembly.InProgress, task.Status())
		require.NotNil(t, task.Assignee())
		assert.True(t, task.Assignee().IsEqual(worker))
		assert.NotNil(t, task.StartedAt())
	})

	t.Run("second claim loses with ConcurrencyConflict", func(t *testing.T) {
		task := newTask(t)
		require.NoError(t, task.Claim(kernel.NewUUID()))

		err := task.Claim(kernel.NewUUID())
		require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
		assert.Equal(t, assembly.InProgress, task.Status())
	})
}

func TestTask_Complete(t *testing.T) {
	task := newTask(t)
	require.NoError(t, task.Claim(kernel.NewUUID()))

	require.NoError(t, task.Complete())
	assert.Equal(t, assembly.Completed, task.Status())
	assert.NotNil(t, task.CompletedAt())

	t.Run("completion requires a claim first", func(t *testing.T) {
		unclaimed := newTask(t)
		require.ErrorIs(t, unclaimed.Complete(), errs.ErrInvalidTransition)
	})
}

func TestTask_DefectCycle(t *testing.T) {
	task := newTask(t)
	require.NoError(t, task.Claim(kernel.NewUUID()))
	require.NoError(t, task.MarkDefective())
	assert.Equal(t, assembly.Defective, task.Status())

	require.NoError(t, task.Requeue())
	assert.Equal(t, assembly.Pending, task.Status())
	assert.Nil(t, task.Assignee(), "requeue clears the assignee")

	require.NoError(t, task.Claim(kernel.NewUUID()))
	require.NoError(t, task.Complete())
}

func TestTask_Cancel(t *testing.T) {
	t.Run("cancellable while pending or defective", func(t *testing.T) {
		task := newTask(t)
		require.NoError(t, task.Cancel())
		assert.Equal(t, assembly.Cancelled, task.Status())
	})

	t.Run("idempotent", func(t *testing.T) {
		task := newTask(t)
		require.NoError(t, task.Cancel())
		require.NoError(t, task.Cancel())
	})

	t.Run("completed tasks cannot be cancelled", func(t *testing.T) {
		task := newTask(t)
		require.NoError(t, task.Claim(kernel.NewUUID()))
		require.NoError(t, task.Complete())
		require.ErrorIs(t, task.Cancel(), errs.ErrInvalidTransition)
	})
}

func TestTask_RecordsTransitionEvents(t *testing.T) {
	task := newTask(t)
	require.NoError(t, task.Claim(kernel.NewUUID()))
	require.NoError(t, task.Complete())

	events := task.DrainEvents()
	require.Len(t, events, 2)
	assert.Equal(t, "assembly_task", events[0].EntityType)
	assert.Equal(t, "Pending", events[0].PriorState)
	assert.Equal(t, "Completed", events[1].NewState)
}
