package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/assembly"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/keyedmutex"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixtureClaimedTask(t *testing.T, aggregate *order.Order, item *order.Item) *assembly.Task {
	t.Helper()
	worker := kernel.NewUUID()
	started := time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC)
	task, err := assembly.RestoreTask(
		kernel.NewUUID(), aggregate.ID(), item.ID(), item.SKU(),
		aggregate.Priority(), assembly.InProgress,
		&worker, started.Add(-time.Hour), &started, nil,
	)
	require.NoError(t, err)
	return task
}

func TestCompleteAssemblyTaskCommandHandler_Handle_LastItemReadiesOrder(t *testing.T) {
	ctx := t.Context()
	load, err := kernel.NewLoad(500, 1000, 1)
	require.NoError(t, err)
	item, err := order.RestoreItem(kernel.NewUUID(), "SKU-100", 1, load, false, true, false, false, false)
	require.NoError(t, err)
	aggregate := fixtureOrder(t, order.InAssembly, item)
	task := fixtureClaimedTask(t, aggregate, item)
	stockItem := fixtureStock(t, "SKU-100", 10)
	require.NoError(t, stockItem.Reserve(1))

	cmd, err := commands.NewCompleteAssemblyTaskCommand(task.ID())
	require.NoError(t, err)

	taskRepo := new(MockAssemblyTaskRepository)
	orderRepo := new(MockOrderRepository)
	stockRepo := new(MockStockRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AssemblyTaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, task.ID()).Return(task, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("StockRepository").Return(stockRepo).Once(),
		stockRepo.On("GetBySKU", ctx, "SKU-100").Return(stockItem, nil).Once(),
		stockRepo.On("Update", ctx, stockItem).Return(nil).Once(),
		taskRepo.On("Update", ctx, task).Return(nil).Once(),
		orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssemblyUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCompleteAssemblyTaskCommandHandler(factory, keyedmutex.New())
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, assembly.Completed, task.Status())
	require.True(t, item.IsAssembled())
	require.Equal(t, order.ReadyForDelivery, aggregate.Status())
	// Commit consumes the pick: both counters drop together.
	require.Equal(t, 9, stockItem.OnHand())
	require.Equal(t, 0, stockItem.Reserved())

	uow.AssertExpectations(t)
	taskRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	stockRepo.AssertExpectations(t)
}

func TestCompleteAssemblyTaskCommandHandler_Handle_SiblingStillOpenKeepsOrderInAssembly(t *testing.T) {
	ctx := t.Context()
	load, err := kernel.NewLoad(500, 1000, 1)
	require.NoError(t, err)
	done, err := order.RestoreItem(kernel.NewUUID(), "SKU-AAA", 1, load, false, true, false, false, false)
	require.NoError(t, err)
	open, err := order.RestoreItem(kernel.NewUUID(), "SKU-BBB", 1, load, false, true, false, false, false)
	require.NoError(t, err)
	aggregate := fixtureOrder(t, order.InAssembly, done, open)
	task := fixtureClaimedTask(t, aggregate, done)
	stockItem := fixtureStock(t, "SKU-AAA", 5)
	require.NoError(t, stockItem.Reserve(1))

	cmd, err := commands.NewCompleteAssemblyTaskCommand(task.ID())
	require.NoError(t, err)

	taskRepo := new(MockAssemblyTaskRepository)
	orderRepo := new(MockOrderRepository)
	stockRepo := new(MockStockRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("AssemblyTaskRepository").Return(taskRepo).Once()
	uow.On("OrderRepository").Return(orderRepo).Once()
	uow.On("StockRepository").Return(stockRepo).Once()
	taskRepo.On("Get", ctx, task.ID()).Return(task, nil).Once()
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	stockRepo.On("GetBySKU", ctx, "SKU-AAA").Return(stockItem, nil).Once()
	stockRepo.On("Update", ctx, stockItem).Return(nil).Once()
	taskRepo.On("Update", ctx, task).Return(nil).Once()
	orderRepo.On("Update", ctx, aggregate).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockAssemblyUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCompleteAssemblyTaskCommandHandler(factory, keyedmutex.New())
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, order.InAssembly, aggregate.Status())
	require.True(t, done.IsAssembled())
	require.False(t, open.IsAssembled())
}

func TestCompleteAssemblyTaskCommandHandler_Handle_PendingTaskRejected(t *testing.T) {
	ctx := t.Context()
	item := fixtureItem(t, "SKU-100", 1)
	aggregate := fixtureOrder(t, order.InAssembly, item)
	task, err := assembly.NewTask(kernel.NewUUID(), aggregate.ID(), item.ID(), item.SKU(), aggregate.Priority())
	require.NoError(t, err)

	cmd, err := commands.NewCompleteAssemblyTaskCommand(task.ID())
	require.NoError(t, err)

	taskRepo := new(MockAssemblyTaskRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("AssemblyTaskRepository").Return(taskRepo).Once(),
		taskRepo.On("Get", ctx, task.ID()).Return(task, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockAssemblyUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCompleteAssemblyTaskCommandHandler(factory, keyedmutex.New())
	require.Error(t, h.Handle(ctx, cmd))
	require.Equal(t, assembly.Pending, task.Status())
}
