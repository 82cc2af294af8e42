package commands_test

import (
	"errors"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	orderID := kernel.NewUUID()
	customerID := kernel.NewUUID()
	from := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	cmd, err := commands.NewCreateOrderCommand(
		orderID, customerID, order.PriorityNormal, from, from.Add(4*time.Hour), validLines())
	require.NoError(t, err)

	contact := ports.CustomerContact{
		CustomerID:       customerID,
		Name:             "Jesse",
		PreferredChannel: notification.ChannelSMS,
		Phone:            "+31600000001",
	}

	directory := new(MockCustomerDirectory)
	orderRepo := new(MockOrderRepository)
	taskRepo := new(MockNotificationTaskRepository)
	uow := new(MockUoW)

	var created *order.Order
	var enqueued *notification.Task
	mock.InOrder(
		directory.On("GetAddress", ctx, customerID).Return(fixtureAddress(t), nil).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", mock.Anything, mock.AnythingOfType("*order.Order")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*order.Order) }).
			Return(nil).Once(),
		uow.On("NotificationTaskRepository").Return(taskRepo).Once(),
		directory.On("GetContact", ctx, customerID).Return(contact, nil).Once(),
		taskRepo.On("Add", mock.Anything, mock.AnythingOfType("*notification.Task")).
			Run(func(args mock.Arguments) { enqueued = args.Get(1).(*notification.Task) }).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockIntakeUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, directory, 3)
	require.NoError(t, h.Handle(ctx, cmd))

	require.NotNil(t, created)
	require.Equal(t, order.Validated, created.Status())
	require.Len(t, created.Items(), 1)

	require.NotNil(t, enqueued)
	require.Equal(t, orderID, enqueued.OrderID())
	require.Equal(t, notification.ChannelSMS, enqueued.Channel())
	require.Equal(t, commands.MessageOrderReceived, enqueued.MessageType())

	orderRepo.AssertExpectations(t)
	taskRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
	directory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	h := commands.NewCreateOrderCommandHandler(new(MockIntakeUoWFactory), new(MockCustomerDirectory), 3)
	err := h.Handle(t.Context(), commands.CreateOrderCommand{})
	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}

func TestCreateOrderCommandHandler_Handle_AddressLookupError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), order.PriorityNormal, time.Time{}, time.Time{}, validLines())
	require.NoError(t, err)

	directory := new(MockCustomerDirectory)
	directory.On("GetAddress", ctx, mock.Anything).
		Return(kernel.Address{}, errors.New("directory unavailable")).Once()

	h := commands.NewCreateOrderCommandHandler(new(MockIntakeUoWFactory), directory, 3)
	require.Error(t, h.Handle(ctx, cmd))
	directory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	customerID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), customerID, order.PriorityNormal, time.Time{}, time.Time{}, validLines())
	require.NoError(t, err)

	directory := new(MockCustomerDirectory)
	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		directory.On("GetAddress", ctx, customerID).Return(fixtureAddress(t), nil).Once(),
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Add", mock.Anything, mock.Anything).Return(errors.New("insert failed")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockIntakeUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreateOrderCommandHandler(factory, directory, 3)
	require.Error(t, h.Handle(ctx, cmd))
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}
