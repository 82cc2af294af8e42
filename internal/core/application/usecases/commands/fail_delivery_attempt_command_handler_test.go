package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fixtureDelivery(t *testing.T, orderID kernel.UUID, attempt int, status delivery.Status) *delivery.Delivery {
	t.Helper()
	routeID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	load, err := kernel.NewLoad(1000, 2000, 2)
	require.NoError(t, err)
	d, err := delivery.RestoreDelivery(
		kernel.NewUUID(), orderID,
		&routeID, &driverID,
		fixtureAddress(t), fixtureWindow(t), load,
		false, false, attempt, status,
		"", delivery.Proof{}, nil,
	)
	require.NoError(t, err)
	return d
}

func TestFailDeliveryAttemptCommandHandler_Handle_ReschedulesWithSuccessor(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.OutForDelivery)
	d := fixtureDelivery(t, aggregate.ID(), 1, delivery.InTransit)
	cmd, err := commands.NewFailDeliveryAttemptCommand(d.ID(), "customer absent")
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	orderRepo := new(MockOrderRepository)
	taskRepo := new(MockNotificationTaskRepository)
	directory := new(MockCustomerDirectory)
	uow := new(MockUoW)

	var successor *delivery.Delivery
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		deliveryRepo.On("Update", ctx, d).Return(nil).Once(),
		deliveryRepo.On("Add", mock.Anything, mock.AnythingOfType("*delivery.Delivery")).
			Run(func(args mock.Arguments) { successor = args.Get(1).(*delivery.Delivery) }).
			Return(nil).Once(),
		uow.On("NotificationTaskRepository").Return(taskRepo).Once(),
		directory.On("GetContact", ctx, aggregate.CustomerID()).Return(fixtureContact(aggregate), nil).Once(),
		taskRepo.On("Add", mock.Anything, mock.AnythingOfType("*notification.Task")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewFailDeliveryAttemptCommandHandler(factory, directory, 3, 3)
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, delivery.Rescheduled, d.Status())
	require.Equal(t, order.OutForDelivery, aggregate.Status())

	require.NotNil(t, successor)
	require.Equal(t, 2, successor.Attempt())
	require.Equal(t, delivery.Scheduled, successor.Status())
	require.Equal(t, aggregate.ID(), successor.OrderID())
	require.Nil(t, successor.RouteID())

	uow.AssertExpectations(t)
	deliveryRepo.AssertExpectations(t)
}

func TestFailDeliveryAttemptCommandHandler_Handle_ExhaustedAttemptsFailOrder(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.OutForDelivery)
	d := fixtureDelivery(t, aggregate.ID(), 3, delivery.Arrived)
	cmd, err := commands.NewFailDeliveryAttemptCommand(d.ID(), "refused at door")
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	orderRepo := new(MockOrderRepository)
	taskRepo := new(MockNotificationTaskRepository)
	directory := new(MockCustomerDirectory)
	uow := new(MockUoW)

	var sent *notification.Task
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		deliveryRepo.On("Update", ctx, d).Return(nil).Once(),
		orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("NotificationTaskRepository").Return(taskRepo).Once(),
		directory.On("GetContact", ctx, aggregate.CustomerID()).Return(fixtureContact(aggregate), nil).Once(),
		taskRepo.On("Add", mock.Anything, mock.AnythingOfType("*notification.Task")).
			Run(func(args mock.Arguments) { sent = args.Get(1).(*notification.Task) }).
			Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewFailDeliveryAttemptCommandHandler(factory, directory, 3, 3)
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, delivery.Failed, d.Status())
	require.Equal(t, "refused at door", d.FailureReason())
	require.Equal(t, order.Failed, aggregate.Status())

	require.NotNil(t, sent)
	require.Equal(t, commands.MessageOrderFailed, sent.MessageType())

	uow.AssertExpectations(t)
	deliveryRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
}

func TestFailDeliveryAttemptCommandHandler_Handle_NotEnRouteRejected(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.ReadyForDelivery)
	d := fixtureDelivery(t, aggregate.ID(), 1, delivery.Assigned)
	cmd, err := commands.NewFailDeliveryAttemptCommand(d.ID(), "customer absent")
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	orderRepo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewFailDeliveryAttemptCommandHandler(factory, new(MockCustomerDirectory), 3, 3)
	require.Error(t, h.Handle(ctx, cmd))
	require.Equal(t, delivery.Assigned, d.Status())
}
