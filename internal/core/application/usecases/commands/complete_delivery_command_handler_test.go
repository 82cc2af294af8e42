package commands_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewCompleteDeliveryCommand_RequiresProof(t *testing.T) {
	d := fixtureDelivery(t, fixtureOrder(t, order.OutForDelivery).ID(), 1, delivery.Arrived)
	at := time.Date(2026, 9, 14, 11, 30, 0, 0, time.UTC)

	_, err := commands.NewCompleteDeliveryCommand(d.ID(), delivery.ProofNone, "", at)
	require.Error(t, err)

	_, err = commands.NewCompleteDeliveryCommand(d.ID(), delivery.ProofSignature, "", at)
	require.Error(t, err)

	_, err = commands.NewCompleteDeliveryCommand(d.ID(), delivery.ProofSignature, "sig-123", time.Time{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	cmd, err := commands.NewCompleteDeliveryCommand(d.ID(), delivery.ProofPhoto, "photo-456", at)
	require.NoError(t, err)
	require.Equal(t, at, cmd.DeliveredAt())
}

func TestCompleteDeliveryCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.OutForDelivery)
	d := fixtureDelivery(t, aggregate.ID(), 1, delivery.Arrived)
	at := time.Date(2026, 9, 14, 11, 30, 0, 0, time.UTC)
	cmd, err := commands.NewCompleteDeliveryCommand(d.ID(), delivery.ProofSignature, "sig-123", at)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	orderRepo := new(MockOrderRepository)
	taskRepo := new(MockNotificationTaskRepository)
	directory := new(MockCustomerDirectory)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once(),
		deliveryRepo.On("Update", ctx, d).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		orderRepo.On("Update", ctx, aggregate).Return(nil).Once(),
		uow.On("NotificationTaskRepository").Return(taskRepo).Once(),
		directory.On("GetContact", ctx, aggregate.CustomerID()).Return(fixtureContact(aggregate), nil).Once(),
		taskRepo.On("Add", mock.Anything, mock.AnythingOfType("*notification.Task")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCompleteDeliveryCommandHandler(factory, directory, 3)
	require.NoError(t, h.Handle(ctx, cmd))

	require.Equal(t, delivery.Delivered, d.Status())
	require.Equal(t, order.Delivered, aggregate.Status())
	require.NotNil(t, d.DeliveredAt())
	require.Equal(t, at, *d.DeliveredAt())
	require.False(t, d.ProofOfDelivery().IsZero())

	uow.AssertExpectations(t)
	deliveryRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	taskRepo.AssertExpectations(t)
}

func TestCompleteDeliveryCommandHandler_Handle_BeforeArrivalRejected(t *testing.T) {
	ctx := t.Context()
	aggregate := fixtureOrder(t, order.OutForDelivery)
	d := fixtureDelivery(t, aggregate.ID(), 1, delivery.InTransit)
	at := time.Date(2026, 9, 14, 11, 30, 0, 0, time.UTC)
	cmd, err := commands.NewCompleteDeliveryCommand(d.ID(), delivery.ProofSignature, "sig-123", at)
	require.NoError(t, err)

	deliveryRepo := new(MockDeliveryRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("DeliveryRepository").Return(deliveryRepo).Once(),
		deliveryRepo.On("Get", ctx, d.ID()).Return(d, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDeliveryUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCompleteDeliveryCommandHandler(factory, new(MockCustomerDirectory), 3)
	require.ErrorIs(t, h.Handle(ctx, cmd), errs.ErrInvalidTransition)
	require.Equal(t, delivery.InTransit, d.Status())
}
