package commands_test

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixtureNotificationTask(t *testing.T, channel notification.Channel, retryCount, maxRetries int) *notification.Task {
	t.Helper()
	task, err := notification.RestoreTask(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		channel, commands.MessageOrderReceived, "Hi Jesse, we received your order.",
		notification.Pending, retryCount, maxRetries,
		time.Date(2026, 9, 14, 8, 0, 0, 0, time.UTC),
		"", "",
	)
	require.NoError(t, err)
	return task
}

func TestDispatchNotificationsCommandHandler_Handle_MixedBatch(t *testing.T) {
	ctx := t.Context()
	sendable := fixtureNotificationTask(t, notification.ChannelSMS, 0, 3)
	flaky := fixtureNotificationTask(t, notification.ChannelEmail, 1, 3)
	exhausted := fixtureNotificationTask(t, notification.ChannelEmail, 3, 3)
	cmd, err := commands.NewDispatchNotificationsCommand(50)
	require.NoError(t, err)

	contact := ports.CustomerContact{
		CustomerID:       sendable.CustomerID(),
		Name:             "Jesse",
		PreferredChannel: notification.ChannelSMS,
		Phone:            "+31600000001",
		Email:            "jesse@example.com",
	}

	taskRepo := new(MockNotificationTaskRepository)
	directory := new(MockCustomerDirectory)
	sms := &MockTransportProvider{channel: notification.ChannelSMS}
	email := &MockTransportProvider{channel: notification.ChannelEmail}
	uow := new(MockUoW)

	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("NotificationTaskRepository").Return(taskRepo).Once()
	taskRepo.On("GetAllDue", ctx, mock.AnythingOfType("time.Time"), 50).
		Return([]*notification.Task{sendable, flaky, exhausted}, nil).Once()
	directory.On("GetContact", ctx, mock.Anything).Return(contact, nil).Times(3)
	sms.On("Send", ctx, contact, sendable).Return("prov-msg-1", nil).Once()
	email.On("Send", ctx, contact, flaky).Return("", errors.New("smtp timeout")).Once()
	email.On("Send", ctx, contact, exhausted).Return("", errors.New("smtp timeout")).Once()
	taskRepo.On("Update", ctx, sendable).Return(nil).Once()
	taskRepo.On("Update", ctx, flaky).Return(nil).Once()
	taskRepo.On("Update", ctx, exhausted).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockNotificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDispatchNotificationsCommandHandler(
		factory, directory,
		[]ports.TransportProvider{sms, email},
		30*time.Second, discardLogger(),
	)
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Equal(t, 1, result.Sent)
	require.Equal(t, 1, result.Retried)
	require.Equal(t, 1, result.Failed)

	require.Equal(t, notification.Sent, sendable.Status())
	require.Equal(t, "prov-msg-1", sendable.ExternalID())

	// One failure with budget left: back to pending with doubled backoff.
	require.Equal(t, notification.Pending, flaky.Status())
	require.Equal(t, 2, flaky.RetryCount())
	require.Equal(t, "smtp timeout", flaky.LastError())

	require.Equal(t, notification.Failed, exhausted.Status())

	uow.AssertExpectations(t)
	taskRepo.AssertExpectations(t)
	sms.AssertExpectations(t)
	email.AssertExpectations(t)
}

func TestDispatchNotificationsCommandHandler_Handle_MissingProviderCountsAsFailure(t *testing.T) {
	ctx := t.Context()
	task := fixtureNotificationTask(t, notification.ChannelPush, 0, 2)
	cmd, err := commands.NewDispatchNotificationsCommand(10)
	require.NoError(t, err)

	taskRepo := new(MockNotificationTaskRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("NotificationTaskRepository").Return(taskRepo).Once()
	taskRepo.On("GetAllDue", ctx, mock.AnythingOfType("time.Time"), 10).
		Return([]*notification.Task{task}, nil).Once()
	taskRepo.On("Update", ctx, task).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockNotificationUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDispatchNotificationsCommandHandler(
		factory, new(MockCustomerDirectory), nil, 30*time.Second, discardLogger())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Equal(t, 1, result.Retried)
	require.Equal(t, notification.Pending, task.Status())
	require.Equal(t, 1, task.RetryCount())
	require.Contains(t, task.LastError(), "no transport provider")
}

func TestNewDispatchNotificationsCommand_RejectsNonPositiveLimit(t *testing.T) {
	_, err := commands.NewDispatchNotificationsCommand(0)
	require.Error(t, err)

	_, err = commands.NewDispatchNotificationsCommand(-5)
	require.Error(t, err)
}
