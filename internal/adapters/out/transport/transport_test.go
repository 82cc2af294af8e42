package transport_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/transport"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTask(t *testing.T, channel notification.Channel) *notification.Task {
	t.Helper()

	orderID := kernel.NewUUID()
	customerID := kernel.NewUUID()

	task, err := notification.NewTask(
		kernel.NewUUID(), orderID, customerID, channel,
		"order_confirmed", "Your order is confirmed.",
		3, time.Now(),
	)
	require.NoError(t, err)
	return task
}

func testContact() ports.CustomerContact {
	return ports.CustomerContact{
		CustomerID:       kernel.NewUUID(),
		Name:             "Jamie Vos",
		PreferredChannel: notification.ChannelSMS,
		Phone:            "+31600000001",
		Email:            "jamie@example.com",
		PushToken:        "device-token-1",
	}
}

func TestSMSProvider_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message_id":"sms-42"}`))
	}))
	defer server.Close()

	provider, err := transport.NewSMSProvider(server.URL, "secret")
	require.NoError(t, err)
	assert.Equal(t, notification.ChannelSMS, provider.Channel())

	externalID, err := provider.Send(context.Background(), testContact(), testTask(t, notification.ChannelSMS))
	require.NoError(t, err)
	assert.Equal(t, "sms-42", externalID)
}

func TestSMSProvider_MissingPhone(t *testing.T) {
	provider, err := transport.NewSMSProvider("http://localhost:1", "secret")
	require.NoError(t, err)

	contact := testContact()
	contact.Phone = ""

	_, err = provider.Send(context.Background(), contact, testTask(t, notification.ChannelSMS))
	require.Error(t, err)
}

func TestEmailProvider_GatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider, err := transport.NewEmailProvider(server.URL, "secret")
	require.NoError(t, err)

	_, err = provider.Send(context.Background(), testContact(), testTask(t, notification.ChannelEmail))
	require.Error(t, err)

	var failure *errs.TransportFailureError
	assert.ErrorAs(t, err, &failure)
}

func TestPushProvider_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message_id":"push-7"}`))
	}))
	defer server.Close()

	provider, err := transport.NewPushProvider(server.URL, "secret")
	require.NoError(t, err)

	externalID, err := provider.Send(context.Background(), testContact(), testTask(t, notification.ChannelPush))
	require.NoError(t, err)
	assert.Equal(t, "push-7", externalID)
}

func TestCircuitBreakerProvider_OpensAfterConsecutiveFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	inner, err := transport.NewSMSProvider(server.URL, "secret")
	require.NoError(t, err)

	provider := transport.NewCircuitBreakerProvider(inner, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.Equal(t, notification.ChannelSMS, provider.Channel())

	contact := testContact()
	task := testTask(t, notification.ChannelSMS)

	for i := 0; i < 5; i++ {
		_, sendErr := provider.Send(context.Background(), contact, task)
		require.Error(t, sendErr)
	}

	// Circuit is open now; the gateway must not see this request.
	server.Close()
	_, err = provider.Send(context.Background(), contact, task)
	require.Error(t, err)

	var failure *errs.TransportFailureError
	assert.ErrorAs(t, err, &failure)
}
