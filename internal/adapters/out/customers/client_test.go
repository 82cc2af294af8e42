package customers_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment/internal/adapters/out/customers"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_GetContact(t *testing.T) {
	customerID := kernel.NewUUID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/customers/"+customerID.String(), r.URL.Path)
		fmt.Fprintf(w, `{
			"id": %q,
			"name": "Jamie Vos",
			"preferred_channel": "email",
			"phone": "+31600000001",
			"email": "jamie@example.com",
			"street": "12 Dockside Rd",
			"city": "Rotterdam",
			"postal_code": "3011",
			"latitude": 51.92,
			"longitude": 4.48
		}`, customerID.String())
	}))
	defer server.Close()

	client, err := customers.NewClient(server.URL)
	require.NoError(t, err)

	contact, err := client.GetContact(context.Background(), customerID)
	require.NoError(t, err)

	assert.Equal(t, customerID, contact.CustomerID)
	assert.Equal(t, "Jamie Vos", contact.Name)
	assert.Equal(t, notification.ChannelEmail, contact.PreferredChannel)
	assert.Equal(t, "jamie@example.com", contact.Email)
}

func TestClient_GetAddress(t *testing.T) {
	customerID := kernel.NewUUID()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"name": "Jamie Vos",
			"preferred_channel": "sms",
			"street": "12 Dockside Rd",
			"city": "Rotterdam",
			"postal_code": "3011",
			"latitude": 51.92,
			"longitude": 4.48
		}`)
	}))
	defer server.Close()

	client, err := customers.NewClient(server.URL)
	require.NoError(t, err)

	addr, err := client.GetAddress(context.Background(), customerID)
	require.NoError(t, err)

	assert.Equal(t, "12 Dockside Rd", addr.Street())
	assert.Equal(t, "Rotterdam", addr.City())
	assert.InDelta(t, 51.92, addr.Latitude(), 0.001)
}

func TestClient_CustomerNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client, err := customers.NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.GetContact(context.Background(), kernel.NewUUID())
	require.Error(t, err)

	var notFound *errs.ObjectNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestClient_UnknownChannel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name": "Jamie Vos", "preferred_channel": "fax"}`)
	}))
	defer server.Close()

	client, err := customers.NewClient(server.URL)
	require.NoError(t, err)

	_, err = client.GetContact(context.Background(), kernel.NewUUID())
	require.Error(t, err)
}
