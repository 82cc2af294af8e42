// Package customers resolves customer identifiers against the customer
// directory service. The directory owns customer records; this client only
// reads the delivery address and notification targeting data.
package customers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const requestTimeout = 5 * time.Second

// Client is an HTTP client for the customer directory service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a directory client for the given base URL.
func NewClient(baseURL string) (*Client, error) {
	if baseURL == "" {
		return nil, errs.NewValueIsRequiredError("baseURL")
	}

	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    baseURL,
	}, nil
}

type customerResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	PreferredChannel string  `json:"preferred_channel"`
	Phone            string  `json:"phone"`
	Email            string  `json:"email"`
	PushToken        string  `json:"push_token"`
	Street           string  `json:"street"`
	City             string  `json:"city"`
	PostalCode       string  `json:"postal_code"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
}

// GetAddress resolves the customer's geocoded delivery address.
func (c *Client) GetAddress(ctx context.Context, customerID kernel.UUID) (kernel.Address, error) {
	resp, err := c.getCustomer(ctx, customerID)
	if err != nil {
		return kernel.Address{}, err
	}

	return kernel.NewAddress(resp.Street, resp.City, resp.PostalCode, resp.Latitude, resp.Longitude)
}

// GetContact resolves the customer's notification targeting data.
func (c *Client) GetContact(ctx context.Context, customerID kernel.UUID) (ports.CustomerContact, error) {
	resp, err := c.getCustomer(ctx, customerID)
	if err != nil {
		return ports.CustomerContact{}, err
	}

	channel := parseChannel(resp.PreferredChannel)
	if err = channel.Validate(); err != nil {
		return ports.CustomerContact{}, err
	}

	return ports.CustomerContact{
		CustomerID:       customerID,
		Name:             resp.Name,
		PreferredChannel: channel,
		Phone:            resp.Phone,
		Email:            resp.Email,
		PushToken:        resp.PushToken,
	}, nil
}

func (c *Client) getCustomer(ctx context.Context, customerID kernel.UUID) (customerResponse, error) {
	if err := customerID.Validate(); err != nil {
		return customerResponse{}, err
	}

	url := fmt.Sprintf("%s/customers/%s", c.baseURL, customerID.String())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return customerResponse{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return customerResponse{}, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return customerResponse{}, errs.NewObjectNotFoundError("customer", customerID.String())
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return customerResponse{}, fmt.Errorf("customer directory returned status %d", resp.StatusCode)
	}

	var parsed customerResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return customerResponse{}, fmt.Errorf("failed to decode customer response: %w", err)
	}

	return parsed, nil
}

func parseChannel(name string) notification.Channel {
	switch name {
	case "sms":
		return notification.ChannelSMS
	case "email":
		return notification.ChannelEmail
	case "push":
		return notification.ChannelPush
	default:
		return notification.ChannelUnknown
	}
}
