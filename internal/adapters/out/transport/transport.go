// Package transport implements the outbound notification providers. Each
// provider posts a rendered message to an external gateway over HTTP and
// returns the gateway's message identifier. Providers never retry; the
// dispatcher owns the retry policy and reads failures as transport errors.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

const gatewayTimeout = 10 * time.Second

// gatewayClient posts messages to one external gateway endpoint.
type gatewayClient struct {
	httpClient *http.Client
	url        string
	apiKey     string
}

func newGatewayClient(url, apiKey string) gatewayClient {
	return gatewayClient{
		httpClient: &http.Client{Timeout: gatewayTimeout},
		url:        url,
		apiKey:     apiKey,
	}
}

type gatewayRequest struct {
	Recipient   string `json:"recipient"`
	MessageType string `json:"message_type"`
	Body        string `json:"body"`
}

type gatewayResponse struct {
	MessageID string `json:"message_id"`
}

// send posts the payload and returns the gateway's message identifier.
func (c gatewayClient) send(ctx context.Context, recipient string, task *notification.Task) (string, error) {
	body, err := json.Marshal(gatewayRequest{
		Recipient:   recipient,
		MessageType: task.MessageType(),
		Body:        task.Payload(),
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	var parsed gatewayResponse
	if err = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode gateway response: %w", err)
	}
	if parsed.MessageID == "" {
		return "", fmt.Errorf("gateway returned no message id")
	}

	return parsed.MessageID, nil
}

// SMSProvider sends text messages through an SMS gateway.
type SMSProvider struct {
	gateway gatewayClient
}

// NewSMSProvider creates an SMS provider for the given gateway.
func NewSMSProvider(url, apiKey string) (*SMSProvider, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("url")
	}
	return &SMSProvider{gateway: newGatewayClient(url, apiKey)}, nil
}

// Channel reports the channel this provider serves.
func (p *SMSProvider) Channel() notification.Channel {
	return notification.ChannelSMS
}

// Send delivers the message to the customer's phone number.
func (p *SMSProvider) Send(ctx context.Context, recipient ports.CustomerContact, task *notification.Task) (string, error) {
	if recipient.Phone == "" {
		return "", errs.NewValueIsRequiredError("phone")
	}

	externalID, err := p.gateway.send(ctx, recipient.Phone, task)
	if err != nil {
		return "", errs.NewTransportFailureError(p.Channel().String(), err)
	}
	return externalID, nil
}

// EmailProvider sends messages through an email gateway.
type EmailProvider struct {
	gateway gatewayClient
}

// NewEmailProvider creates an email provider for the given gateway.
func NewEmailProvider(url, apiKey string) (*EmailProvider, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("url")
	}
	return &EmailProvider{gateway: newGatewayClient(url, apiKey)}, nil
}

// Channel reports the channel this provider serves.
func (p *EmailProvider) Channel() notification.Channel {
	return notification.ChannelEmail
}

// Send delivers the message to the customer's email address.
func (p *EmailProvider) Send(ctx context.Context, recipient ports.CustomerContact, task *notification.Task) (string, error) {
	if recipient.Email == "" {
		return "", errs.NewValueIsRequiredError("email")
	}

	externalID, err := p.gateway.send(ctx, recipient.Email, task)
	if err != nil {
		return "", errs.NewTransportFailureError(p.Channel().String(), err)
	}
	return externalID, nil
}

// PushProvider sends messages through a mobile push gateway.
type PushProvider struct {
	gateway gatewayClient
}

// NewPushProvider creates a push provider for the given gateway.
func NewPushProvider(url, apiKey string) (*PushProvider, error) {
	if url == "" {
		return nil, errs.NewValueIsRequiredError("url")
	}
	return &PushProvider{gateway: newGatewayClient(url, apiKey)}, nil
}

// Channel reports the channel this provider serves.
func (p *PushProvider) Channel() notification.Channel {
	return notification.ChannelPush
}

// Send delivers the message to the customer's registered device.
func (p *PushProvider) Send(ctx context.Context, recipient ports.CustomerContact, task *notification.Task) (string, error) {
	if recipient.PushToken == "" {
		return "", errs.NewValueIsRequiredError("push token")
	}

	externalID, err := p.gateway.send(ctx, recipient.PushToken, task)
	if err != nil {
		return "", errs.NewTransportFailureError(p.Channel().String(), err)
	}
	return externalID, nil
}
