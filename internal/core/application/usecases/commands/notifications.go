package commands

import (
	"context"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
)

// Message types of the customer-facing transitions. Each maps to a payload
// template rendered at enqueue time.
const (
	MessageOrderReceived       = "order_received"
	MessageOrderOutForDelivery = "order_out_for_delivery"
	MessageOrderDelivered      = "order_delivered"
	MessageOrderFailed         = "order_failed"
	MessageOrderCancelled      = "order_cancelled"
	MessageOrderReturned       = "order_returned"
	MessageDeliveryRescheduled = "delivery_rescheduled"
)

func renderMessage(messageType, customerName string) string {
	templates := map[string]string{
		MessageOrderReceived:       "Hi %s, we received your order and started preparing it.",
		MessageOrderOutForDelivery: "Hi %s, your order is out for delivery.",
		MessageOrderDelivered:      "Hi %s, your order was delivered. Thank you!",
		MessageOrderFailed:         "Hi %s, we could not deliver your order. Our team will contact you.",
		MessageOrderCancelled:      "Hi %s, your order was cancelled.",
		MessageOrderReturned:       "Hi %s, your order is on its way back to us.",
		MessageDeliveryRescheduled: "Hi %s, we missed you today and rescheduled your delivery.",
	}
	if tpl, ok := templates[messageType]; ok {
		return fmt.Sprintf(tpl, customerName)
	}
	return fmt.Sprintf("Hi %s, there is an update on your order.", customerName)
}

// enqueueNotification creates a pending notification task on the customer's
// preferred channel inside the caller's transaction. Dispatch and retries
// happen asynchronously in the dispatch sweep.
func enqueueNotification(
	ctx context.Context,
	directory ports.CustomerDirectory,
	repo ports.NotificationTaskRepository,
	orderID, customerID kernel.UUID,
	messageType string,
	maxRetries int,
) error {
	contact, err := directory.GetContact(ctx, customerID)
	if err != nil {
		return err
	}

	task, err := notification.NewTask(
		kernel.NewUUID(),
		orderID,
		customerID,
		contact.PreferredChannel,
		messageType,
		renderMessage(messageType, contact.Name),
		maxRetries,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	return repo.Add(ctx, task)
}
