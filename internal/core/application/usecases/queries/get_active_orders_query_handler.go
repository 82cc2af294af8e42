package queries

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler retrieves the active order workload from
// the database. Reads go straight to SQL, bypassing the aggregates; the
// response carries display-ready status and priority names.
//
// Example:
//
//	handler := NewGetActiveOrdersQueryHandler(db)
//	query := NewGetActiveOrdersQuery()
//
//	activeOrders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get active orders: %v", err)
//	    return err
//	}
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetActiveOrdersQueryHandler creates a handler for active order
// queries. Requires a GORM database connection for query execution.
func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle executes the query. Orders are returned oldest first; cancelled
// line items do not count towards the item count.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetActiveOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.customer_id,
			o.status,
			o.priority,
			o.address_city,
			o.on_hold,
			o.hold_reason,
			o.backorder_attempts,
			(SELECT COUNT(*) FROM order_items i WHERE i.order_id = o.id AND i.cancelled = FALSE)
		FROM orders o
		WHERE o.status NOT IN (?, ?, ?, ?)
		ORDER BY o.created_at, o.id
	`, int(order.Delivered), int(order.Failed), int(order.Cancelled), int(order.Returned)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetActiveOrdersQueryResponse
		var id, customerID uuid.UUID
		var status, priority int

		err = rows.Scan(
			&id,
			&customerID,
			&status,
			&priority,
			&resp.City,
			&resp.OnHold,
			&resp.HoldReason,
			&resp.BackorderAttempts,
			&resp.ItemCount,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = orderID

		custID, custErr := kernel.UUIDFromBytes(customerID[:])
		if custErr != nil {
			return nil, custErr
		}
		resp.CustomerID = custID

		resp.Status = order.Status(status).String()
		resp.Priority = order.Priority(priority).String()
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
