package queries

import (
	"context"
	"database/sql"

	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetPendingDeliveriesQueryHandler retrieves the delivery backlog from
// the database with raw SQL, bypassing the aggregates.
//
// Example:
//
//	handler := NewGetPendingDeliveriesQueryHandler(db)
//	query := NewGetPendingDeliveriesQuery()
//
//	backlog, err := handler.Handle(ctx, query)
//	if err != nil {
//	    log.Printf("Failed to get delivery backlog: %v", err)
//	    return err
//	}
type GetPendingDeliveriesQueryHandler struct {
	db *gorm.DB
}

// NewGetPendingDeliveriesQueryHandler creates a handler for delivery
// backlog queries. Requires a GORM database connection for query execution.
func NewGetPendingDeliveriesQueryHandler(db *gorm.DB) GetPendingDeliveriesQueryHandler {
	return GetPendingDeliveriesQueryHandler{db: db}
}

// Handle executes the query. Deliveries with more failed attempts come
// first, matching the order in which the planner picks them up.
func (h GetPendingDeliveriesQueryHandler) Handle(
	ctx context.Context,
	query GetPendingDeliveriesQuery,
) ([]GetPendingDeliveriesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	deliveries := make([]GetPendingDeliveriesQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			d.id,
			d.order_id,
			d.street,
			d.city,
			d.attempt,
			d.ad_hoc,
			d.window_from,
			d.window_to
		FROM deliveries d
		WHERE d.status IN (?, ?) AND d.route_id IS NULL
		ORDER BY d.attempt DESC, d.id
	`, int(delivery.Scheduled), int(delivery.ScheduledAdHoc)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetPendingDeliveriesQueryResponse
		var id, orderID uuid.UUID
		var windowFrom, windowTo sql.NullTime

		err = rows.Scan(
			&id,
			&orderID,
			&resp.Street,
			&resp.City,
			&resp.Attempt,
			&resp.AdHoc,
			&windowFrom,
			&windowTo,
		)
		if err != nil {
			return nil, err
		}

		deliveryID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		resp.ID = deliveryID

		ordID, ordErr := kernel.UUIDFromBytes(orderID[:])
		if ordErr != nil {
			return nil, ordErr
		}
		resp.OrderID = ordID

		if windowFrom.Valid {
			from := windowFrom.Time
			resp.WindowFrom = &from
		}
		if windowTo.Valid {
			to := windowTo.Time
			resp.WindowTo = &to
		}

		deliveries = append(deliveries, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return deliveries, nil
}
