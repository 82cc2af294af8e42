package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

// ErrGetPendingDeliveriesQueryIsNotConstructed is returned when the query
// bypassed its constructor.
var ErrGetPendingDeliveriesQueryIsNotConstructed = errors.New(
	"GetPendingDeliveriesQuery must be created via NewGetPendingDeliveriesQuery constructor",
)

// GetPendingDeliveriesQuery retrieves the delivery backlog: scheduled
// deliveries (pooled and ad hoc) that no started route carries yet. The
// backlog is what the next planning run will try to place.
//
// Example:
//
//	query := NewGetPendingDeliveriesQuery()
//	handler := NewGetPendingDeliveriesQueryHandler(db)
//
//	backlog, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get delivery backlog: %w", err)
//	}
type GetPendingDeliveriesQuery struct {
	guard guard.ConstructorGuard
}

// NewGetPendingDeliveriesQuery creates a query for the delivery backlog.
func NewGetPendingDeliveriesQuery() GetPendingDeliveriesQuery {
	return GetPendingDeliveriesQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetPendingDeliveriesQuery) Validate() error {
	return q.guard.Validate(ErrGetPendingDeliveriesQueryIsNotConstructed)
}

// GetPendingDeliveriesQueryResponse represents one waiting delivery.
// WindowFrom and WindowTo are nil for unscheduled deliveries.
type GetPendingDeliveriesQueryResponse struct {
	ID         kernel.UUID
	OrderID    kernel.UUID
	Street     string
	City       string
	Attempt    int
	AdHoc      bool
	WindowFrom *time.Time
	WindowTo   *time.Time
}
