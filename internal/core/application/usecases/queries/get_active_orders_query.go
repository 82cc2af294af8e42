package queries

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

// ErrGetActiveOrdersQueryIsNotConstructed is returned when the query
// bypassed its constructor.
var ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
	"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
)

// GetActiveOrdersQuery retrieves all orders still moving through the
// fulfillment pipeline, including orders parked on backorder hold.
// Terminal orders (delivered, failed, cancelled, returned) are excluded.
//
// Example:
//
//	query := NewGetActiveOrdersQuery()
//	handler := NewGetActiveOrdersQueryHandler(db)
//
//	orders, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get active orders: %w", err)
//	}
//
//	for _, o := range orders {
//	    fmt.Printf("%s %s (%d items)\n", o.ID, o.Status, o.ItemCount)
//	}
type GetActiveOrdersQuery struct {
	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery creates a query for the active order workload.
// This is a parameterless query that fetches all non-terminal orders.
func NewGetActiveOrdersQuery() GetActiveOrdersQuery {
	return GetActiveOrdersQuery{guard: guard.NewConstructorGuard()}
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

// GetActiveOrdersQueryResponse represents one active order in the
// pipeline with its hold state and item count.
type GetActiveOrdersQueryResponse struct {
	ID                kernel.UUID
	CustomerID        kernel.UUID
	Status            string
	Priority          string
	City              string
	OnHold            bool
	HoldReason        string
	BackorderAttempts int
	ItemCount         int
}
