// Package ports defines the contracts between the core and its adapters:
// repositories, the unit of work, the event publisher and the external
// collaborator gateways. Infrastructure implements these interfaces,
// enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/assembly"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/core/domain/model/stock"
)

// StockRepository is the persistence contract for the stock ledger.
type StockRepository interface {
	// Add persists a new stock item.
	Add(ctx context.Context, item *stock.Item) error

	// Update persists counter changes to an existing stock item.
	Update(ctx context.Context, item *stock.Item) error

	// GetBySKU retrieves a stock item by SKU.
	GetBySKU(ctx context.Context, sku string) (*stock.Item, error)
}

// OrderRepository is the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order with its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order and its items.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with all its items.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllOnHold retrieves orders parked for backorder retry, oldest first.
	GetAllOnHold(ctx context.Context) ([]*order.Order, error)

	// GetAllReadyForDelivery retrieves route-planning candidates: orders in
	// ReadyForDelivery status that have no active delivery yet.
	GetAllReadyForDelivery(ctx context.Context) ([]*order.Order, error)
}

// AssemblyTaskRepository is the persistence contract for assembly tasks.
type AssemblyTaskRepository interface {
	// Add persists a new assembly task.
	Add(ctx context.Context, task *assembly.Task) error

	// Update persists changes to an existing task. Implementations must
	// guard the Pending to InProgress transition with a conditional update
	// so concurrent claims lose with ErrConcurrencyConflict.
	Update(ctx context.Context, task *assembly.Task) error

	// Get retrieves a task by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*assembly.Task, error)

	// GetAllByOrder retrieves every task of an order.
	GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*assembly.Task, error)
}

// DriverRepository is the persistence contract for drivers.
type DriverRepository interface {
	// Add persists a new driver.
	Add(ctx context.Context, d *driver.Driver) error

	// Update persists changes to an existing driver.
	Update(ctx context.Context, d *driver.Driver) error

	// Get retrieves a driver by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// GetAllAvailable retrieves drivers of a team that are available and
	// not yet booked on a route for the given date.
	GetAllAvailable(ctx context.Context, team string, date time.Time) ([]*driver.Driver, error)
}

// RouteRepository is the persistence contract for routes.
type RouteRepository interface {
	// Add persists a new route with its stops.
	Add(ctx context.Context, r *route.Route) error

	// Update persists changes to an existing route and its stop order.
	Update(ctx context.Context, r *route.Route) error

	// Get retrieves a route with its stops in driving order.
	Get(ctx context.Context, id kernel.UUID) (*route.Route, error)
}

// DeliveryRepository is the persistence contract for deliveries.
type DeliveryRepository interface {
	// Add persists a new delivery attempt.
	Add(ctx context.Context, d *delivery.Delivery) error

	// Update persists changes to an existing delivery.
	Update(ctx context.Context, d *delivery.Delivery) error

	// Get retrieves a delivery by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error)

	// GetAllPooled retrieves batch-planning candidates: deliveries in
	// Scheduled status with no route attached.
	GetAllPooled(ctx context.Context) ([]*delivery.Delivery, error)

	// GetActiveByOrder retrieves the order's active (non-terminal)
	// delivery, or ErrObjectNotFound when none exists. At most one active
	// delivery per order may exist at a time.
	GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)

	// GetAllByRoute retrieves the deliveries riding a route.
	GetAllByRoute(ctx context.Context, routeID kernel.UUID) ([]*delivery.Delivery, error)
}

// NotificationTaskRepository is the persistence contract for notification tasks.
type NotificationTaskRepository interface {
	// Add persists a new notification task.
	Add(ctx context.Context, task *notification.Task) error

	// Update persists changes to an existing task.
	Update(ctx context.Context, task *notification.Task) error

	// Get retrieves a task by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*notification.Task, error)

	// GetAllDue retrieves pending tasks whose next attempt time has
	// passed, capped at limit.
	GetAllDue(ctx context.Context, now time.Time, limit int) ([]*notification.Task, error)
}
