package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command so concurrent
// operations stay isolated.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary over the repositories.
// Cross-entity invariants (reservation plus task creation, delivery
// outcome plus order transition) commit atomically through it, and domain
// events recorded by tracked aggregates are published after a successful
// commit.
type UnitOfWork interface {
	// Begin starts a database transaction.
	Begin(ctx context.Context) error

	// Commit commits the transaction and publishes the domain events of
	// all aggregates saved through the bound repositories.
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction; a no-op after Commit.
	Rollback(ctx context.Context) error

	// StockRepository returns a StockRepository bound to the transaction.
	StockRepository() StockRepository

	// OrderRepository returns an OrderRepository bound to the transaction.
	OrderRepository() OrderRepository

	// AssemblyTaskRepository returns an AssemblyTaskRepository bound to the transaction.
	AssemblyTaskRepository() AssemblyTaskRepository

	// DriverRepository returns a DriverRepository bound to the transaction.
	DriverRepository() DriverRepository

	// RouteRepository returns a RouteRepository bound to the transaction.
	RouteRepository() RouteRepository

	// DeliveryRepository returns a DeliveryRepository bound to the transaction.
	DeliveryRepository() DeliveryRepository

	// NotificationTaskRepository returns a NotificationTaskRepository bound to the transaction.
	NotificationTaskRepository() NotificationTaskRepository
}
