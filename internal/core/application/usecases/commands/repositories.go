// Package commands contains the write operations of the fulfillment
// pipeline. Every handler follows the same shape: validate the command,
// open a unit of work, drive the aggregates, commit. Domain events recorded
// during the transaction are published by the unit of work after commit.
package commands

import (
	"context"

	"fulfillment/internal/core/ports"
)

// Narrow unit-of-work interfaces per handler keep each command honest about
// the aggregates it touches.
type (
	// TxManager handles the transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// StockRepoFactory provides the stock repository within a transaction.
	StockRepoFactory interface {
		StockRepository() ports.StockRepository
	}

	// OrderRepoFactory provides the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AssemblyTaskRepoFactory provides the assembly task repository within a transaction.
	AssemblyTaskRepoFactory interface {
		AssemblyTaskRepository() ports.AssemblyTaskRepository
	}

	// DriverRepoFactory provides the driver repository within a transaction.
	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	// RouteRepoFactory provides the route repository within a transaction.
	RouteRepoFactory interface {
		RouteRepository() ports.RouteRepository
	}

	// DeliveryRepoFactory provides the delivery repository within a transaction.
	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	// NotificationTaskRepoFactory provides the notification task repository within a transaction.
	NotificationTaskRepoFactory interface {
		NotificationTaskRepository() ports.NotificationTaskRepository
	}

	// IntakeUoW spans order intake: the order plus its first notification.
	IntakeUoW interface {
		TxManager
		OrderRepoFactory
		NotificationTaskRepoFactory
	}

	// IntakeUoWFactory creates intake unit of work instances.
	IntakeUoWFactory interface {
		Create() IntakeUoW
	}

	// ReservationUoW spans the reservation invariant: ledger counters, order
	// item flags and assembly task creation commit together.
	ReservationUoW interface {
		TxManager
		StockRepoFactory
		OrderRepoFactory
		AssemblyTaskRepoFactory
	}

	// ReservationUoWFactory creates reservation unit of work instances.
	ReservationUoWFactory interface {
		Create() ReservationUoW
	}

	// AssemblyUoW spans assembly progress: the task, the owning order and
	// the stock commit.
	AssemblyUoW interface {
		TxManager
		AssemblyTaskRepoFactory
		OrderRepoFactory
		StockRepoFactory
	}

	// AssemblyUoWFactory creates assembly unit of work instances.
	AssemblyUoWFactory interface {
		Create() AssemblyUoW
	}

	// PlanningUoW spans a planning run: candidate orders, pooled and new
	// deliveries, the driver pool and the produced routes.
	PlanningUoW interface {
		TxManager
		OrderRepoFactory
		DriverRepoFactory
		RouteRepoFactory
		DeliveryRepoFactory
	}

	// PlanningUoWFactory creates planning unit of work instances.
	PlanningUoWFactory interface {
		Create() PlanningUoW
	}

	// RouteExecutionUoW spans route lifecycle commands: the route, its
	// deliveries, their orders and the customer notifications.
	RouteExecutionUoW interface {
		TxManager
		RouteRepoFactory
		DeliveryRepoFactory
		OrderRepoFactory
		NotificationTaskRepoFactory
	}

	// RouteExecutionUoWFactory creates route execution unit of work instances.
	RouteExecutionUoWFactory interface {
		Create() RouteExecutionUoW
	}

	// DeliveryUoW spans delivery outcome commands: the delivery, its order,
	// compensating ledger adjustments and notifications.
	DeliveryUoW interface {
		TxManager
		DeliveryRepoFactory
		OrderRepoFactory
		StockRepoFactory
		NotificationTaskRepoFactory
	}

	// DeliveryUoWFactory creates delivery unit of work instances.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// CancellationUoW spans order cancellation: the order, its reservations,
	// its assembly tasks, its active delivery and the notification.
	CancellationUoW interface {
		TxManager
		OrderRepoFactory
		StockRepoFactory
		AssemblyTaskRepoFactory
		DeliveryRepoFactory
		NotificationTaskRepoFactory
	}

	// CancellationUoWFactory creates cancellation unit of work instances.
	CancellationUoWFactory interface {
		Create() CancellationUoW
	}

	// NotificationUoW spans the dispatch sweep.
	NotificationUoW interface {
		TxManager
		NotificationTaskRepoFactory
	}

	// NotificationUoWFactory creates notification unit of work instances.
	NotificationUoWFactory interface {
		Create() NotificationUoW
	}
)
