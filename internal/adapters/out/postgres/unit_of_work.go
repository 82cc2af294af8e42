// Package postgres provides the GORM-based implementation of the Unit of
// Work pattern. The unit of work maintains the list of aggregates touched
// by one business transaction and coordinates writing out their changes
// atomically.
//
// On top of transaction management it carries the domain-event pipeline:
// every repository obtained from a unit of work tracks the aggregates it
// persists, and a successful Commit drains their recorded transition
// events and hands them to the configured EventPublisher. Publishing is
// best effort; the database transaction is already committed at that
// point, so a publish failure is logged instead of being turned into a
// rollback.
//
// Basic usage:
//
//	factory := NewGormUnitOfWorkFactory(db, publisher, logger)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() { _ = uow.Rollback(ctx) }()
//
//	if err := uow.OrderRepository().Add(ctx, aggregate); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Each unit of work instance is single-use and not safe for concurrent
// access; concurrent operations must each create their own instance.
package postgres

import (
	"context"
	"log/slog"

	"fulfillment/internal/adapters/out/postgres/assemblyrepo"
	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/adapters/out/postgres/driverrepo"
	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/routerepo"
	"fulfillment/internal/adapters/out/postgres/stockrepo"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate represents an aggregate persisted during the unit of
// work, held until its events are drained after commit.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// eventSource is satisfied by aggregates embedding kernel.EventRecorder.
type eventSource interface {
	DrainEvents() []kernel.DomainEvent
}

// GormUnitOfWorkFactory creates UnitOfWork instances over one GORM
// database connection. Each business operation gets a fresh instance with
// its own transaction state and aggregate tracking.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work
// instances. The publisher receives the domain events of all tracked
// aggregates after each successful commit; it may be nil, in which case
// events are drained and discarded.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.EventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, publisher: publisher, logger: logger}
}

// Create produces a new UnitOfWork ready for one business transaction.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates a database transaction across the fulfillment
// repositories and tracks the aggregates persisted through them so their
// domain events can be published after commit.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.EventPublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin initiates the database transaction. Repeated calls on the same
// instance are no-ops and never create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the transaction, then drains
// and publishes the domain events of every tracked aggregate. After commit
// the transaction is closed and the instance cannot be reused.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		return err
	}

	uow.publishEvents(ctx)
	return nil
}

// Rollback discards all changes made within the transaction. A no-op error
// (gorm.ErrInvalidTransaction) is returned when no transaction is open,
// which makes deferred rollback after Commit safe to ignore.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// publishEvents drains the transition events of all tracked aggregates and
// hands them to the publisher. The transaction is already committed, so a
// publish failure is logged and swallowed.
func (uow *GormUnitOfWork) publishEvents(ctx context.Context) {
	events := make([]kernel.DomainEvent, 0)
	for _, tracked := range uow.trackedAggregates {
		source, ok := tracked.Aggregate.(eventSource)
		if !ok {
			continue
		}
		events = append(events, source.DrainEvents()...)
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]

	if len(events) == 0 || uow.publisher == nil {
		return
	}

	if err := uow.publisher.Publish(ctx, events); err != nil && uow.logger != nil {
		uow.logger.Warn("publishing domain events after commit failed",
			"events", len(events),
			"cause", err.Error())
	}
}

// connection returns the transaction when one is open, otherwise the main
// database connection for immediate execution.
func (uow *GormUnitOfWork) connection() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

// StockRepository provides stock-ledger persistence bound to the current
// transaction. The ledger carries no domain events, so no tracking occurs.
func (uow *GormUnitOfWork) StockRepository() ports.StockRepository {
	return stockrepo.NewGormStockRepository(uow.connection())
}

// OrderRepository provides order persistence bound to the current
// transaction. Persisted orders are tracked for event publishing.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.connection(), uow)
}

// AssemblyTaskRepository provides assembly-task persistence bound to the
// current transaction. Persisted tasks are tracked for event publishing.
func (uow *GormUnitOfWork) AssemblyTaskRepository() ports.AssemblyTaskRepository {
	return assemblyrepo.NewGormAssemblyTaskRepository(uow.connection(), uow)
}

// DriverRepository provides driver persistence bound to the current
// transaction.
func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.connection())
}

// RouteRepository provides route persistence bound to the current
// transaction. Persisted routes are tracked for event publishing.
func (uow *GormUnitOfWork) RouteRepository() ports.RouteRepository {
	return routerepo.NewGormRouteRepository(uow.connection(), uow)
}

// DeliveryRepository provides delivery persistence bound to the current
// transaction. Persisted deliveries are tracked for event publishing.
func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.connection(), uow)
}

// NotificationTaskRepository provides notification-task persistence bound
// to the current transaction. Persisted tasks are tracked for event
// publishing.
func (uow *GormUnitOfWork) NotificationTaskRepository() ports.NotificationTaskRepository {
	return notificationrepo.NewGormNotificationTaskRepository(uow.connection(), uow)
}

// TrackAggregate registers an aggregate persisted within this unit of
// work. Repository implementations call it on Add and Update; the tracked
// aggregates feed event publishing after commit.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}
