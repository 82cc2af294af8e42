package cmd

import (
	"fmt"
	"log/slog"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/customers"
	"fulfillment/internal/adapters/out/geo"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/transport"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/pkg/keyedmutex"

	"gorm.io/gorm"
)

// Delay before the first notification retry; doubles per failure.
const notificationBackoffBase = time.Minute

// CompositionRoot wires adapters into application handlers. All handlers
// created from one root share the process-wide lock sets, so concurrent
// commands serialize correctly on SKUs and driver-day plans.
type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	skuLocks   *keyedmutex.KeyedMutex
	planLocks  *keyedmutex.KeyedMutex
	directory  ports.CustomerDirectory
	estimator  ports.DistanceEstimator
	providers  []ports.TransportProvider
	logger     *slog.Logger
}

// NewCompositionRoot builds the root over an open database connection and
// event publisher.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) (CompositionRoot, error) {
	directory, err := customers.NewClient(config.CustomerDirectoryURL)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("customer directory: %w", err)
	}

	sms, err := transport.NewSMSProvider(config.SMSGatewayURL, config.SMSGatewayAPIKey)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("sms provider: %w", err)
	}
	email, err := transport.NewEmailProvider(config.EmailGatewayURL, config.EmailGatewayAPIKey)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("email provider: %w", err)
	}
	push, err := transport.NewPushProvider(config.PushGatewayURL, config.PushGatewayAPIKey)
	if err != nil {
		return CompositionRoot{}, fmt.Errorf("push provider: %w", err)
	}

	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		skuLocks:   keyedmutex.New(),
		planLocks:  keyedmutex.New(),
		directory:  directory,
		estimator:  geo.NewHaversineEstimator(),
		providers: []ports.TransportProvider{
			transport.NewCircuitBreakerProvider(sms, logger),
			transport.NewCircuitBreakerProvider(email, logger),
			transport.NewCircuitBreakerProvider(push, logger),
		},
		logger: logger,
	}, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.IntakeUoWFactory = FuncIntakeUoWFactory(func() commands.IntakeUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreateOrderCommandHandler(f, c.directory, c.config.MaxNotificationRetries)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.CancellationUoWFactory = FuncCancellationUoWFactory(func() commands.CancellationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.directory, c.skuLocks, c.config.MaxNotificationRetries)
}

func (c *CompositionRoot) CreateReserveOrderItemsCommandHandler() commands.ReserveOrderItemsCommandHandler {
	var f commands.ReservationUoWFactory = FuncReservationUoWFactory(func() commands.ReservationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewReserveOrderItemsCommandHandler(f, c.skuLocks, c.config.MaxBackorderAttempts)
}

func (c *CompositionRoot) CreateClaimAssemblyTaskCommandHandler() commands.ClaimAssemblyTaskCommandHandler {
	return commands.NewClaimAssemblyTaskCommandHandler(c.assemblyUoWFactory())
}

func (c *CompositionRoot) CreateCompleteAssemblyTaskCommandHandler() commands.CompleteAssemblyTaskCommandHandler {
	return commands.NewCompleteAssemblyTaskCommandHandler(c.assemblyUoWFactory(), c.skuLocks)
}

func (c *CompositionRoot) CreateReportAssemblyDefectCommandHandler() commands.ReportAssemblyDefectCommandHandler {
	return commands.NewReportAssemblyDefectCommandHandler(c.assemblyUoWFactory())
}

func (c *CompositionRoot) CreateResolveAssemblyDefectCommandHandler() commands.ResolveAssemblyDefectCommandHandler {
	return commands.NewResolveAssemblyDefectCommandHandler(c.assemblyUoWFactory(), c.skuLocks)
}

func (c *CompositionRoot) CreatePlanRoutesCommandHandler() commands.PlanRoutesCommandHandler {
	return commands.NewPlanRoutesCommandHandler(
		c.planningUoWFactory(),
		services.NewRoutePlanner(nil),
		c.estimator,
		c.planLocks,
		c.config.CostPerKmCents,
	)
}

func (c *CompositionRoot) CreateCreateAdHocDeliveryCommandHandler() commands.CreateAdHocDeliveryCommandHandler {
	return commands.NewCreateAdHocDeliveryCommandHandler(c.planningUoWFactory(), c.planLocks)
}

func (c *CompositionRoot) CreateAssignRouteCommandHandler() commands.AssignRouteCommandHandler {
	return commands.NewAssignRouteCommandHandler(c.routeExecutionUoWFactory())
}

func (c *CompositionRoot) CreateStartRouteCommandHandler() commands.StartRouteCommandHandler {
	return commands.NewStartRouteCommandHandler(c.routeExecutionUoWFactory(), c.directory, c.config.MaxNotificationRetries)
}

func (c *CompositionRoot) CreateCompleteRouteCommandHandler() commands.CompleteRouteCommandHandler {
	return commands.NewCompleteRouteCommandHandler(c.routeExecutionUoWFactory())
}

func (c *CompositionRoot) CreateCancelRouteCommandHandler() commands.CancelRouteCommandHandler {
	return commands.NewCancelRouteCommandHandler(c.routeExecutionUoWFactory())
}

func (c *CompositionRoot) CreateMarkDeliveryInTransitCommandHandler() commands.MarkDeliveryInTransitCommandHandler {
	return commands.NewMarkDeliveryInTransitCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateMarkDeliveryArrivedCommandHandler() commands.MarkDeliveryArrivedCommandHandler {
	return commands.NewMarkDeliveryArrivedCommandHandler(c.deliveryUoWFactory())
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	return commands.NewCompleteDeliveryCommandHandler(c.deliveryUoWFactory(), c.directory, c.config.MaxNotificationRetries)
}

func (c *CompositionRoot) CreateFailDeliveryAttemptCommandHandler() commands.FailDeliveryAttemptCommandHandler {
	return commands.NewFailDeliveryAttemptCommandHandler(
		c.deliveryUoWFactory(),
		c.directory,
		c.config.MaxDeliveryAttempts,
		c.config.MaxNotificationRetries,
	)
}

func (c *CompositionRoot) CreateReturnDeliveryCommandHandler() commands.ReturnDeliveryCommandHandler {
	return commands.NewReturnDeliveryCommandHandler(
		c.deliveryUoWFactory(),
		c.directory,
		c.skuLocks,
		c.config.MaxNotificationRetries,
	)
}

func (c *CompositionRoot) CreateDispatchNotificationsCommandHandler() commands.DispatchNotificationsCommandHandler {
	var f commands.NotificationUoWFactory = FuncNotificationUoWFactory(func() commands.NotificationUoW {
		return c.uowFactory.Create()
	})
	return commands.NewDispatchNotificationsCommandHandler(
		f,
		c.directory,
		c.providers,
		notificationBackoffBase,
		c.logger,
	)
}

func (c *CompositionRoot) CreateGetActiveOrdersQueryHandler() queries.GetActiveOrdersQueryHandler {
	return queries.NewGetActiveOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPendingDeliveriesQueryHandler() queries.GetPendingDeliveriesQueryHandler {
	return queries.NewGetPendingDeliveriesQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRoutePlanSummaryQueryHandler() queries.GetRoutePlanSummaryQueryHandler {
	return queries.NewGetRoutePlanSummaryQueryHandler(c.gormDB)
}

// CreateHTTPServer assembles the inbound HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:       c.CreateCreateOrderCommandHandler(),
		CancelOrder:       c.CreateCancelOrderCommandHandler(),
		ClaimTask:         c.CreateClaimAssemblyTaskCommandHandler(),
		CompleteTask:      c.CreateCompleteAssemblyTaskCommandHandler(),
		ReportDefect:      c.CreateReportAssemblyDefectCommandHandler(),
		ResolveDefect:     c.CreateResolveAssemblyDefectCommandHandler(),
		PlanRoutes:        c.CreatePlanRoutesCommandHandler(),
		CreateAdHoc:       c.CreateCreateAdHocDeliveryCommandHandler(),
		AssignRoute:       c.CreateAssignRouteCommandHandler(),
		StartRoute:        c.CreateStartRouteCommandHandler(),
		CompleteRoute:     c.CreateCompleteRouteCommandHandler(),
		CancelRoute:       c.CreateCancelRouteCommandHandler(),
		MarkInTransit:     c.CreateMarkDeliveryInTransitCommandHandler(),
		MarkArrived:       c.CreateMarkDeliveryArrivedCommandHandler(),
		CompleteDelivery:  c.CreateCompleteDeliveryCommandHandler(),
		FailDelivery:      c.CreateFailDeliveryAttemptCommandHandler(),
		ReturnDelivery:    c.CreateReturnDeliveryCommandHandler(),
		ActiveOrders:      c.CreateGetActiveOrdersQueryHandler(),
		PendingDeliveries: c.CreateGetPendingDeliveriesQueryHandler(),
		RoutePlanSummary:  c.CreateGetRoutePlanSummaryQueryHandler(),
	})
}

// CreateJobManager assembles the background jobs.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(
		jobs.NewReservationRetryJob(c.CreateReserveOrderItemsCommandHandler(), c.uowFactory, c.logger),
		jobs.NewNotificationDispatchJob(c.CreateDispatchNotificationsCommandHandler(), c.config.NotificationBatchSize, c.logger),
		jobs.NewRoutePlanningJob(c.CreatePlanRoutesCommandHandler(), c.config.Teams, c.logger),
	)
}

type FuncIntakeUoWFactory func() commands.IntakeUoW

func (f FuncIntakeUoWFactory) Create() commands.IntakeUoW {
	return f()
}

type FuncReservationUoWFactory func() commands.ReservationUoW

func (f FuncReservationUoWFactory) Create() commands.ReservationUoW {
	return f()
}

type FuncAssemblyUoWFactory func() commands.AssemblyUoW

func (f FuncAssemblyUoWFactory) Create() commands.AssemblyUoW {
	return f()
}

type FuncPlanningUoWFactory func() commands.PlanningUoW

func (f FuncPlanningUoWFactory) Create() commands.PlanningUoW {
	return f()
}

type FuncRouteExecutionUoWFactory func() commands.RouteExecutionUoW

func (f FuncRouteExecutionUoWFactory) Create() commands.RouteExecutionUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncCancellationUoWFactory func() commands.CancellationUoW

func (f FuncCancellationUoWFactory) Create() commands.CancellationUoW {
	return f()
}

type FuncNotificationUoWFactory func() commands.NotificationUoW

func (f FuncNotificationUoWFactory) Create() commands.NotificationUoW {
	return f()
}

func (c *CompositionRoot) assemblyUoWFactory() commands.AssemblyUoWFactory {
	return FuncAssemblyUoWFactory(func() commands.AssemblyUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) planningUoWFactory() commands.PlanningUoWFactory {
	return FuncPlanningUoWFactory(func() commands.PlanningUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) routeExecutionUoWFactory() commands.RouteExecutionUoWFactory {
	return FuncRouteExecutionUoWFactory(func() commands.RouteExecutionUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}
