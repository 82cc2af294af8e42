package queries_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres/deliveryrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/routerepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/route"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type mockAggregateTracker struct{}

func (m *mockAggregateTracker) TrackAggregate(_ kernel.UUID, _ any) {}

type QueryHandlersTestSuite struct {
	suite.Suite
	container    *postgres.PostgresContainer
	db           *gorm.DB
	orderRepo    *orderrepo.GormOrderRepository
	deliveryRepo *deliveryrepo.GormDeliveryRepository
	routeRepo    *routerepo.GormRouteRepository
}

func (suite *QueryHandlersTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{}, &orderrepo.ItemDTO{},
		&deliveryrepo.DeliveryDTO{},
		&routerepo.RouteDTO{}, &routerepo.StopDTO{},
	)
	suite.Require().NoError(err)

	tracker := &mockAggregateTracker{}
	suite.orderRepo = orderrepo.NewGormOrderRepository(db, tracker)
	suite.deliveryRepo = deliveryrepo.NewGormDeliveryRepository(db, tracker)
	suite.routeRepo = routerepo.NewGormRouteRepository(db, tracker)
}

func (suite *QueryHandlersTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *QueryHandlersTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders, order_items, deliveries, routes, route_stops CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *QueryHandlersTestSuite) address() kernel.Address {
	addr, err := kernel.NewAddress("12 Dockside Rd", "Rotterdam", "3011", 51.92, 4.48)
	suite.Require().NoError(err)
	return addr
}

func (suite *QueryHandlersTestSuite) load() kernel.Load {
	load, err := kernel.NewLoad(500, 1000, 1)
	suite.Require().NoError(err)
	return load
}

func (suite *QueryHandlersTestSuite) addOrder(status order.Status) *order.Order {
	item, err := order.RestoreItem(
		kernel.NewUUID(), "SKU-100", 1, suite.load(), false, false, false, false, false,
	)
	suite.Require().NoError(err)

	o, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(), suite.address(), kernel.TimeWindow{},
		order.PriorityNormal, status, false, "", 0, []*order.Item{item},
	)
	suite.Require().NoError(err)

	err = suite.orderRepo.Add(context.Background(), o)
	suite.Require().NoError(err)
	return o
}

func (suite *QueryHandlersTestSuite) addDelivery(orderID kernel.UUID, status delivery.Status, attempt int) *delivery.Delivery {
	d, err := delivery.RestoreDelivery(
		kernel.NewUUID(), orderID, nil, nil, suite.address(), kernel.TimeWindow{},
		suite.load(), false, false, attempt, status, "", delivery.Proof{}, nil,
	)
	suite.Require().NoError(err)

	err = suite.deliveryRepo.Add(context.Background(), d)
	suite.Require().NoError(err)
	return d
}

func (suite *QueryHandlersTestSuite) TestGetActiveOrders() {
	active := suite.addOrder(order.Processing)
	suite.addOrder(order.Delivered)
	suite.addOrder(order.Cancelled)

	handler := queries.NewGetActiveOrdersQueryHandler(suite.db)
	result, err := handler.Handle(context.Background(), queries.NewGetActiveOrdersQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(active.ID(), result[0].ID)
	suite.Equal("Processing", result[0].Status)
	suite.Equal("Normal", result[0].Priority)
	suite.Equal("Rotterdam", result[0].City)
	suite.Equal(1, result[0].ItemCount)
}

func (suite *QueryHandlersTestSuite) TestGetActiveOrders_NotConstructed_Fails() {
	handler := queries.NewGetActiveOrdersQueryHandler(suite.db)

	_, err := handler.Handle(context.Background(), queries.GetActiveOrdersQuery{})

	suite.Require().Error(err)
}

func (suite *QueryHandlersTestSuite) TestGetPendingDeliveries_RetriesFirst() {
	orderOne := suite.addOrder(order.ReadyForDelivery)
	orderTwo := suite.addOrder(order.ReadyForDelivery)

	first := suite.addDelivery(orderOne.ID(), delivery.Scheduled, 1)
	retry := suite.addDelivery(orderTwo.ID(), delivery.Scheduled, 2)
	suite.addDelivery(suite.addOrder(order.OutForDelivery).ID(), delivery.InTransit, 1)

	handler := queries.NewGetPendingDeliveriesQueryHandler(suite.db)
	result, err := handler.Handle(context.Background(), queries.NewGetPendingDeliveriesQuery())

	suite.Require().NoError(err)
	suite.Require().Len(result, 2)
	suite.Equal(retry.ID(), result[0].ID)
	suite.Equal(2, result[0].Attempt)
	suite.Equal(first.ID(), result[1].ID)
	suite.Nil(result[0].WindowFrom)
}

func (suite *QueryHandlersTestSuite) TestGetRoutePlanSummary() {
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	capacity, err := kernel.NewLoad(100_000, 2_000_000, 50)
	suite.Require().NoError(err)

	o := suite.addOrder(order.ReadyForDelivery)
	d := suite.addDelivery(o.ID(), delivery.Scheduled, 1)

	stop := route.Stop{
		DeliveryID: d.ID(),
		OrderID:    o.ID(),
		Load:       suite.load(),
		Address:    suite.address(),
	}

	planned, err := route.RestoreRoute(
		kernel.NewUUID(), kernel.NewUUID(), "north", date, driver.VehicleVan,
		capacity, false, []route.Stop{stop}, route.Planned,
		12_000, 45, 960, 0.82, false, false,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.routeRepo.Add(context.Background(), planned))

	cancelled, err := route.RestoreRoute(
		kernel.NewUUID(), kernel.NewUUID(), "north", date, driver.VehicleVan,
		capacity, false, nil, route.Cancelled,
		0, 0, 0, 0, false, false,
	)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.routeRepo.Add(context.Background(), cancelled))

	query, err := queries.NewGetRoutePlanSummaryQuery(date, "north")
	suite.Require().NoError(err)

	handler := queries.NewGetRoutePlanSummaryQueryHandler(suite.db)
	result, err := handler.Handle(context.Background(), query)

	suite.Require().NoError(err)
	suite.Require().Len(result, 1)
	suite.Equal(planned.ID(), result[0].ID)
	suite.Equal("Planned", result[0].Status)
	suite.Equal(1, result[0].StopCount)
	suite.Equal(12_000, result[0].DistanceMeters)
	suite.Equal(960, result[0].CostCents)
	suite.InDelta(0.82, result[0].OptimizationScore, 0.0001)
}

func TestQueryHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(QueryHandlersTestSuite))
}
