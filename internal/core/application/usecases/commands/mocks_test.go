package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/assembly"
	"fulfillment/internal/core/domain/model/delivery"
	"fulfillment/internal/core/domain/model/driver"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/route"
	"fulfillment/internal/core/domain/model/stock"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockStockRepository struct{ mock.Mock }

func (m *MockStockRepository) Add(ctx context.Context, item *stock.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockStockRepository) Update(ctx context.Context, item *stock.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
func (m *MockStockRepository) GetBySKU(ctx context.Context, sku string) (*stock.Item, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stock.Item), args.Error(1)
}

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}
func (m *MockOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetAllOnHold(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}
func (m *MockOrderRepository) GetAllReadyForDelivery(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockAssemblyTaskRepository struct{ mock.Mock }

func (m *MockAssemblyTaskRepository) Add(ctx context.Context, task *assembly.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockAssemblyTaskRepository) Update(ctx context.Context, task *assembly.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockAssemblyTaskRepository) Get(ctx context.Context, id kernel.UUID) (*assembly.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*assembly.Task), args.Error(1)
}
func (m *MockAssemblyTaskRepository) GetAllByOrder(ctx context.Context, orderID kernel.UUID) ([]*assembly.Task, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*assembly.Task), args.Error(1)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDriverRepository) Update(ctx context.Context, d *driver.Driver) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*driver.Driver), args.Error(1)
}
func (m *MockDriverRepository) GetAllAvailable(ctx context.Context, team string, date time.Time) ([]*driver.Driver, error) {
	args := m.Called(ctx, team, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*driver.Driver), args.Error(1)
}

type MockRouteRepository struct{ mock.Mock }

func (m *MockRouteRepository) Add(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRouteRepository) Update(ctx context.Context, r *route.Route) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}
func (m *MockRouteRepository) Get(ctx context.Context, id kernel.UUID) (*route.Route, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*route.Route), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDeliveryRepository) Get(ctx context.Context, id kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) GetAllPooled(ctx context.Context) ([]*delivery.Delivery, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) GetActiveByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}
func (m *MockDeliveryRepository) GetAllByRoute(ctx context.Context, routeID kernel.UUID) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, routeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

type MockNotificationTaskRepository struct{ mock.Mock }

func (m *MockNotificationTaskRepository) Add(ctx context.Context, task *notification.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockNotificationTaskRepository) Update(ctx context.Context, task *notification.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}
func (m *MockNotificationTaskRepository) Get(ctx context.Context, id kernel.UUID) (*notification.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Task), args.Error(1)
}
func (m *MockNotificationTaskRepository) GetAllDue(ctx context.Context, now time.Time, limit int) ([]*notification.Task, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*notification.Task), args.Error(1)
}

// MockUoW satisfies every narrow unit-of-work interface; each test wires
// only the repositories its handler touches.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) StockRepository() ports.StockRepository {
	args := m.Called()
	return args.Get(0).(ports.StockRepository)
}
func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockUoW) AssemblyTaskRepository() ports.AssemblyTaskRepository {
	args := m.Called()
	return args.Get(0).(ports.AssemblyTaskRepository)
}
func (m *MockUoW) DriverRepository() ports.DriverRepository {
	args := m.Called()
	return args.Get(0).(ports.DriverRepository)
}
func (m *MockUoW) RouteRepository() ports.RouteRepository {
	args := m.Called()
	return args.Get(0).(ports.RouteRepository)
}
func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	args := m.Called()
	return args.Get(0).(ports.DeliveryRepository)
}
func (m *MockUoW) NotificationTaskRepository() ports.NotificationTaskRepository {
	args := m.Called()
	return args.Get(0).(ports.NotificationTaskRepository)
}

type MockIntakeUoWFactory struct{ mock.Mock }

func (m *MockIntakeUoWFactory) Create() commands.IntakeUoW {
	args := m.Called()
	return args.Get(0).(commands.IntakeUoW)
}

type MockReservationUoWFactory struct{ mock.Mock }

func (m *MockReservationUoWFactory) Create() commands.ReservationUoW {
	args := m.Called()
	return args.Get(0).(commands.ReservationUoW)
}

type MockAssemblyUoWFactory struct{ mock.Mock }

func (m *MockAssemblyUoWFactory) Create() commands.AssemblyUoW {
	args := m.Called()
	return args.Get(0).(commands.AssemblyUoW)
}

type MockPlanningUoWFactory struct{ mock.Mock }

func (m *MockPlanningUoWFactory) Create() commands.PlanningUoW {
	args := m.Called()
	return args.Get(0).(commands.PlanningUoW)
}

type MockRouteExecutionUoWFactory struct{ mock.Mock }

func (m *MockRouteExecutionUoWFactory) Create() commands.RouteExecutionUoW {
	args := m.Called()
	return args.Get(0).(commands.RouteExecutionUoW)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockCancellationUoWFactory struct{ mock.Mock }

func (m *MockCancellationUoWFactory) Create() commands.CancellationUoW {
	args := m.Called()
	return args.Get(0).(commands.CancellationUoW)
}

type MockNotificationUoWFactory struct{ mock.Mock }

func (m *MockNotificationUoWFactory) Create() commands.NotificationUoW {
	args := m.Called()
	return args.Get(0).(commands.NotificationUoW)
}

type MockCustomerDirectory struct{ mock.Mock }

func (m *MockCustomerDirectory) GetAddress(ctx context.Context, customerID kernel.UUID) (kernel.Address, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(kernel.Address), args.Error(1)
}
func (m *MockCustomerDirectory) GetContact(ctx context.Context, customerID kernel.UUID) (ports.CustomerContact, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(ports.CustomerContact), args.Error(1)
}

type MockTransportProvider struct {
	mock.Mock
	channel notification.Channel
}

func (m *MockTransportProvider) Channel() notification.Channel { return m.channel }
func (m *MockTransportProvider) Send(
	ctx context.Context,
	recipient ports.CustomerContact,
	task *notification.Task,
) (string, error) {
	args := m.Called(ctx, recipient, task)
	return args.String(0), args.Error(1)
}

type MockDistanceEstimator struct{ mock.Mock }

func (m *MockDistanceEstimator) Estimate(ctx context.Context, addresses []kernel.Address) (ports.RouteEstimate, error) {
	args := m.Called(ctx, addresses)
	return args.Get(0).(ports.RouteEstimate), args.Error(1)
}

func fixtureAddress(t *testing.T) kernel.Address {
	t.Helper()
	addr, err := kernel.NewAddress("12 Dockside Rd", "Rotterdam", "3011", 51.92, 4.48)
	require.NoError(t, err)
	return addr
}

func fixtureWindow(t *testing.T) kernel.TimeWindow {
	t.Helper()
	from := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	window, err := kernel.NewTimeWindow(from, from.Add(4*time.Hour))
	require.NoError(t, err)
	return window
}

func fixtureItem(t *testing.T, sku string, quantity int) *order.Item {
	t.Helper()
	load, err := kernel.NewLoad(quantity*500, quantity*1000, quantity)
	require.NoError(t, err)
	item, err := order.NewItem(kernel.NewUUID(), sku, quantity, load, false)
	require.NoError(t, err)
	return item
}

func fixtureOrder(t *testing.T, status order.Status, items ...*order.Item) *order.Order {
	t.Helper()
	if len(items) == 0 {
		items = []*order.Item{fixtureItem(t, "SKU-100", 2)}
	}
	aggregate, err := order.RestoreOrder(
		kernel.NewUUID(), kernel.NewUUID(),
		fixtureAddress(t), fixtureWindow(t),
		order.PriorityNormal, status,
		false, "", 0, items,
	)
	require.NoError(t, err)
	return aggregate
}

func fixtureContact(aggregate *order.Order) ports.CustomerContact {
	return ports.CustomerContact{
		CustomerID:       aggregate.CustomerID(),
		Name:             "Jesse",
		PreferredChannel: notification.ChannelEmail,
		Phone:            "+31600000001",
		Email:            "jesse@example.com",
	}
}
