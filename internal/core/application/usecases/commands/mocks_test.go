package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/core/domain/model/tracking"
	"dispatch/internal/core/ports"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllPendingAssignment(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetAllActive(ctx context.Context) ([]*order.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetAllAvailable(ctx context.Context) ([]*courier.Courier, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

type MockOfferRepository struct{ mock.Mock }

func (m *MockOfferRepository) Add(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Resolve(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOfferRepository) Get(ctx context.Context, id kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetPendingByOrder(ctx context.Context, orderID kernel.UUID) (*offer.Offer, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetAllOverdue(ctx context.Context, now time.Time) ([]*offer.Offer, error) {
	args := m.Called(ctx, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*offer.Offer), args.Error(1)
}

func (m *MockOfferRepository) GetDeclinedCourierIDs(ctx context.Context, orderID kernel.UUID) ([]kernel.UUID, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

func (m *MockOfferRepository) CountRounds(ctx context.Context, orderID kernel.UUID) (int, error) {
	args := m.Called(ctx, orderID)
	return args.Int(0), args.Error(1)
}

type MockSettlementRepository struct{ mock.Mock }

func (m *MockSettlementRepository) Record(ctx context.Context, s *settlement.Settlement) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettlementRepository) Get(ctx context.Context, orderID kernel.UUID) (*settlement.Settlement, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.Settlement), args.Error(1)
}

// MockUoW satisfies every unit of work interface the handlers narrow to.
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

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

func (m *MockUoW) OfferRepository() ports.OfferRepository {
	args := m.Called()
	return args.Get(0).(ports.OfferRepository)
}

func (m *MockUoW) SettlementRepository() ports.SettlementRepository {
	args := m.Called()
	return args.Get(0).(ports.SettlementRepository)
}

type stubOrderUoWFactory struct{ uow commands.OrderUoW }

func (f stubOrderUoWFactory) Create() commands.OrderUoW { return f.uow }

type stubCourierUoWFactory struct{ uow commands.CourierUoW }

func (f stubCourierUoWFactory) Create() commands.CourierUoW { return f.uow }

type stubOfferUoWFactory struct{ uow commands.OfferUoW }

func (f stubOfferUoWFactory) Create() commands.OfferUoW { return f.uow }

type stubDispatchUoWFactory struct{ uow commands.DispatchUoW }

func (f stubDispatchUoWFactory) Create() commands.DispatchUoW { return f.uow }

type stubSettleUoWFactory struct{ uow commands.SettleUoW }

func (f stubSettleUoWFactory) Create() commands.SettleUoW { return f.uow }

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) Publish(ctx context.Context, events []order.Event) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

type MockCourierNotifier struct{ mock.Mock }

func (m *MockCourierNotifier) NotifyOffer(ctx context.Context, o *offer.Offer) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

type MockLocationStore struct{ mock.Mock }

func (m *MockLocationStore) Save(ctx context.Context, sample tracking.Sample) (bool, error) {
	args := m.Called(ctx, sample)
	return args.Bool(0), args.Error(1)
}

func (m *MockLocationStore) Get(ctx context.Context, courierID kernel.UUID) (tracking.Sample, error) {
	args := m.Called(ctx, courierID)
	return args.Get(0).(tracking.Sample), args.Error(1)
}

type MockTrackingBroadcaster struct{ mock.Mock }

func (m *MockTrackingBroadcaster) Broadcast(sample tracking.Sample) {
	m.Called(sample)
}

type MockDistanceEstimator struct{ mock.Mock }

func (m *MockDistanceEstimator) Estimate(ctx context.Context, from, to kernel.GeoPoint) (float64, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(float64), args.Error(1)
}

// Fixture helpers shared across handler tests.

func testGeoAddress(t *testing.T, street string, lat, lon float64) kernel.Address {
	t.Helper()

	point, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	addr, err := kernel.NewAddress(street, &point)
	require.NoError(t, err)

	return addr
}

func pendingTestOrder(t *testing.T) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(),
		"ORD-00000042",
		kernel.NewUUID(),
		kernel.NewUUID(),
		testGeoAddress(t, "12 Market St", 37.79, -122.41),
		testGeoAddress(t, "500 Harrison Ave", 37.78, -122.39),
		kernel.Money(5000),
		kernel.Money(900),
		order.PaymentPrepaid,
		"4821",
		time.Now().UTC(),
	)
	require.NoError(t, err)

	return o
}

func assignedTestOrder(t *testing.T, courierID kernel.UUID) *order.Order {
	t.Helper()

	o := pendingTestOrder(t)
	require.NoError(t, o.AssignCourier(order.SystemActor(), courierID, time.Now().UTC()))
	o.TakeEvents()

	return o
}

func arrivedTestOrder(t *testing.T, courierID kernel.UUID) *order.Order {
	t.Helper()

	o := assignedTestOrder(t, courierID)
	advanceToDropoff(t, o, courierID)

	return o
}

func arrivedCashTestOrder(t *testing.T, courierID kernel.UUID) *order.Order {
	t.Helper()

	o, err := order.NewOrder(
		kernel.NewUUID(),
		"ORD-00000043",
		kernel.NewUUID(),
		kernel.NewUUID(),
		testGeoAddress(t, "12 Market St", 37.79, -122.41),
		testGeoAddress(t, "500 Harrison Ave", 37.78, -122.39),
		kernel.Money(5000),
		kernel.Money(900),
		order.PaymentCash,
		"4821",
		time.Now().UTC(),
	)
	require.NoError(t, err)
	require.NoError(t, o.AssignCourier(order.SystemActor(), courierID, time.Now().UTC()))
	advanceToDropoff(t, o, courierID)

	return o
}

func advanceToDropoff(t *testing.T, o *order.Order, courierID kernel.UUID) {
	t.Helper()

	actor := order.CourierActor(courierID)
	now := time.Now().UTC()
	for _, step := range []order.Status{
		order.EnRouteToPickup, order.ArrivedAtPickup, order.PickedUp,
		order.EnRouteToDropoff, order.ArrivedAtDropoff,
	} {
		require.NoError(t, o.Advance(actor, step, now))
	}
	o.TakeEvents()
}

func availableTestCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), name)
	require.NoError(t, err)
	require.NoError(t, c.GoOnline())

	return c
}

func deliveringTestCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()

	c := availableTestCourier(t, name)
	require.NoError(t, c.StartDelivery(time.Now().UTC()))

	return c
}
