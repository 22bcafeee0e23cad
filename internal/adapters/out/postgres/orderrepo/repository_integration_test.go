package orderrepo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"dispatch/internal/adapters/out/postgres/orderrepo"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// MockAggregateTracker records aggregates registered by the repository.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite verifies persistence behavior against
// a real PostgreSQL instance, including the optimistic version guard.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
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

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	original := suite.createTestOrder()

	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal(original.Number(), retrieved.Number())
	suite.Equal(order.PendingAssignment, retrieved.Status())
	suite.Nil(retrieved.Courier())
	suite.Equal(original.Subtotal().Cents(), retrieved.Subtotal().Cents())
	suite.Equal(original.DeliveryFee().Cents(), retrieved.DeliveryFee().Cents())
	suite.Equal(original.Payment(), retrieved.Payment())
	suite.Equal(1, retrieved.Version())

	pickup := retrieved.PickupAddress()
	suite.Require().NotNil(pickup.Geo())
	suite.InDelta(52.5200, pickup.Geo().Lat(), 1e-9)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.ErrorAs(err, &notFoundErr)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_PersistsTransition() {
	ctx := context.Background()
	original := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	loaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	courierID := kernel.NewUUID()
	suite.Require().NoError(loaded.AssignCourier(order.SystemActor(), courierID, time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	reloaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, reloaded.Status())
	suite.Require().NotNil(reloaded.Courier())
	suite.Equal(courierID, *reloaded.Courier())
	suite.Equal(2, reloaded.Version())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_ConcurrentModification_ReturnsStaleState() {
	ctx := context.Background()
	original := suite.createTestOrder()
	suite.Require().NoError(suite.repository.Add(ctx, original))

	first, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.AssignCourier(order.SystemActor(), kernel.NewUUID(), time.Now()))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	suite.Require().NoError(second.Cancel(order.SystemActor(), "duplicate request", time.Now()))
	err = suite.repository.Update(ctx, second)

	suite.ErrorIs(err, order.ErrStaleState)

	// The winning write is untouched.
	reloaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(order.Assigned, reloaded.Status())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGetAllPendingAssignment_OldestFirst() {
	ctx := context.Background()

	older := suite.createTestOrderAt(time.Now().Add(-2 * time.Minute))
	newer := suite.createTestOrderAt(time.Now().Add(-1 * time.Minute))
	suite.Require().NoError(suite.repository.Add(ctx, newer))
	suite.Require().NoError(suite.repository.Add(ctx, older))

	assigned := suite.createTestOrder()
	suite.Require().NoError(assigned.AssignCourier(order.SystemActor(), kernel.NewUUID(), time.Now()))
	suite.Require().NoError(suite.repository.Add(ctx, assigned))

	pending, err := suite.repository.GetAllPendingAssignment(ctx)
	suite.Require().NoError(err)

	suite.Require().Len(pending, 2)
	suite.Equal(older.ID(), pending[0].ID())
	suite.Equal(newer.ID(), pending[1].ID())
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrder() *order.Order {
	return suite.createTestOrderAt(time.Now())
}

func (suite *OrderRepositoryIntegrationTestSuite) createTestOrderAt(createdAt time.Time) *order.Order {
	pickupGeo, err := kernel.NewGeoPoint(52.5200, 13.4050)
	suite.Require().NoError(err)
	pickup, err := kernel.NewAddress("Friedrichstr. 100", &pickupGeo)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewAddress("Torstr. 5", nil)
	suite.Require().NoError(err)

	subtotal, err := kernel.NewMoney(5000)
	suite.Require().NoError(err)
	fee, err := kernel.NewMoney(900)
	suite.Require().NoError(err)

	number, err := order.NewOrderNumber()
	suite.Require().NoError(err)
	code, err := order.NewConfirmationCode()
	suite.Require().NoError(err)

	testOrder, err := order.NewOrder(
		kernel.NewUUID(), number, kernel.NewUUID(), kernel.NewUUID(),
		pickup, dropoff, subtotal, fee, order.PaymentPrepaid, code, createdAt)
	suite.Require().NoError(err)
	testOrder.TakeEvents()

	return testOrder
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
