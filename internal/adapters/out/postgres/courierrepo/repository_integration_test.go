package courierrepo_test

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

	"dispatch/internal/adapters/out/postgres/courierrepo"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// MockAggregateTracker records aggregates registered by the repository.
type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// CourierRepositoryIntegrationTestSuite verifies persistence behavior against
// a real PostgreSQL instance, including the optimistic version guard that
// keeps two racing acceptances from double-assigning one courier.
type CourierRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *courierrepo.GormCourierRepository
	tracker    *MockAggregateTracker
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupSuite() {
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

	suite.Require().NoError(db.AutoMigrate(&courierrepo.CourierDTO{}))
}

func (suite *CourierRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE couriers").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = courierrepo.NewGormCourierRepository(suite.db, suite.tracker)
}

func (suite *CourierRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CourierRepositoryIntegrationTestSuite) TestAddAndGet_RoundTrip() {
	ctx := context.Background()
	original := suite.createAvailableCourier("Dilnoza")

	suite.Require().NoError(suite.repository.Add(ctx, original))

	retrieved, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Equal(original.ID(), retrieved.ID())
	suite.Equal("Dilnoza", retrieved.Name())
	suite.Equal(courier.Available, retrieved.Availability())
	suite.Equal(int64(0), retrieved.Balance().Available.Cents())
	suite.Equal(1, retrieved.Version())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGet_NonExistentCourier_ReturnsNotFoundError() {
	retrieved, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(retrieved)
	suite.Require().Error(err)

	var notFoundErr *errs.ObjectNotFoundError
	suite.ErrorAs(err, &notFoundErr)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_PersistsTransition() {
	ctx := context.Background()
	original := suite.createAvailableCourier("Dilnoza")
	suite.Require().NoError(suite.repository.Add(ctx, original))

	loaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	assignedAt := time.Now().UTC()
	suite.Require().NoError(loaded.StartDelivery(assignedAt))
	suite.Require().NoError(suite.repository.Update(ctx, loaded))

	reloaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(courier.OnDelivery, reloaded.Availability())
	suite.Require().NotNil(reloaded.LastAssignedAt())
	suite.Equal(2, reloaded.Version())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_ConcurrentAcceptance_SecondWriterGetsStaleState() {
	ctx := context.Background()
	original := suite.createAvailableCourier("Dilnoza")
	suite.Require().NoError(suite.repository.Add(ctx, original))

	// Two acceptances load the same available courier.
	first, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	// Both pass the in-memory availability check.
	suite.Require().NoError(first.StartDelivery(time.Now().UTC()))
	suite.Require().NoError(second.StartDelivery(time.Now().UTC()))

	suite.Require().NoError(suite.repository.Update(ctx, first))

	// The loser's write must fail instead of overwriting the assignment.
	err = suite.repository.Update(ctx, second)
	suite.ErrorIs(err, courier.ErrStaleState)

	reloaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(courier.OnDelivery, reloaded.Availability())
	suite.Equal(2, reloaded.Version())
}

func (suite *CourierRepositoryIntegrationTestSuite) TestUpdate_ConcurrentCredit_DoesNotLoseIncrement() {
	ctx := context.Background()
	original := suite.createAvailableCourier("Dilnoza")
	suite.Require().NoError(suite.repository.Add(ctx, original))

	first, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	second, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)

	suite.Require().NoError(first.Credit(kernel.Money(720)))
	suite.Require().NoError(suite.repository.Update(ctx, first))

	// The stale writer would overwrite the balance with its own absolute
	// value; the guard forces a re-read instead.
	suite.Require().NoError(second.Credit(kernel.Money(500)))
	suite.ErrorIs(suite.repository.Update(ctx, second), courier.ErrStaleState)

	reloaded, err := suite.repository.Get(ctx, original.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(720), reloaded.Balance().Available.Cents())
	suite.Equal(1, reloaded.Balance().DeliveriesCount)
}

func (suite *CourierRepositoryIntegrationTestSuite) TestGetAllAvailable_FiltersBusyAndOffline() {
	ctx := context.Background()

	available := suite.createAvailableCourier("Dilnoza")
	suite.Require().NoError(suite.repository.Add(ctx, available))

	busy := suite.createAvailableCourier("Marat")
	suite.Require().NoError(busy.StartDelivery(time.Now().UTC()))
	suite.Require().NoError(suite.repository.Add(ctx, busy))

	offline, err := courier.NewCourier(kernel.NewUUID(), "Sora")
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(ctx, offline))

	candidates, err := suite.repository.GetAllAvailable(ctx)
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 1)
	suite.Equal(available.ID(), candidates[0].ID())
}

func (suite *CourierRepositoryIntegrationTestSuite) createAvailableCourier(name string) *courier.Courier {
	c, err := courier.NewCourier(kernel.NewUUID(), name)
	suite.Require().NoError(err)
	suite.Require().NoError(c.GoOnline())

	return c
}

func TestCourierRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CourierRepositoryIntegrationTestSuite))
}
