package courier_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCourier(t *testing.T) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), "Bekzod")
	require.NoError(t, err)
	return c
}

func TestNewCourier(t *testing.T) {
	t.Run("starts_offline_with_zero_balance", func(t *testing.T) {
		c := newTestCourier(t)

		assert.Equal(t, courier.Offline, c.Availability())
		assert.False(t, c.CanReceiveOffers())
		assert.Nil(t, c.LastAssignedAt())
		assert.Equal(t, int64(0), c.Balance().Available.Cents())
		assert.Equal(t, 0, c.Balance().DeliveriesCount)
	})

	t.Run("requires_name", func(t *testing.T) {
		_, err := courier.NewCourier(kernel.NewUUID(), "")

		require.ErrorIs(t, err, courier.ErrNameIsRequired)
	})
}

func TestCourier_AvailabilityLifecycle(t *testing.T) {
	c := newTestCourier(t)

	require.NoError(t, c.GoOnline())
	assert.True(t, c.CanReceiveOffers())

	now := time.Now()
	require.NoError(t, c.StartDelivery(now))
	assert.Equal(t, courier.OnDelivery, c.Availability())
	assert.False(t, c.CanReceiveOffers())
	require.NotNil(t, c.LastAssignedAt())
	assert.Equal(t, now, *c.LastAssignedAt())

	// courier mid-delivery cannot leave the pool
	require.ErrorIs(t, c.GoOffline(), courier.ErrCourierNotAvailable)
	require.ErrorIs(t, c.GoOnline(), courier.ErrCourierNotAvailable)

	require.NoError(t, c.FinishDelivery())
	assert.Equal(t, courier.Available, c.Availability())
	require.NoError(t, c.GoOffline())
	assert.Equal(t, courier.Offline, c.Availability())
}

func TestCourier_StartDelivery_RequiresAvailable(t *testing.T) {
	c := newTestCourier(t)

	err := c.StartDelivery(time.Now())

	require.ErrorIs(t, err, courier.ErrCourierNotAvailable)
}

func TestCourier_Credit(t *testing.T) {
	c := newTestCourier(t)

	require.NoError(t, c.Credit(kernel.Money(720)))
	require.NoError(t, c.Credit(kernel.Money(500)))

	assert.Equal(t, int64(1220), c.Balance().Available.Cents())
	assert.Equal(t, int64(1220), c.Balance().LifetimeEarned.Cents())
	assert.Equal(t, 2, c.Balance().DeliveriesCount)
}

func TestRestoreCourier(t *testing.T) {
	id := kernel.NewUUID()
	last := time.Now().Add(-time.Hour)

	c, err := courier.RestoreCourier(id, "Dilnoza", courier.Available, &last, courier.Balance{
		Available:       kernel.Money(1500),
		LifetimeEarned:  kernel.Money(90000),
		DeliveriesCount: 120,
	}, 7)

	require.NoError(t, err)
	assert.True(t, c.ID().IsEqual(id))
	assert.Equal(t, courier.Available, c.Availability())
	assert.Equal(t, 120, c.Balance().DeliveriesCount)
	assert.Equal(t, 7, c.Version())
}

func TestRestoreCourier_RejectsInvalidVersion(t *testing.T) {
	_, err := courier.RestoreCourier(
		kernel.NewUUID(), "Dilnoza", courier.Available, nil, courier.Balance{}, 0,
	)

	assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)
}

func TestCourier_Validate_ZeroValue(t *testing.T) {
	var c courier.Courier

	require.ErrorIs(t, c.Validate(), courier.ErrCourierIsNotConstructed)
}
