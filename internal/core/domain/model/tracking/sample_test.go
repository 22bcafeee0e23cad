package tracking_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/tracking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSample(t *testing.T) {
	point, err := kernel.NewGeoPoint(41.31, 69.28)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		s, err := tracking.NewSample(kernel.NewUUID(), point, time.Now())

		require.NoError(t, err)
		require.NoError(t, s.Validate())
	})

	t.Run("zero_captured_at_rejected", func(t *testing.T) {
		_, err := tracking.NewSample(kernel.NewUUID(), point, time.Time{})

		require.Error(t, err)
	})

	t.Run("unconstructed_point_rejected", func(t *testing.T) {
		var p kernel.GeoPoint
		_, err := tracking.NewSample(kernel.NewUUID(), p, time.Now())

		require.Error(t, err)
	})
}

func TestSample_IsNewerThan(t *testing.T) {
	courierID := kernel.NewUUID()
	point, err := kernel.NewGeoPoint(41.31, 69.28)
	require.NoError(t, err)
	base := time.Now()

	older, err := tracking.NewSample(courierID, point, base)
	require.NoError(t, err)
	newer, err := tracking.NewSample(courierID, point, base.Add(time.Second))
	require.NoError(t, err)
	same, err := tracking.NewSample(courierID, point, base)
	require.NoError(t, err)

	assert.True(t, newer.IsNewerThan(older))
	assert.False(t, older.IsNewerThan(newer))
	assert.False(t, same.IsNewerThan(older), "equal capture times must not supersede")
}
