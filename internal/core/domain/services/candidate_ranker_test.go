package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

func onlineCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), name)
	require.NoError(t, err)
	require.NoError(t, c.GoOnline())

	return c
}

func courierAssignedAt(t *testing.T, name string, at time.Time) *courier.Courier {
	t.Helper()

	c := onlineCourier(t, name)
	require.NoError(t, c.StartDelivery(at))
	require.NoError(t, c.FinishDelivery())

	return c
}

func TestCandidateRanker_FiltersUnavailableCouriers(t *testing.T) {
	available := onlineCourier(t, "available")

	offline, err := courier.NewCourier(kernel.NewUUID(), "offline")
	require.NoError(t, err)

	busy := onlineCourier(t, "busy")
	require.NoError(t, busy.StartDelivery(time.Now()))

	ranked, err := services.NewCandidateRanker().Rank([]services.Candidate{
		{Courier: offline, Distance: 0.1},
		{Courier: busy, Distance: 0.2},
		{Courier: available, Distance: 5.0},
	}, nil)

	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, available.ID(), ranked[0].Courier.ID())
}

func TestCandidateRanker_ExcludesCouriersWhoDeclined(t *testing.T) {
	declined := onlineCourier(t, "declined")
	fresh := onlineCourier(t, "fresh")

	exclude := map[kernel.UUID]struct{}{declined.ID(): {}}

	ranked, err := services.NewCandidateRanker().Rank([]services.Candidate{
		{Courier: declined, Distance: 0.1},
		{Courier: fresh, Distance: 9.0},
	}, exclude)

	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, fresh.ID(), ranked[0].Courier.ID())
}

func TestCandidateRanker_OrdersByDistanceAscending(t *testing.T) {
	near := onlineCourier(t, "near")
	mid := onlineCourier(t, "mid")
	far := onlineCourier(t, "far")

	ranked, err := services.NewCandidateRanker().Rank([]services.Candidate{
		{Courier: far, Distance: 12.5},
		{Courier: near, Distance: 0.4},
		{Courier: mid, Distance: 3.1},
	}, nil)

	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, near.ID(), ranked[0].Courier.ID())
	assert.Equal(t, mid.ID(), ranked[1].Courier.ID())
	assert.Equal(t, far.ID(), ranked[2].Courier.ID())
}

func TestCandidateRanker_TieBreaksByLeastRecentlyAssigned(t *testing.T) {
	now := time.Now()
	never := onlineCourier(t, "never-assigned")
	older := courierAssignedAt(t, "assigned-yesterday", now.Add(-24*time.Hour))
	recent := courierAssignedAt(t, "assigned-just-now", now)

	ranked, err := services.NewCandidateRanker().Rank([]services.Candidate{
		{Courier: recent, Distance: 2.0},
		{Courier: never, Distance: 2.0},
		{Courier: older, Distance: 2.0},
	}, nil)

	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, never.ID(), ranked[0].Courier.ID())
	assert.Equal(t, older.ID(), ranked[1].Courier.ID())
	assert.Equal(t, recent.ID(), ranked[2].Courier.ID())
}

func TestCandidateRanker_Next_ReturnsBestCandidate(t *testing.T) {
	near := onlineCourier(t, "near")
	far := onlineCourier(t, "far")

	best, err := services.NewCandidateRanker().Next([]services.Candidate{
		{Courier: far, Distance: 8.0},
		{Courier: near, Distance: 1.0},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, near.ID(), best.Courier.ID())
}

func TestCandidateRanker_Next_ErrorsWhenNoEligibleCandidate(t *testing.T) {
	declined := onlineCourier(t, "declined")
	exclude := map[kernel.UUID]struct{}{declined.ID(): {}}

	_, err := services.NewCandidateRanker().Next([]services.Candidate{
		{Courier: declined, Distance: 1.0},
	}, exclude)

	assert.ErrorIs(t, err, services.ErrNoCandidateFound)
}
