package order_test

import (
	"testing"

	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Chain(t *testing.T) {
	chain := []order.Status{
		order.Assigned,
		order.EnRouteToPickup,
		order.ArrivedAtPickup,
		order.PickedUp,
		order.EnRouteToDropoff,
		order.ArrivedAtDropoff,
		order.Delivered,
	}

	for i := 0; i < len(chain)-1; i++ {
		assert.Equal(t, chain[i+1], chain[i].Next(), "successor of %s", chain[i])
		assert.True(t, chain[i].CanTransitionTo(chain[i+1]))
	}
}

func TestStatus_CanTransitionTo(t *testing.T) {
	t.Run("skipping_a_step_is_rejected", func(t *testing.T) {
		assert.False(t, order.Assigned.CanTransitionTo(order.PickedUp))
		assert.False(t, order.ArrivedAtPickup.CanTransitionTo(order.ArrivedAtDropoff))
		assert.False(t, order.Assigned.CanTransitionTo(order.Delivered))
	})

	t.Run("backwards_is_rejected", func(t *testing.T) {
		assert.False(t, order.PickedUp.CanTransitionTo(order.ArrivedAtPickup))
		assert.False(t, order.Assigned.CanTransitionTo(order.PendingAssignment))
	})

	t.Run("cancelled_reachable_from_any_non_terminal", func(t *testing.T) {
		for _, s := range []order.Status{
			order.PendingAssignment,
			order.Assigned,
			order.EnRouteToPickup,
			order.ArrivedAtPickup,
			order.PickedUp,
			order.EnRouteToDropoff,
			order.ArrivedAtDropoff,
		} {
			assert.True(t, s.CanTransitionTo(order.Cancelled), "cancel from %s", s)
		}
	})

	t.Run("terminal_states_have_no_edges", func(t *testing.T) {
		assert.False(t, order.Delivered.CanTransitionTo(order.Cancelled))
		assert.False(t, order.Cancelled.CanTransitionTo(order.PendingAssignment))
		assert.False(t, order.Delivered.CanTransitionTo(order.Delivered))
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.True(t, order.Delivered.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.PendingAssignment.IsTerminal())
	assert.False(t, order.ArrivedAtDropoff.IsTerminal())
}

func TestStatusFromString(t *testing.T) {
	t.Run("known_values_round_trip", func(t *testing.T) {
		for _, s := range []order.Status{
			order.PendingAssignment,
			order.Assigned,
			order.EnRouteToPickup,
			order.ArrivedAtPickup,
			order.PickedUp,
			order.EnRouteToDropoff,
			order.ArrivedAtDropoff,
			order.Delivered,
			order.Cancelled,
		} {
			parsed, err := order.StatusFromString(s.String())
			require.NoError(t, err)
			assert.Equal(t, s, parsed)
		}
	})

	t.Run("unknown_value_rejected_as_invalid_transition", func(t *testing.T) {
		_, err := order.StatusFromString("teleported")

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})

	t.Run("unknown_literal_rejected", func(t *testing.T) {
		_, err := order.StatusFromString("unknown")

		require.ErrorIs(t, err, order.ErrInvalidTransition)
	})
}

func TestStatus_Validate(t *testing.T) {
	require.NoError(t, order.PickedUp.Validate())
	require.Error(t, order.Unknown.Validate())
	require.Error(t, order.Status(42).Validate())
}
