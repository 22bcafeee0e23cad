package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

func TestNewCreateOrderCommand(t *testing.T) {
	orderID := kernel.NewUUID()
	pickup := testGeoAddress(t, "12 Market St", 37.79, -122.41)
	dropoff := testGeoAddress(t, "500 Harrison Ave", 37.78, -122.39)

	cmd, err := commands.NewCreateOrderCommand(
		orderID, kernel.NewUUID(), kernel.NewUUID(),
		pickup, dropoff,
		kernel.Money(5000), kernel.Money(900), order.PaymentPrepaid,
	)
	require.NoError(t, err)

	assert.NoError(t, cmd.Validate())
	assert.Equal(t, orderID, cmd.OrderID())
	assert.Equal(t, kernel.Money(900), cmd.DeliveryFee())
}

func TestNewCreateOrderCommand_RejectsInvalidInput(t *testing.T) {
	pickup := testGeoAddress(t, "12 Market St", 37.79, -122.41)

	_, err := commands.NewCreateOrderCommand(
		kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(),
		pickup, pickup,
		kernel.Money(5000), kernel.Money(900), order.PaymentPrepaid,
	)
	assert.Error(t, err)

	_, err = commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.Address{}, pickup,
		kernel.Money(5000), kernel.Money(900), order.PaymentPrepaid,
	)
	assert.Error(t, err)
}

func TestCreateOrderCommand_ZeroValueFailsValidation(t *testing.T) {
	var cmd commands.CreateOrderCommand

	assert.ErrorIs(t, cmd.Validate(), commands.ErrCreateOrderCommandIsNotConstructed)
}
