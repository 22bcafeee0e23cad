package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrAdvanceOrderCommandIsNotConstructed = errors.New(
	"AdvanceOrderCommand must be created via NewAdvanceOrderCommand constructor",
)

// AdvanceOrderCommand represents the assigned courier reporting progress:
// en-route to pickup, arrived, picked up, and so on down the status chain.
type AdvanceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	target    order.Status

	guard guard.ConstructorGuard
}

// NewAdvanceOrderCommand creates a command to advance an order one step.
// The target status arrives in its wire form and is parsed here, so an
// unknown status is rejected before any state is loaded.
func NewAdvanceOrderCommand(orderID, courierID kernel.UUID, target string) (AdvanceOrderCommand, error) {
	cmd := AdvanceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	status, err := order.StatusFromString(target)
	if err != nil {
		return AdvanceOrderCommand{}, err
	}
	cmd.target = status

	if err := errors.Join(
		cmd.setUUID(&cmd.orderID, orderID),
		cmd.setUUID(&cmd.courierID, courierID),
	); err != nil {
		return AdvanceOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AdvanceOrderCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceOrderCommandIsNotConstructed)
}

// OrderID returns the order being advanced.
func (c AdvanceOrderCommand) OrderID() kernel.UUID { return c.orderID }

// CourierID returns the reporting courier.
func (c AdvanceOrderCommand) CourierID() kernel.UUID { return c.courierID }

// Target returns the requested status.
func (c AdvanceOrderCommand) Target() order.Status { return c.target }

func (c *AdvanceOrderCommand) setUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	*dst = id
	return nil
}
