package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrRegenerateConfirmationCodeCommandIsNotConstructed = errors.New(
	"RegenerateConfirmationCodeCommand must be created via NewRegenerateConfirmationCodeCommand constructor",
)

// RegenerateConfirmationCodeCommand represents an administrator issuing a
// fresh confirmation code for an order whose customer lost the original.
type RegenerateConfirmationCodeCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actor   order.Actor

	guard guard.ConstructorGuard
}

// NewRegenerateConfirmationCodeCommand creates a code regeneration command.
func NewRegenerateConfirmationCodeCommand(orderID kernel.UUID, actor order.Actor) (RegenerateConfirmationCodeCommand, error) {
	cmd := RegenerateConfirmationCodeCommand{
		actor: actor,
		guard: guard.NewConstructorGuard(),
	}

	if err := orderID.Validate(); err != nil {
		return RegenerateConfirmationCodeCommand{}, err
	}
	cmd.orderID = orderID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegenerateConfirmationCodeCommand) Validate() error {
	return c.guard.Validate(ErrRegenerateConfirmationCodeCommandIsNotConstructed)
}

// OrderID returns the order getting a new code.
func (c RegenerateConfirmationCodeCommand) OrderID() kernel.UUID { return c.orderID }

// Actor returns who requested the regeneration.
func (c RegenerateConfirmationCodeCommand) Actor() order.Actor { return c.actor }
