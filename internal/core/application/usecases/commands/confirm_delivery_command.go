package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrConfirmDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmDeliveryCommand must be created via NewConfirmDeliveryCommand constructor",
)

// ConfirmDeliveryCommand represents the courier submitting the customer's
// confirmation code at the dropoff point.
type ConfirmDeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	courierID kernel.UUID
	code      string

	guard guard.ConstructorGuard
}

// NewConfirmDeliveryCommand creates a delivery confirmation command.
func NewConfirmDeliveryCommand(orderID, courierID kernel.UUID, code string) (ConfirmDeliveryCommand, error) {
	cmd := ConfirmDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUUID(&cmd.orderID, orderID),
		cmd.setUUID(&cmd.courierID, courierID),
		cmd.setCode(code),
	); err != nil {
		return ConfirmDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c ConfirmDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmDeliveryCommandIsNotConstructed)
}

// OrderID returns the order being confirmed.
func (c ConfirmDeliveryCommand) OrderID() kernel.UUID { return c.orderID }

// CourierID returns the confirming courier.
func (c ConfirmDeliveryCommand) CourierID() kernel.UUID { return c.courierID }

// Code returns the submitted confirmation code.
func (c ConfirmDeliveryCommand) Code() string { return c.code }

func (c *ConfirmDeliveryCommand) setUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	*dst = id
	return nil
}

func (c *ConfirmDeliveryCommand) setCode(code string) error {
	if code == "" {
		return errs.NewValueIsRequiredError("code")
	}

	c.code = code
	return nil
}
