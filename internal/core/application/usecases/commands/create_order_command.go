package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new delivery order.
// Carries the parties, both addresses and the pricing; the order number and
// confirmation code are generated by the handler, never supplied by callers.
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID      kernel.UUID
	restaurantID kernel.UUID
	customerID   kernel.UUID
	pickup       kernel.Address
	dropoff      kernel.Address
	subtotal     kernel.Money
	deliveryFee  kernel.Money
	payment      order.PaymentMethod

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new delivery order.
// Validates identifiers and addresses; amounts arrive pre-validated as
// kernel.Money.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	restaurantID kernel.UUID,
	customerID kernel.UUID,
	pickup kernel.Address,
	dropoff kernel.Address,
	subtotal kernel.Money,
	deliveryFee kernel.Money,
	payment order.PaymentMethod,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		subtotal:    subtotal,
		deliveryFee: deliveryFee,
		payment:     payment,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUUID(&cmd.orderID, orderID),
		cmd.setUUID(&cmd.restaurantID, restaurantID),
		cmd.setUUID(&cmd.customerID, customerID),
		cmd.setAddress(&cmd.pickup, pickup),
		cmd.setAddress(&cmd.dropoff, dropoff),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the identifier the new order will carry.
func (c CreateOrderCommand) OrderID() kernel.UUID { return c.orderID }

// RestaurantID returns the restaurant the order is picked up from.
func (c CreateOrderCommand) RestaurantID() kernel.UUID { return c.restaurantID }

// CustomerID returns the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }

// Pickup returns the pickup address.
func (c CreateOrderCommand) Pickup() kernel.Address { return c.pickup }

// Dropoff returns the dropoff address.
func (c CreateOrderCommand) Dropoff() kernel.Address { return c.dropoff }

// Subtotal returns the order subtotal.
func (c CreateOrderCommand) Subtotal() kernel.Money { return c.subtotal }

// DeliveryFee returns the delivery fee.
func (c CreateOrderCommand) DeliveryFee() kernel.Money { return c.deliveryFee }

// Payment returns the payment method.
func (c CreateOrderCommand) Payment() order.PaymentMethod { return c.payment }

func (c *CreateOrderCommand) setUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	*dst = id
	return nil
}

func (c *CreateOrderCommand) setAddress(dst *kernel.Address, addr kernel.Address) error {
	if err := addr.Validate(); err != nil {
		return err
	}

	*dst = addr
	return nil
}
