package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrDeclineOfferCommandIsNotConstructed = errors.New(
	"DeclineOfferCommand must be created via NewDeclineOfferCommand constructor",
)

// DeclineOfferCommand represents a courier turning down a dispatch offer.
type DeclineOfferCommand struct { //nolint:recvcheck //using for validation
	offerID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewDeclineOfferCommand creates a command for a courier to decline an offer.
func NewDeclineOfferCommand(offerID, courierID kernel.UUID) (DeclineOfferCommand, error) {
	cmd := DeclineOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUUID(&cmd.offerID, offerID),
		cmd.setUUID(&cmd.courierID, courierID),
	); err != nil {
		return DeclineOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c DeclineOfferCommand) Validate() error {
	return c.guard.Validate(ErrDeclineOfferCommandIsNotConstructed)
}

// OfferID returns the offer being declined.
func (c DeclineOfferCommand) OfferID() kernel.UUID { return c.offerID }

// CourierID returns the responding courier.
func (c DeclineOfferCommand) CourierID() kernel.UUID { return c.courierID }

func (c *DeclineOfferCommand) setUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	*dst = id
	return nil
}
