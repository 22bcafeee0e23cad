package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAcceptOfferCommandIsNotConstructed = errors.New(
	"AcceptOfferCommand must be created via NewAcceptOfferCommand constructor",
)

// AcceptOfferCommand represents a courier accepting a dispatch offer.
type AcceptOfferCommand struct { //nolint:recvcheck //using for validation
	offerID   kernel.UUID
	courierID kernel.UUID

	guard guard.ConstructorGuard
}

// NewAcceptOfferCommand creates a command for a courier to accept an offer.
func NewAcceptOfferCommand(offerID, courierID kernel.UUID) (AcceptOfferCommand, error) {
	cmd := AcceptOfferCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setUUID(&cmd.offerID, offerID),
		cmd.setUUID(&cmd.courierID, courierID),
	); err != nil {
		return AcceptOfferCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AcceptOfferCommand) Validate() error {
	return c.guard.Validate(ErrAcceptOfferCommandIsNotConstructed)
}

// OfferID returns the offer being accepted.
func (c AcceptOfferCommand) OfferID() kernel.UUID { return c.offerID }

// CourierID returns the responding courier.
func (c AcceptOfferCommand) CourierID() kernel.UUID { return c.courierID }

func (c *AcceptOfferCommand) setUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	*dst = id
	return nil
}
