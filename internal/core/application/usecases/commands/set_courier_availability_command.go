package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrSetCourierAvailabilityCommandIsNotConstructed = errors.New(
	"SetCourierAvailabilityCommand must be created via NewSetCourierAvailabilityCommand constructor",
)

// SetCourierAvailabilityCommand represents a courier going online or
// offline. Couriers on an active delivery cannot change availability; the
// aggregate rejects the attempt.
type SetCourierAvailabilityCommand struct { //nolint:recvcheck //using for validation
	courierID kernel.UUID
	online    bool

	guard guard.ConstructorGuard
}

// NewSetCourierAvailabilityCommand creates an availability toggle command.
func NewSetCourierAvailabilityCommand(courierID kernel.UUID, online bool) (SetCourierAvailabilityCommand, error) {
	cmd := SetCourierAvailabilityCommand{
		online: online,
		guard:  guard.NewConstructorGuard(),
	}

	if err := courierID.Validate(); err != nil {
		return SetCourierAvailabilityCommand{}, err
	}
	cmd.courierID = courierID

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c SetCourierAvailabilityCommand) Validate() error {
	return c.guard.Validate(ErrSetCourierAvailabilityCommandIsNotConstructed)
}

// CourierID returns the courier toggling availability.
func (c SetCourierAvailabilityCommand) CourierID() kernel.UUID { return c.courierID }

// Online reports whether the courier is going online.
func (c SetCourierAvailabilityCommand) Online() bool { return c.online }
