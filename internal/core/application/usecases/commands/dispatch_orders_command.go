package commands

import (
	"errors"

	"dispatch/internal/pkg/guard"
)

var ErrDispatchOrdersCommandIsNotConstructed = errors.New(
	"DispatchOrdersCommand must be created via NewDispatchOrdersCommand constructor",
)

// DispatchOrdersCommand triggers one dispatch round over every order waiting
// for a courier. For each such order without a live offer it picks the best
// remaining candidate and creates a time-boxed offer; orders that exhausted
// their candidates, rounds or time budget are cancelled.
type DispatchOrdersCommand struct {
	guard guard.ConstructorGuard
}

// NewDispatchOrdersCommand creates a new parameterless dispatch trigger.
func NewDispatchOrdersCommand() DispatchOrdersCommand {
	return DispatchOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
func (c *DispatchOrdersCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrdersCommandIsNotConstructed)
}
