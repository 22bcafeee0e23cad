package commands

import (
	"context"

	"dispatch/internal/core/domain/model/order"
)

// RegenerateConfirmationCodeCommandHandler replaces an order's confirmation
// code. The aggregate refuses once the code has been consumed or the order
// reached a terminal status.
type RegenerateConfirmationCodeCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRegenerateConfirmationCodeCommandHandler creates a handler for code
// regeneration.
func NewRegenerateConfirmationCodeCommandHandler(uowFactory OrderUoWFactory) RegenerateConfirmationCodeCommandHandler {
	return RegenerateConfirmationCodeCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the regeneration request.
func (h RegenerateConfirmationCodeCommandHandler) Handle(
	ctx context.Context,
	cmd RegenerateConfirmationCodeCommand,
) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	code, err := order.NewConfirmationCode()
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = aggregate.RegenerateConfirmationCode(cmd.Actor(), code); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
