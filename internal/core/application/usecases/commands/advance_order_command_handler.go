package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AdvanceOrderCommandHandler applies courier progress reports to the order
// state machine. The aggregate enforces the chain, actor authorization and
// duplicate no-ops; the handler only manages the transaction and publishes
// whatever events the transition produced.
type AdvanceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.EventPublisher
}

// NewAdvanceOrderCommandHandler creates a handler for progress reports.
func NewAdvanceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.EventPublisher,
) AdvanceOrderCommandHandler {
	return AdvanceOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the progress report.
func (h AdvanceOrderCommandHandler) Handle(ctx context.Context, cmd AdvanceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
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

	actor := order.CourierActor(cmd.CourierID())
	if err = aggregate.Advance(actor, cmd.Target(), time.Now().UTC()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	events := aggregate.TakeEvents()
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, events)

	return nil
}
