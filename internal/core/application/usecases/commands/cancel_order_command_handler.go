package commands

import (
	"context"
	"time"

	"dispatch/internal/core/ports"
)

// CancelOrderCommandHandler cancels an order and, when a courier was already
// working it, returns that courier to the available pool. A repeated cancel
// is a no-op: the aggregate produces no event and nothing is written twice.
type CancelOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
}

// NewCancelOrderCommandHandler creates a handler for cancellations.
func NewCancelOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the cancellation.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	assignedCourier := aggregate.Courier()

	if err = aggregate.Cancel(cmd.Actor(), cmd.Reason(), time.Now().UTC()); err != nil {
		return err
	}

	events := aggregate.TakeEvents()
	if len(events) == 0 {
		// already cancelled, nothing to write
		return nil
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	if assignedCourier != nil {
		courierRepo := uow.CourierRepository()

		courierAggregate, err := courierRepo.Get(ctx, *assignedCourier)
		if err != nil {
			return err
		}
		if err = courierAggregate.FinishDelivery(); err != nil {
			return err
		}
		if err = courierRepo.Update(ctx, courierAggregate); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, events)

	return nil
}
