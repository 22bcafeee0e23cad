package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"
)

// AcceptOfferCommandHandler turns an accepted offer into an assignment.
// The offer resolution, the order's move to assigned and the courier going
// on-delivery commit together. Concurrent responses to the same offer are
// serialized by the offer repository's compare-and-swap: the loser gets
// offer.ErrOfferNoLongerValid and nothing else changes.
type AcceptOfferCommandHandler struct {
	uowFactory DispatchUoWFactory
	publisher  ports.EventPublisher
}

// NewAcceptOfferCommandHandler creates a handler for offer acceptance.
func NewAcceptOfferCommandHandler(
	uowFactory DispatchUoWFactory,
	publisher ports.EventPublisher,
) AcceptOfferCommandHandler {
	return AcceptOfferCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
	}
}

// Handle processes the acceptance.
func (h AcceptOfferCommandHandler) Handle(ctx context.Context, cmd AcceptOfferCommand) error {
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

	offerRepo := uow.OfferRepository()

	now := time.Now().UTC()

	pendingOffer, err := offerRepo.Get(ctx, cmd.OfferID())
	if err != nil {
		return err
	}
	if err = pendingOffer.Accept(cmd.CourierID(), now); err != nil {
		return err
	}
	if err = offerRepo.Resolve(ctx, pendingOffer); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	aggregate, err := orderRepo.Get(ctx, pendingOffer.OrderID())
	if err != nil {
		return err
	}
	if err = aggregate.AssignCourier(order.SystemActor(), cmd.CourierID(), now); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	courierRepo := uow.CourierRepository()
	courierAggregate, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if err = courierAggregate.StartDelivery(now); err != nil {
		return err
	}
	if err = courierRepo.Update(ctx, courierAggregate); err != nil {
		return err
	}

	events := aggregate.TakeEvents()
	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, events)

	return nil
}
