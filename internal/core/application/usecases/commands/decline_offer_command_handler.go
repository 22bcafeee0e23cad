package commands

import (
	"context"
	"time"
)

// DeclineOfferCommandHandler records a courier's refusal. The order stays in
// pending_assignment; the next dispatch round offers it to someone else and
// never to this courier again.
type DeclineOfferCommandHandler struct {
	uowFactory OfferUoWFactory
}

// NewDeclineOfferCommandHandler creates a handler for offer declines.
func NewDeclineOfferCommandHandler(uowFactory OfferUoWFactory) DeclineOfferCommandHandler {
	return DeclineOfferCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the decline.
func (h DeclineOfferCommandHandler) Handle(ctx context.Context, cmd DeclineOfferCommand) error {
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

	pendingOffer, err := offerRepo.Get(ctx, cmd.OfferID())
	if err != nil {
		return err
	}
	if err = pendingOffer.Decline(cmd.CourierID(), time.Now().UTC()); err != nil {
		return err
	}
	if err = offerRepo.Resolve(ctx, pendingOffer); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
