package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/offer"
)

// ExpireOffersCommandHandler reclaims offers nobody answered in time.
// A courier who responds between the scan and the expiry write wins: the
// resolution compare-and-swap rejects the expiry and the sweep moves on.
type ExpireOffersCommandHandler struct {
	uowFactory OfferUoWFactory
}

// NewExpireOffersCommandHandler creates a handler for the expiry sweep.
func NewExpireOffersCommandHandler(uowFactory OfferUoWFactory) ExpireOffersCommandHandler {
	return ExpireOffersCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one expiry sweep. Failures on individual offers are
// joined into the returned error; the sweep itself keeps going.
func (h ExpireOffersCommandHandler) Handle(ctx context.Context, cmd ExpireOffersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	overdue, err := h.overdueOffers(ctx, now)
	if err != nil {
		return err
	}

	var errAll error
	for _, o := range overdue {
		if err := h.expireOne(ctx, o, now); err != nil {
			errAll = errors.Join(errAll, err)
		}
	}

	return errAll
}

func (h ExpireOffersCommandHandler) overdueOffers(ctx context.Context, now time.Time) ([]*offer.Offer, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	return uow.OfferRepository().GetAllOverdue(ctx, now)
}

func (h ExpireOffersCommandHandler) expireOne(ctx context.Context, o *offer.Offer, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := o.Expire(now); err != nil {
		return err
	}

	err := uow.OfferRepository().Resolve(ctx, o)
	if errors.Is(err, offer.ErrOfferNoLongerValid) {
		// the courier answered first
		return nil
	}
	if err != nil {
		return err
	}

	return uow.Commit(ctx)
}
