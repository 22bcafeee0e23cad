package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/model/settlement"
	"dispatch/internal/core/ports"
)

// ConfirmDeliveryCommandHandler closes out a delivery. One transaction moves
// the order to delivered, computes and records the courier's earnings,
// writes the settlement marker and credits the courier's balance. The
// settlement row's primary key is the order ID, so a replayed confirmation
// that somehow gets past the aggregate's idempotency check still cannot
// credit twice.
type ConfirmDeliveryCommandHandler struct {
	uowFactory SettleUoWFactory
	payout     ports.PayoutPolicy
	publisher  ports.EventPublisher
}

// NewConfirmDeliveryCommandHandler creates a handler for delivery
// confirmation and settlement.
func NewConfirmDeliveryCommandHandler(
	uowFactory SettleUoWFactory,
	payout ports.PayoutPolicy,
	publisher ports.EventPublisher,
) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{
		uowFactory: uowFactory,
		payout:     payout,
		publisher:  publisher,
	}
}

// Handle processes the confirmation. A duplicate confirmation of an already
// delivered order succeeds without touching storage.
func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) error {
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

	now := time.Now().UTC()
	actor := order.CourierActor(cmd.CourierID())

	if err = aggregate.ConfirmDelivery(actor, cmd.Code(), now); err != nil {
		return err
	}

	events := aggregate.TakeEvents()
	if len(events) == 0 {
		// duplicate confirmation of a delivered order, already settled
		return nil
	}

	earnings := h.payout.ComputeEarnings(aggregate.DeliveryFee())
	if err = aggregate.SetEarnings(earnings); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	var cashCollected kernel.Money
	if aggregate.Payment() == order.PaymentCash {
		cashCollected = aggregate.Total()
	}

	record, err := settlement.NewSettlement(aggregate.ID(), cmd.CourierID(), earnings, cashCollected, now)
	if err != nil {
		return err
	}
	err = uow.SettlementRepository().Record(ctx, record)
	if errors.Is(err, ports.ErrAlreadySettled) {
		// a concurrent confirmation already credited this order; drop
		// everything this transaction did
		return nil
	}
	if err != nil {
		return err
	}

	courierRepo := uow.CourierRepository()

	courierAggregate, err := courierRepo.Get(ctx, cmd.CourierID())
	if err != nil {
		return err
	}
	if err = courierAggregate.FinishDelivery(); err != nil {
		return err
	}
	if err = courierAggregate.Credit(earnings); err != nil {
		return err
	}
	if err = courierRepo.Update(ctx, courierAggregate); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	_ = h.publisher.Publish(ctx, events)

	return nil
}
