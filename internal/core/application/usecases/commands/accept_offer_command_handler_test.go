package commands_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/offer"
	"dispatch/internal/core/domain/model/order"
)

func pendingOfferFor(t *testing.T, orderID, courierID kernel.UUID) *offer.Offer {
	t.Helper()

	o, err := offer.NewOffer(kernel.NewUUID(), orderID, courierID, 1, time.Now().UTC(), 30*time.Second)
	require.NoError(t, err)

	return o
}

func TestAcceptOfferCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	courierAggregate := availableTestCourier(t, "Dana")
	orderAggregate := pendingTestOrder(t)
	pendingOffer := pendingOfferFor(t, orderAggregate.ID(), courierAggregate.ID())

	offerRepo := &MockOfferRepository{}
	offerRepo.On("Get", ctx, pendingOffer.ID()).Return(pendingOffer, nil)
	offerRepo.On("Resolve", ctx, mock.MatchedBy(func(o *offer.Offer) bool {
		return o.Outcome() == offer.Accepted
	})).Return(nil)

	orderRepo := &MockOrderRepository{}
	orderRepo.On("Get", ctx, orderAggregate.ID()).Return(orderAggregate, nil)
	orderRepo.On("Update", ctx, mock.MatchedBy(func(o *order.Order) bool {
		return o.Status() == order.Assigned && o.Courier() != nil &&
			o.Courier().IsEqual(courierAggregate.ID())
	})).Return(nil)

	courierRepo := &MockCourierRepository{}
	courierRepo.On("Get", ctx, courierAggregate.ID()).Return(courierAggregate, nil)
	courierRepo.On("Update", ctx, mock.MatchedBy(func(c *courier.Courier) bool {
		return c.Availability() == courier.OnDelivery
	})).Return(nil)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OfferRepository").Return(offerRepo)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	publisher := &MockEventPublisher{}
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []order.Event) bool {
		return len(events) == 1 && events[0].Name() == "order.assigned"
	})).Return(nil)

	cmd, err := commands.NewAcceptOfferCommand(pendingOffer.ID(), courierAggregate.ID())
	require.NoError(t, err)

	handler := commands.NewAcceptOfferCommandHandler(stubDispatchUoWFactory{uow: uow}, publisher)
	require.NoError(t, handler.Handle(ctx, cmd))

	offerRepo.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestAcceptOfferCommandHandler_Handle_LosesResolutionRace(t *testing.T) {
	ctx := t.Context()

	courierID := kernel.NewUUID()
	pendingOffer := pendingOfferFor(t, kernel.NewUUID(), courierID)

	offerRepo := &MockOfferRepository{}
	offerRepo.On("Get", ctx, pendingOffer.ID()).Return(pendingOffer, nil)
	// the expiry sweep or a concurrent accept resolved the row first
	offerRepo.On("Resolve", ctx, mock.Anything).Return(offer.ErrOfferNoLongerValid)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OfferRepository").Return(offerRepo)
	uow.On("Rollback", ctx).Return(nil)

	publisher := &MockEventPublisher{}

	cmd, err := commands.NewAcceptOfferCommand(pendingOffer.ID(), courierID)
	require.NoError(t, err)

	handler := commands.NewAcceptOfferCommandHandler(stubDispatchUoWFactory{uow: uow}, publisher)
	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, offer.ErrOfferNoLongerValid)
	uow.AssertNotCalled(t, "Commit", ctx)
	publisher.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestAcceptOfferCommandHandler_Handle_RejectsPastDeadline(t *testing.T) {
	ctx := t.Context()

	courierID := kernel.NewUUID()
	expired, err := offer.NewOffer(
		kernel.NewUUID(), kernel.NewUUID(), courierID,
		1, time.Now().UTC().Add(-time.Minute), 30*time.Second,
	)
	require.NoError(t, err)

	offerRepo := &MockOfferRepository{}
	offerRepo.On("Get", ctx, expired.ID()).Return(expired, nil)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OfferRepository").Return(offerRepo)
	uow.On("Rollback", ctx).Return(nil)

	cmd, err := commands.NewAcceptOfferCommand(expired.ID(), courierID)
	require.NoError(t, err)

	handler := commands.NewAcceptOfferCommandHandler(stubDispatchUoWFactory{uow: uow}, &MockEventPublisher{})
	err = handler.Handle(ctx, cmd)

	assert.ErrorIs(t, err, offer.ErrOfferNoLongerValid)
	offerRepo.AssertNotCalled(t, "Resolve", mock.Anything, mock.Anything)
}

func TestAcceptOfferCommandHandler_Handle_RejectsWrongCourier(t *testing.T) {
	ctx := t.Context()

	pendingOffer := pendingOfferFor(t, kernel.NewUUID(), kernel.NewUUID())
	stranger := kernel.NewUUID()

	offerRepo := &MockOfferRepository{}
	offerRepo.On("Get", ctx, pendingOffer.ID()).Return(pendingOffer, nil)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OfferRepository").Return(offerRepo)
	uow.On("Rollback", ctx).Return(nil)

	cmd, err := commands.NewAcceptOfferCommand(pendingOffer.ID(), stranger)
	require.NoError(t, err)

	handler := commands.NewAcceptOfferCommandHandler(stubDispatchUoWFactory{uow: uow}, &MockEventPublisher{})

	assert.ErrorIs(t, handler.Handle(ctx, cmd), offer.ErrOfferNoLongerValid)
}
