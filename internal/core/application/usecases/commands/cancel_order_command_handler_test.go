package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/courier"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

func TestCancelOrderCommandHandler_Handle_FreesAssignedCourier(t *testing.T) {
	ctx := t.Context()

	courierAggregate := deliveringTestCourier(t, "Dana")
	aggregate := assignedTestOrder(t, courierAggregate.ID())

	orderRepo := &MockOrderRepository{}
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	orderRepo.On("Update", ctx, mock.MatchedBy(func(o *order.Order) bool {
		return o.Status() == order.Cancelled && o.CancelReason() == "restaurant_closed"
	})).Return(nil)

	courierRepo := &MockCourierRepository{}
	courierRepo.On("Get", ctx, courierAggregate.ID()).Return(courierAggregate, nil)
	courierRepo.On("Update", ctx, mock.MatchedBy(func(c *courier.Courier) bool {
		return c.Availability() == courier.Available
	})).Return(nil)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("CourierRepository").Return(courierRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	publisher := &MockEventPublisher{}
	publisher.On("Publish", ctx, mock.MatchedBy(func(events []order.Event) bool {
		return len(events) == 1 && events[0].Name() == "order.cancelled"
	})).Return(nil)

	cmd, err := commands.NewCancelOrderCommand(
		aggregate.ID(), order.AdminActor(kernel.NewUUID()), "restaurant_closed",
	)
	require.NoError(t, err)

	handler := commands.NewCancelOrderCommandHandler(stubDispatchUoWFactory{uow: uow}, publisher)
	require.NoError(t, handler.Handle(ctx, cmd))

	orderRepo.AssertExpectations(t)
	courierRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCancelOrderCommandHandler_Handle_RepeatCancelIsNoOp(t *testing.T) {
	ctx := t.Context()

	aggregate := pendingTestOrder(t)
	require.NoError(t, aggregate.Cancel(order.SystemActor(), "customer_request", aggregate.Timestamps().CreatedAt))
	aggregate.TakeEvents()

	orderRepo := &MockOrderRepository{}
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)

	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), order.SystemActor(), "customer_request")
	require.NoError(t, err)

	handler := commands.NewCancelOrderCommandHandler(stubDispatchUoWFactory{uow: uow}, &MockEventPublisher{})
	require.NoError(t, handler.Handle(ctx, cmd))

	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestCancelOrderCommandHandler_Handle_RejectsCourierActor(t *testing.T) {
	ctx := t.Context()

	courierID := kernel.NewUUID()
	aggregate := assignedTestOrder(t, courierID)

	orderRepo := &MockOrderRepository{}
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)

	cmd, err := commands.NewCancelOrderCommand(aggregate.ID(), order.CourierActor(courierID), "changed_my_mind")
	require.NoError(t, err)

	handler := commands.NewCancelOrderCommandHandler(stubDispatchUoWFactory{uow: uow}, &MockEventPublisher{})

	assert.ErrorIs(t, handler.Handle(ctx, cmd), order.ErrUnauthorizedActor)
}
