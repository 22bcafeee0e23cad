package commands_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

func newCreateOrderCommand(t *testing.T) commands.CreateOrderCommand {
	t.Helper()

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		testGeoAddress(t, "12 Market St", 37.79, -122.41),
		testGeoAddress(t, "500 Harrison Ave", 37.78, -122.39),
		kernel.Money(5000), kernel.Money(900), order.PaymentCash,
	)
	require.NoError(t, err)

	return cmd
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd := newCreateOrderCommand(t)

	orderRepo := &MockOrderRepository{}
	orderRepo.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool {
		return o.ID().IsEqual(cmd.OrderID()) &&
			o.Status() == order.PendingAssignment &&
			o.Number() != "" &&
			o.ConfirmationCode() != ""
	})).Return(nil)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewCreateOrderCommandHandler(stubOrderUoWFactory{uow: uow})
	require.NoError(t, handler.Handle(ctx, cmd))

	orderRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_RollsBackOnAddFailure(t *testing.T) {
	ctx := t.Context()
	errStorage := errors.New("storage down")

	orderRepo := &MockOrderRepository{}
	orderRepo.On("Add", ctx, mock.Anything).Return(errStorage)

	uow := &MockUoW{}
	uow.On("Begin", ctx).Return(nil)
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("Rollback", ctx).Return(nil)

	handler := commands.NewCreateOrderCommandHandler(stubOrderUoWFactory{uow: uow})
	err := handler.Handle(ctx, newCreateOrderCommand(t))

	assert.ErrorIs(t, err, errStorage)
	uow.AssertNotCalled(t, "Commit", ctx)
}
