package commands_test

import (
	"testing"

	"circulation/internal/core/application/usecases/commands"
	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/pkg/locker"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestOrder(t *testing.T, variant order.Variant) *order.Order {
	t.Helper()
	locationID := kernel.NewUUID()
	o, err := order.NewOrder(kernel.NewUUID(), variant, nil, &locationID, []string{"archivist"})
	require.NoError(t, err)
	return o
}

func newTestItem(t *testing.T, digital bool) *item.Item {
	t.Helper()
	i, err := item.NewItem(kernel.NewUUID(), digital, kernel.NewUUID())
	require.NoError(t, err)
	return i
}

func TestAddItemToOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	testOrder := newTestOrder(t, order.Standard)
	testItem := newTestItem(t, false)

	cmd, err := commands.NewAddItemToOrderCommand(testOrder.ID(), testItem.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	itemRepo := new(MockItemRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("ItemRepository").Return(itemRepo).Once(),
		itemRepo.On("Get", mock.Anything, testItem.ID()).Return(testItem, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", mock.Anything, testOrder).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAddItemToOrderCommandHandler(factory, locker.NewRegistry())
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.True(t, testOrder.HasActiveMembership(testItem.ID()))
	orderRepo.AssertExpectations(t)
	itemRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestAddItemToOrderCommandHandler_Handle_DuplicateActiveMembership(t *testing.T) {
	ctx := t.Context()
	testOrder := newTestOrder(t, order.Standard)
	testItem := newTestItem(t, false)
	require.NoError(t, testOrder.AddItem(testItem.ID()))

	cmd, err := commands.NewAddItemToOrderCommand(testOrder.ID(), testItem.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	itemRepo := new(MockItemRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, testOrder.ID()).Return(testOrder, nil).Once(),
		uow.On("ItemRepository").Return(itemRepo).Once(),
		itemRepo.On("Get", mock.Anything, testItem.ID()).Return(testItem, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAddItemToOrderCommandHandler(factory, locker.NewRegistry())
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrItemAlreadyMember)
	uow.AssertExpectations(t)
}

func TestAddItemToOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockUoWFactory)
	h := commands.NewAddItemToOrderCommandHandler(factory, locker.NewRegistry())
	err := h.Handle(ctx, commands.AddItemToOrderCommand{})
	require.ErrorIs(t, err, commands.ErrAddItemToOrderCommandIsNotConstructed)
}
