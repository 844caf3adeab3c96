package commands_test

import (
	"testing"

	"circulation/internal/core/application/usecases/commands"
	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/core/domain/services"
	"circulation/internal/pkg/errs"
	"circulation/internal/pkg/locker"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTriggerItemHandler(factory commands.UoWFactory) commands.TriggerItemEventCommandHandler {
	return commands.NewTriggerItemEventCommandHandler(
		factory,
		services.NewWorkflowService(),
		locker.NewRegistry(),
	)
}

// advanceItem fires a sequence of events scoped to the given order so the
// item carries the per-order reach history the readiness predicates read.
func advanceItem(t *testing.T, i *item.Item, orderID kernel.UUID, events ...statemachine.Event) {
	t.Helper()
	userID := kernel.NewUUID()
	md := statemachine.Metadata{UserID: &userID, OrderID: &orderID}
	for _, event := range events {
		_, _, err := i.TriggerStrict(event, md)
		require.NoError(t, err)
	}
	i.MarkCommitted()
}

func TestTriggerItemEventCommandHandler_Handle_ReceivePromotesScopedOrder(t *testing.T) {
	ctx := t.Context()
	testOrder := newTestOrder(t, order.Standard)
	testItem := newTestItem(t, false)
	require.NoError(t, testOrder.AddItem(testItem.ID()))

	userID := kernel.NewUUID()
	md := statemachine.Metadata{UserID: &userID}
	_, _, err := testOrder.TriggerStrict(order.EventConfirm, md, order.Readiness{})
	require.NoError(t, err)
	testOrder.MarkCommitted()
	advanceItem(t, testItem, testOrder.ID(), item.EventOrder, item.EventSend)

	orderID := testOrder.ID()
	roomID := *testOrder.LocationID()
	cmd, err := commands.NewTriggerItemEventCommand(
		testItem.ID(), item.EventReceive, userID, &orderID, &roomID, true,
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	itemRepo := new(MockItemRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("ItemRepository").Return(itemRepo)
	orderRepo.On("Get", mock.Anything, testOrder.ID()).Return(testOrder, nil).Once()
	itemRepo.On("GetByOrder", mock.Anything, testOrder.ID()).Return([]*item.Item{testItem}, nil).Once()
	itemRepo.On("Update", mock.Anything, testItem).Return(nil).Once()
	orderRepo.On("Update", mock.Anything, testOrder).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newTriggerItemHandler(factory)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Equal(t, item.StateReadyAtTemporaryLocation, testItem.CurrentState())
	// The arrival made the single member ready, so the cascade fulfilled
	// the scoping order in the same unit.
	require.Equal(t, order.StateFulfilled, testOrder.CurrentState())
	orderRepo.AssertExpectations(t)
	itemRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestTriggerItemEventCommandHandler_Handle_UnscopedEvent(t *testing.T) {
	ctx := t.Context()
	testItem := newTestItem(t, false)
	advanceItem(t, testItem, kernel.NewUUID(), item.EventOrder)

	cmd, err := commands.NewTriggerItemEventCommand(
		testItem.ID(), item.EventSend, kernel.NewUUID(), nil, nil, true,
	)
	require.NoError(t, err)

	itemRepo := new(MockItemRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ItemRepository").Return(itemRepo)
	itemRepo.On("Get", mock.Anything, testItem.ID()).Return(testItem, nil).Once()
	itemRepo.On("Update", mock.Anything, testItem).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newTriggerItemHandler(factory)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, item.StateInTransitToTemporaryLocation, testItem.CurrentState())
}

func TestTriggerItemEventCommandHandler_Handle_ItemNotMemberOfOrder(t *testing.T) {
	ctx := t.Context()
	testOrder := newTestOrder(t, order.Standard)
	strayItem := newTestItem(t, false)

	orderID := testOrder.ID()
	cmd, err := commands.NewTriggerItemEventCommand(
		strayItem.ID(), item.EventReceive, kernel.NewUUID(), &orderID, nil, true,
	)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	itemRepo := new(MockItemRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("ItemRepository").Return(itemRepo)
	orderRepo.On("Get", mock.Anything, testOrder.ID()).Return(testOrder, nil).Once()
	itemRepo.On("GetByOrder", mock.Anything, testOrder.ID()).Return([]*item.Item{}, nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newTriggerItemHandler(factory)
	err = h.Handle(ctx, cmd)

	var notFound *errs.ObjectNotFoundError
	require.ErrorAs(t, err, &notFound)
	itemRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTriggerItemEventCommandHandler_Handle_DeniedEventIsQuietNoOp(t *testing.T) {
	ctx := t.Context()
	testItem := newTestItem(t, false)

	// receive is not permitted from at_permanent_location
	cmd, err := commands.NewTriggerItemEventCommand(
		testItem.ID(), item.EventReceive, kernel.NewUUID(), nil, nil, false,
	)
	require.NoError(t, err)

	itemRepo := new(MockItemRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("ItemRepository").Return(itemRepo)
	itemRepo.On("Get", mock.Anything, testItem.ID()).Return(testItem, nil).Once()
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newTriggerItemHandler(factory)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, item.StateAtPermanentLocation, testItem.CurrentState())
	itemRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
