package commands_test

import (
	"errors"
	"log/slog"
	"testing"

	"circulation/internal/core/application/usecases/commands"
	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/core/domain/services"
	"circulation/internal/pkg/locker"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTriggerOrderHandler(
	factory commands.UoWFactory,
	notifier *MockWorkCompleteNotifier,
) commands.TriggerOrderEventCommandHandler {
	return commands.NewTriggerOrderEventCommandHandler(
		factory,
		services.NewWorkflowService(),
		locker.NewRegistry(),
		notifier,
		slog.New(slog.DiscardHandler),
	)
}

func TestTriggerOrderEventCommandHandler_Handle_ConfirmCascadesToItems(t *testing.T) {
	ctx := t.Context()
	testOrder := newTestOrder(t, order.Standard)
	testItem := newTestItem(t, false)
	require.NoError(t, testOrder.AddItem(testItem.ID()))

	cmd, err := commands.NewTriggerOrderEventCommand(
		testOrder.ID(), order.EventConfirm, kernel.NewUUID(), "", true,
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
	orderRepo.On("Update", mock.Anything, testOrder).Return(nil).Once()
	itemRepo.On("Update", mock.Anything, testItem).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockWorkCompleteNotifier)

	h := newTriggerOrderHandler(factory, notifier)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Equal(t, order.StateConfirmed, testOrder.CurrentState())
	require.Equal(t, item.StateOrdered, testItem.CurrentState())
	orderRepo.AssertExpectations(t)
	itemRepo.AssertExpectations(t)
	uow.AssertExpectations(t)
	notifier.AssertNotCalled(t, "Notify", mock.Anything, mock.Anything)
}

func TestTriggerOrderEventCommandHandler_Handle_DeniedEventIsQuietNoOp(t *testing.T) {
	ctx := t.Context()
	testOrder := newTestOrder(t, order.Standard)

	// fulfill is never permitted from pending
	cmd, err := commands.NewTriggerOrderEventCommand(
		testOrder.ID(), order.EventFulfill, kernel.NewUUID(), "", false,
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
	uow.On("Rollback", ctx).Return(nil)

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newTriggerOrderHandler(factory, new(MockWorkCompleteNotifier))
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Equal(t, order.StatePending, testOrder.CurrentState())
	orderRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestTriggerOrderEventCommandHandler_Handle_StrictDeniedEventFails(t *testing.T) {
	ctx := t.Context()
	testOrder := newTestOrder(t, order.Standard)

	cmd, err := commands.NewTriggerOrderEventCommand(
		testOrder.ID(), order.EventFulfill, kernel.NewUUID(), "", true,
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

	h := newTriggerOrderHandler(factory, new(MockWorkCompleteNotifier))
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, statemachine.ErrTransitionNotPermitted)
}

func TestTriggerOrderEventCommandHandler_Handle_CompleteWorkNotifiesAfterCommit(t *testing.T) {
	ctx := t.Context()
	testOrder := newTestOrder(t, order.Reproduction)

	// Advance the reproduction order into in_progress first
	userID := kernel.NewUUID()
	md := statemachine.Metadata{UserID: &userID}
	_, _, err := testOrder.TriggerStrict(order.EventBeginWork, md, order.Readiness{AnyItemReady: true})
	require.NoError(t, err)
	testOrder.MarkCommitted()

	cmd, err := commands.NewTriggerOrderEventCommand(
		testOrder.ID(), order.EventCompleteWork, userID, "box 12, folders 3-4", true,
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
	orderRepo.On("Update", mock.Anything, testOrder).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockWorkCompleteNotifier)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n services.WorkCompleteNotice) bool {
		return n.OrderID.IsEqual(testOrder.ID()) && n.RequestContext == "box 12, folders 3-4"
	})).Return(nil).Once()

	h := newTriggerOrderHandler(factory, notifier)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)

	require.Equal(t, order.StateWorkComplete, testOrder.CurrentState())
	notifier.AssertExpectations(t)
}

func TestTriggerOrderEventCommandHandler_Handle_NotifierFailureDoesNotFailCommand(t *testing.T) {
	ctx := t.Context()
	testOrder := newTestOrder(t, order.Reproduction)

	userID := kernel.NewUUID()
	md := statemachine.Metadata{UserID: &userID}
	_, _, err := testOrder.TriggerStrict(order.EventBeginWork, md, order.Readiness{AnyItemReady: true})
	require.NoError(t, err)
	testOrder.MarkCommitted()

	cmd, err := commands.NewTriggerOrderEventCommand(
		testOrder.ID(), order.EventCompleteWork, userID, "", true,
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
	orderRepo.On("Update", mock.Anything, testOrder).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	factory := new(MockUoWFactory)
	factory.On("Create").Return(uow).Once()

	notifier := new(MockWorkCompleteNotifier)
	notifier.On("Notify", mock.Anything, mock.Anything).Return(errors.New("webhook down")).Once()

	h := newTriggerOrderHandler(factory, notifier)
	err = h.Handle(ctx, cmd)
	require.NoError(t, err, "notification delivery is fire-and-forget")
	notifier.AssertExpectations(t)
}
