package commands

import (
	"context"

	"circulation/internal/pkg/locker"
)

// AddItemToOrderCommandHandler attaches items to orders. The item must
// already be registered; attaching an item that is already an active member
// fails with order.ErrItemAlreadyMember. A stale (deactivated) membership is
// reactivated instead of duplicated.
type AddItemToOrderCommandHandler struct {
	uowFactory UoWFactory
	locks      *locker.Registry
}

// NewAddItemToOrderCommandHandler creates a handler for membership changes.
func NewAddItemToOrderCommandHandler(uowFactory UoWFactory, locks *locker.Registry) AddItemToOrderCommandHandler {
	return AddItemToOrderCommandHandler{
		uowFactory: uowFactory,
		locks:      locks,
	}
}

// Handle processes the membership command. The order lock serializes the
// change against concurrent triggers on the same order.
func (h *AddItemToOrderCommandHandler) Handle(ctx context.Context, cmd AddItemToOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	release := h.locks.Acquire(orderLockKey(cmd.OrderID()))
	defer release()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	// The item must exist; membership references are never dangling.
	if _, err = uow.ItemRepository().Get(ctx, cmd.ItemID()); err != nil {
		return err
	}

	if err = aggregate.AddItem(cmd.ItemID()); err != nil {
		return err
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
