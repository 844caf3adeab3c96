package commands

import (
	"context"

	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/core/domain/services"
	"circulation/internal/pkg/errs"
	"circulation/internal/pkg/locker"
)

// TriggerItemEventCommandHandler executes one trigger-and-cascade unit on an
// item. When the command carries an order scope the handler locks the order
// before the item and loads the order's full member set, so item-side
// promotions (fulfill-if-ready, membership release on restock) happen inside
// the same transaction as the item transition.
type TriggerItemEventCommandHandler struct {
	uowFactory UoWFactory
	workflow   services.WorkflowService
	locks      *locker.Registry
}

// NewTriggerItemEventCommandHandler creates a handler for item trigger operations.
func NewTriggerItemEventCommandHandler(
	uowFactory UoWFactory,
	workflow services.WorkflowService,
	locks *locker.Registry,
) TriggerItemEventCommandHandler {
	return TriggerItemEventCommandHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
		locks:      locks,
	}
}

// Handle processes the item trigger command.
func (h *TriggerItemEventCommandHandler) Handle(ctx context.Context, cmd TriggerItemEventCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	if cmd.OrderID() != nil {
		release := h.locks.Acquire(orderLockKey(*cmd.OrderID()))
		defer release()
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	var (
		scopingOrder *order.Order
		items        []*item.Item
		target       *item.Item
		err          error
	)

	if cmd.OrderID() != nil {
		scopingOrder, err = uow.OrderRepository().Get(ctx, *cmd.OrderID())
		if err != nil {
			return err
		}

		items, err = uow.ItemRepository().GetByOrder(ctx, *cmd.OrderID())
		if err != nil {
			return err
		}

		releaseItems := h.locks.Acquire(itemLockKeys(items)...)
		defer releaseItems()

		for _, memberItem := range items {
			if memberItem.ID().IsEqual(cmd.ItemID()) {
				target = memberItem
				break
			}
		}
		if target == nil {
			return errs.NewObjectNotFoundError("order item", cmd.ItemID().String())
		}
	} else {
		release := h.locks.Acquire(itemLockKey(cmd.ItemID()))
		defer release()

		target, err = uow.ItemRepository().Get(ctx, cmd.ItemID())
		if err != nil {
			return err
		}
		items = []*item.Item{target}
	}

	var result *services.TriggerResult
	if cmd.Strict() {
		result, err = h.workflow.TriggerItemStrict(target, scopingOrder, items, cmd.Event(), cmd.Metadata())
	} else {
		result, err = h.workflow.TriggerItem(target, scopingOrder, items, cmd.Event(), cmd.Metadata())
	}
	if err != nil {
		return err
	}

	if !result.Triggered() {
		return uow.Rollback(ctx)
	}

	for _, memberItem := range items {
		if len(memberItem.UncommittedTransitions()) == 0 {
			continue
		}
		if err = uow.ItemRepository().Update(ctx, memberItem); err != nil {
			return err
		}
	}

	// The scoping order may have gained a fulfill transition or lost a
	// membership during the cascade.
	if scopingOrder != nil {
		if err = uow.OrderRepository().Update(ctx, scopingOrder); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
