package commands

import (
	"context"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/core/domain/services"
	"circulation/internal/pkg/locker"
)

// FulfillReadyOrdersCommandHandler sweeps confirmed standard orders and
// promotes those whose member items are all ready. Each order is processed
// in its own transaction so one failing order does not hold back the rest.
type FulfillReadyOrdersCommandHandler struct {
	uowFactory UoWFactory
	workflow   services.WorkflowService
	locks      *locker.Registry
}

// NewFulfillReadyOrdersCommandHandler creates a handler for fulfillment sweeps.
func NewFulfillReadyOrdersCommandHandler(
	uowFactory UoWFactory,
	workflow services.WorkflowService,
	locks *locker.Registry,
) FulfillReadyOrdersCommandHandler {
	return FulfillReadyOrdersCommandHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
		locks:      locks,
	}
}

// Handle processes the fulfillment sweep command.
func (h *FulfillReadyOrdersCommandHandler) Handle(ctx context.Context, cmd FulfillReadyOrdersCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	// Candidate IDs come from a read outside any lock; each candidate is
	// re-read under its lock before deciding.
	listUow := h.uowFactory.Create()
	candidates, err := listUow.OrderRepository().GetAllConfirmedStandard(ctx)
	if err != nil {
		return err
	}

	userID := cmd.UserID()
	md := statemachine.Metadata{UserID: &userID}

	for _, candidate := range candidates {
		if err := h.fulfillOne(ctx, candidate.ID(), md); err != nil {
			return err
		}
	}

	return nil
}

func (h *FulfillReadyOrdersCommandHandler) fulfillOne(
	ctx context.Context,
	orderID kernel.UUID,
	md statemachine.Metadata,
) error {
	release := h.locks.Acquire(orderLockKey(orderID))
	defer release()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return err
	}

	items, err := uow.ItemRepository().GetByOrder(ctx, orderID)
	if err != nil {
		return err
	}

	releaseItems := h.locks.Acquire(itemLockKeys(items)...)
	defer releaseItems()

	transition, err := h.workflow.FulfillIfItemsReady(aggregate, items, md)
	if err != nil {
		return err
	}

	if transition == nil {
		return uow.Rollback(ctx)
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
