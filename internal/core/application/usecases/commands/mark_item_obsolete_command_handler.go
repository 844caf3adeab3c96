package commands

import (
	"context"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/ports"
	"circulation/internal/pkg/locker"
)

// MarkItemObsoleteCommandHandler retires items from circulation. The catalog
// system of record is consulted first; items the catalog still needs cannot
// be retired. Retirement releases the item's active order memberships in
// the same transaction, so readiness and close eligibility stop counting
// the retired item.
type MarkItemObsoleteCommandHandler struct {
	uowFactory UoWFactory
	catalog    ports.CatalogClient
	locks      *locker.Registry
}

// NewMarkItemObsoleteCommandHandler creates a handler for item retirement operations.
func NewMarkItemObsoleteCommandHandler(
	uowFactory UoWFactory,
	catalog ports.CatalogClient,
	locks *locker.Registry,
) MarkItemObsoleteCommandHandler {
	return MarkItemObsoleteCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		locks:      locks,
	}
}

// Handle processes the retirement command. Retiring an already obsolete
// item succeeds without changes.
//
// The affected order IDs are read up front so the locks can be taken in
// the canonical order, orders before the item; the membership set is then
// re-read inside the transaction under those locks.
func (h *MarkItemObsoleteCommandHandler) Handle(ctx context.Context, cmd MarkItemObsoleteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	eligible, err := h.catalog.ObsoleteEligible(ctx, cmd.ItemID())
	if err != nil {
		return err
	}

	affected, err := h.affectedOrderIDs(ctx, cmd.ItemID())
	if err != nil {
		return err
	}

	release := h.locks.Acquire(append(orderLockKeys(affected), itemLockKey(cmd.ItemID()))...)
	defer release()

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := uow.ItemRepository().Get(ctx, cmd.ItemID())
	if err != nil {
		return err
	}

	if err = aggregate.MarkObsolete(eligible); err != nil {
		return err
	}

	holders, err := uow.OrderRepository().GetAllByItem(ctx, cmd.ItemID())
	if err != nil {
		return err
	}

	for _, holder := range holders {
		holder.DeactivateMembership(cmd.ItemID())
		if err = uow.OrderRepository().Update(ctx, holder); err != nil {
			return err
		}
	}

	if err = uow.ItemRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// affectedOrderIDs lists the orders holding an active membership for the
// item, read in a short transaction of its own before any lock is taken.
func (h *MarkItemObsoleteCommandHandler) affectedOrderIDs(ctx context.Context, itemID kernel.UUID) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	holders, err := uow.OrderRepository().GetAllByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(holders))
	for _, holder := range holders {
		ids = append(ids, holder.ID())
	}
	return ids, nil
}
