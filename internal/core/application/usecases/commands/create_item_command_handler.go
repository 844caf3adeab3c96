package commands

import (
	"context"

	"circulation/internal/core/domain/model/item"
)

// CreateItemCommandHandler handles the business logic for item registration.
// New items start at their permanent location in the at_permanent_location
// workflow state.
type CreateItemCommandHandler struct {
	uowFactory ItemUoWFactory
}

// NewCreateItemCommandHandler creates a handler for item registration operations.
// Requires an ItemUoWFactory for transactional persistence.
func NewCreateItemCommandHandler(uowFactory ItemUoWFactory) CreateItemCommandHandler {
	return CreateItemCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the item registration command.
func (h *CreateItemCommandHandler) Handle(ctx context.Context, cmd CreateItemCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	aggregate, err := item.NewItem(cmd.ItemID(), cmd.Digital(), cmd.PermanentLocationID())
	if err != nil {
		return err
	}

	if err = uow.ItemRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
