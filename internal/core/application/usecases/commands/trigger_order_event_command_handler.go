package commands

import (
	"context"
	"log/slog"

	"circulation/internal/core/domain/services"
	"circulation/internal/core/ports"
	"circulation/internal/pkg/locker"
)

// TriggerOrderEventCommandHandler executes one trigger-and-cascade unit on
// an order. The order lock is taken before the member item locks, and the
// transition, its cascaded item transitions, and all membership bookkeeping
// commit in a single transaction. Work-complete notifications go out after
// commit; a delivery failure is logged, never rolled back.
type TriggerOrderEventCommandHandler struct {
	uowFactory UoWFactory
	workflow   services.WorkflowService
	locks      *locker.Registry
	notifier   ports.WorkCompleteNotifier
	logger     *slog.Logger
}

// NewTriggerOrderEventCommandHandler creates a handler for order trigger operations.
func NewTriggerOrderEventCommandHandler(
	uowFactory UoWFactory,
	workflow services.WorkflowService,
	locks *locker.Registry,
	notifier ports.WorkCompleteNotifier,
	logger *slog.Logger,
) TriggerOrderEventCommandHandler {
	return TriggerOrderEventCommandHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
		locks:      locks,
		notifier:   notifier,
		logger:     logger.With("component", "trigger_order_event"),
	}
}

// Handle processes the order trigger command.
func (h *TriggerOrderEventCommandHandler) Handle(ctx context.Context, cmd TriggerOrderEventCommand) error {
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

	items, err := uow.ItemRepository().GetByOrder(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	// The order lock is already held; member items follow in ascending order.
	releaseItems := h.locks.Acquire(itemLockKeys(items)...)
	defer releaseItems()

	var result *services.TriggerResult
	if cmd.Strict() {
		result, err = h.workflow.TriggerOrderStrict(aggregate, items, cmd.Event(), cmd.Metadata())
	} else {
		result, err = h.workflow.TriggerOrder(aggregate, items, cmd.Event(), cmd.Metadata())
	}
	if err != nil {
		return err
	}

	if !result.Triggered() {
		return uow.Rollback(ctx)
	}

	if err = uow.OrderRepository().Update(ctx, aggregate); err != nil {
		return err
	}

	for _, memberItem := range items {
		if len(memberItem.UncommittedTransitions()) == 0 {
			continue
		}
		if err = uow.ItemRepository().Update(ctx, memberItem); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if result.Notice != nil {
		if notifyErr := h.notifier.Notify(ctx, *result.Notice); notifyErr != nil {
			h.logger.Error("work complete notification failed",
				"order_id", result.Notice.OrderID.String(),
				"error", notifyErr)
		}
	}

	return nil
}
