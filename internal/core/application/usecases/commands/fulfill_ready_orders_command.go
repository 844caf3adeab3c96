package commands

import (
	"errors"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/pkg/guard"
)

// FulfillReadyOrdersCommand promotes every confirmed standard order whose
// member items are all ready. This batch operation is the scheduler-driven
// counterpart of the per-arrival promotion that fires when an item is
// received.
//
// Example:
//
//	cmd := NewFulfillReadyOrdersCommand(systemUserID)
//	handler := NewFulfillReadyOrdersCommandHandler(uowFactory, workflow, locks)
//
//	// Run periodically to sweep orders whose readiness was reached
//	// out-of-band (obsolete markings, membership changes).
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Fulfillment sweep failed: %v", err)
//	}
type FulfillReadyOrdersCommand struct {
	userID kernel.UUID

	guard guard.ConstructorGuard
}

var ErrFulfillReadyOrdersCommandIsNotConstructed = errors.New(
	"FulfillReadyOrdersCommand must be created via NewFulfillReadyOrdersCommand constructor",
)

// NewFulfillReadyOrdersCommand creates a command to sweep ready orders.
// The user is the system account the resulting transitions are attributed to.
func NewFulfillReadyOrdersCommand(userID kernel.UUID) (FulfillReadyOrdersCommand, error) {
	if err := userID.Validate(); err != nil {
		return FulfillReadyOrdersCommand{}, err
	}

	return FulfillReadyOrdersCommand{
		userID: userID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrFulfillReadyOrdersCommandIsNotConstructed if validation fails.
func (c *FulfillReadyOrdersCommand) Validate() error {
	return c.guard.Validate(ErrFulfillReadyOrdersCommandIsNotConstructed)
}

// UserID returns the system account fulfillments are attributed to.
func (c *FulfillReadyOrdersCommand) UserID() kernel.UUID {
	return c.userID
}
