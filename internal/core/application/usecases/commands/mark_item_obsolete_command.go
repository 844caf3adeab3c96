package commands

import (
	"errors"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/pkg/guard"
)

var ErrMarkItemObsoleteCommandIsNotConstructed = errors.New(
	"MarkItemObsoleteCommand must be created via NewMarkItemObsoleteCommand constructor",
)

// MarkItemObsoleteCommand represents a request to retire an item from
// circulation. Marking an item obsolete is idempotent and records no
// workflow transition.
type MarkItemObsoleteCommand struct { //nolint:recvcheck //using for validation
	itemID kernel.UUID

	guard guard.ConstructorGuard
}

// NewMarkItemObsoleteCommand creates a command to retire an item.
func NewMarkItemObsoleteCommand(itemID kernel.UUID) (MarkItemObsoleteCommand, error) {
	cmd := MarkItemObsoleteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cmd.setItemID(itemID); err != nil {
		return MarkItemObsoleteCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkItemObsoleteCommand) Validate() error {
	return c.guard.Validate(ErrMarkItemObsoleteCommandIsNotConstructed)
}

// ItemID returns the item to retire.
func (c MarkItemObsoleteCommand) ItemID() kernel.UUID {
	return c.itemID
}

func (c *MarkItemObsoleteCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}
