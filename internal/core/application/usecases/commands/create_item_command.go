package commands

import (
	"errors"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/pkg/guard"
)

var ErrCreateItemCommandIsNotConstructed = errors.New(
	"CreateItemCommand must be created via NewCreateItemCommand constructor",
)

// CreateItemCommand represents a request to register a new archival item
// resting at its permanent storage location.
type CreateItemCommand struct { //nolint:recvcheck //using for validation
	itemID              kernel.UUID
	digital             bool
	permanentLocationID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCreateItemCommand creates a command to register a new item.
// Validates the item ID and the permanent location reference.
func NewCreateItemCommand(itemID kernel.UUID, digital bool, permanentLocationID kernel.UUID) (CreateItemCommand, error) {
	itemCommand := CreateItemCommand{
		digital: digital,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		itemCommand.setItemID(itemID),
		itemCommand.setPermanentLocationID(permanentLocationID),
	); err != nil {
		return CreateItemCommand{}, err
	}

	return itemCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateItemCommandIsNotConstructed if validation fails.
func (c CreateItemCommand) Validate() error {
	return c.guard.Validate(ErrCreateItemCommandIsNotConstructed)
}

// ItemID returns the unique identifier for the item.
func (c CreateItemCommand) ItemID() kernel.UUID {
	return c.itemID
}

// Digital reports whether the item is a digital surrogate.
func (c CreateItemCommand) Digital() bool {
	return c.digital
}

// PermanentLocationID returns the item's permanent storage location.
func (c CreateItemCommand) PermanentLocationID() kernel.UUID {
	return c.permanentLocationID
}

func (c *CreateItemCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}

func (c *CreateItemCommand) setPermanentLocationID(locationID kernel.UUID) error {
	if err := locationID.Validate(); err != nil {
		return err
	}

	c.permanentLocationID = locationID
	return nil
}
