package commands

import (
	"errors"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/pkg/guard"
)

var ErrAddItemToOrderCommandIsNotConstructed = errors.New(
	"AddItemToOrderCommand must be created via NewAddItemToOrderCommand constructor",
)

// AddItemToOrderCommand represents a request to attach an item to an order
// as an active membership.
type AddItemToOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	itemID  kernel.UUID

	guard guard.ConstructorGuard
}

// NewAddItemToOrderCommand creates a command to attach an item to an order.
func NewAddItemToOrderCommand(orderID, itemID kernel.UUID) (AddItemToOrderCommand, error) {
	cmd := AddItemToOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setItemID(itemID),
	); err != nil {
		return AddItemToOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c AddItemToOrderCommand) Validate() error {
	return c.guard.Validate(ErrAddItemToOrderCommandIsNotConstructed)
}

// OrderID returns the order receiving the membership.
func (c AddItemToOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// ItemID returns the item being attached.
func (c AddItemToOrderCommand) ItemID() kernel.UUID {
	return c.itemID
}

func (c *AddItemToOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *AddItemToOrderCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}
