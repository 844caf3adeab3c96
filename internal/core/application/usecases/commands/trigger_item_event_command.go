package commands

import (
	"errors"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/errs"
	"circulation/internal/pkg/guard"
)

var ErrTriggerItemEventCommandIsNotConstructed = errors.New(
	"TriggerItemEventCommand must be created via NewTriggerItemEventCommand constructor",
)

// TriggerItemEventCommand represents a request to fire a workflow event on
// an item. An order scope attributes the movement to an order and lets
// arrivals promote that order; a location reference records where the item
// was received.
type TriggerItemEventCommand struct { //nolint:recvcheck //using for validation
	itemID     kernel.UUID
	event      statemachine.Event
	userID     kernel.UUID
	orderID    *kernel.UUID
	locationID *kernel.UUID
	strict     bool

	guard guard.ConstructorGuard
}

// NewTriggerItemEventCommand creates a command to fire an item event.
// The acting user is required: every transition must be attributable.
func NewTriggerItemEventCommand(
	itemID kernel.UUID,
	event statemachine.Event,
	userID kernel.UUID,
	orderID *kernel.UUID,
	locationID *kernel.UUID,
	strict bool,
) (TriggerItemEventCommand, error) {
	cmd := TriggerItemEventCommand{
		strict: strict,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setItemID(itemID),
		cmd.setEvent(event),
		cmd.setUserID(userID),
		cmd.setOrderID(orderID),
		cmd.setLocationID(locationID),
	); err != nil {
		return TriggerItemEventCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TriggerItemEventCommand) Validate() error {
	return c.guard.Validate(ErrTriggerItemEventCommandIsNotConstructed)
}

// ItemID returns the item the event targets.
func (c TriggerItemEventCommand) ItemID() kernel.UUID {
	return c.itemID
}

// Event returns the workflow event to fire.
func (c TriggerItemEventCommand) Event() statemachine.Event {
	return c.event
}

// UserID returns the acting user.
func (c TriggerItemEventCommand) UserID() kernel.UUID {
	return c.userID
}

// OrderID returns the scoping order, if any.
func (c TriggerItemEventCommand) OrderID() *kernel.UUID {
	return c.orderID
}

// LocationID returns the location reference carried by the event, if any.
func (c TriggerItemEventCommand) LocationID() *kernel.UUID {
	return c.locationID
}

// Strict reports whether a denied event should fail instead of no-op.
func (c TriggerItemEventCommand) Strict() bool {
	return c.strict
}

// Metadata builds the transition metadata carried by the trigger.
func (c TriggerItemEventCommand) Metadata() statemachine.Metadata {
	userID := c.userID
	return statemachine.Metadata{
		UserID:     &userID,
		OrderID:    c.orderID,
		LocationID: c.locationID,
	}
}

func (c *TriggerItemEventCommand) setItemID(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}

	c.itemID = itemID
	return nil
}

func (c *TriggerItemEventCommand) setEvent(event statemachine.Event) error {
	if event == "" {
		return errs.NewValueIsRequiredError("event")
	}

	c.event = event
	return nil
}

func (c *TriggerItemEventCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}

func (c *TriggerItemEventCommand) setOrderID(orderID *kernel.UUID) error {
	if orderID != nil {
		if err := orderID.Validate(); err != nil {
			return err
		}
	}

	c.orderID = orderID
	return nil
}

func (c *TriggerItemEventCommand) setLocationID(locationID *kernel.UUID) error {
	if locationID != nil {
		if err := locationID.Validate(); err != nil {
			return err
		}
	}

	c.locationID = locationID
	return nil
}
