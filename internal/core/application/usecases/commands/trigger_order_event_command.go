package commands

import (
	"errors"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/errs"
	"circulation/internal/pkg/guard"
)

var ErrTriggerOrderEventCommandIsNotConstructed = errors.New(
	"TriggerOrderEventCommand must be created via NewTriggerOrderEventCommand constructor",
)

// TriggerOrderEventCommand represents a request to fire a workflow event on
// an order. Strict mode turns a denied event into an error; otherwise the
// trigger is a quiet no-op.
type TriggerOrderEventCommand struct { //nolint:recvcheck //using for validation
	orderID        kernel.UUID
	event          statemachine.Event
	userID         kernel.UUID
	requestContext string
	strict         bool

	guard guard.ConstructorGuard
}

// NewTriggerOrderEventCommand creates a command to fire an order event.
// The acting user is required: every transition must be attributable.
func NewTriggerOrderEventCommand(
	orderID kernel.UUID,
	event statemachine.Event,
	userID kernel.UUID,
	requestContext string,
	strict bool,
) (TriggerOrderEventCommand, error) {
	cmd := TriggerOrderEventCommand{
		requestContext: requestContext,
		strict:         strict,
		guard:          guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setEvent(event),
		cmd.setUserID(userID),
	); err != nil {
		return TriggerOrderEventCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c TriggerOrderEventCommand) Validate() error {
	return c.guard.Validate(ErrTriggerOrderEventCommandIsNotConstructed)
}

// OrderID returns the order the event targets.
func (c TriggerOrderEventCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Event returns the workflow event to fire.
func (c TriggerOrderEventCommand) Event() statemachine.Event {
	return c.event
}

// UserID returns the acting user.
func (c TriggerOrderEventCommand) UserID() kernel.UUID {
	return c.userID
}

// RequestContext returns the free-form context passed through to
// notifications.
func (c TriggerOrderEventCommand) RequestContext() string {
	return c.requestContext
}

// Strict reports whether a denied event should fail instead of no-op.
func (c TriggerOrderEventCommand) Strict() bool {
	return c.strict
}

// Metadata builds the transition metadata carried by the trigger.
func (c TriggerOrderEventCommand) Metadata() statemachine.Metadata {
	userID := c.userID
	return statemachine.Metadata{
		UserID:         &userID,
		RequestContext: c.requestContext,
	}
}

func (c *TriggerOrderEventCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TriggerOrderEventCommand) setEvent(event statemachine.Event) error {
	if event == "" {
		return errs.NewValueIsRequiredError("event")
	}

	c.event = event
	return nil
}

func (c *TriggerOrderEventCommand) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return err
	}

	c.userID = userID
	return nil
}
