package commands

import (
	"errors"
	"time"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a request to register a new fulfillment order.
// Encapsulates the variant, optional access window start, optional use
// location, and the staff assignees responsible for the order.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, order.Standard, nil, &roomID, []string{"archivist"})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID         kernel.UUID
	variant         order.Variant
	accessDateStart *time.Time
	locationID      *kernel.UUID
	assignees       []string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates the order ID, the variant, and the location reference when given.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	variant order.Variant,
	accessDateStart *time.Time,
	locationID *kernel.UUID,
	assignees []string,
) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		accessDateStart: accessDateStart,
		assignees:       assignees,
		guard:           guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setOrderID(orderID),
		orderCommand.setVariant(variant),
		orderCommand.setLocationID(locationID),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// OrderID returns the unique identifier for the order.
func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Variant returns the workflow variant of the order.
func (c CreateOrderCommand) Variant() order.Variant {
	return c.variant
}

// AccessDateStart returns the start of the requested access window, if any.
func (c CreateOrderCommand) AccessDateStart() *time.Time {
	return c.accessDateStart
}

// LocationID returns the use location reference, if one was assigned.
func (c CreateOrderCommand) LocationID() *kernel.UUID {
	return c.locationID
}

// Assignees returns the staff usernames responsible for the order.
func (c CreateOrderCommand) Assignees() []string {
	return c.assignees
}

func (c *CreateOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *CreateOrderCommand) setVariant(variant order.Variant) error {
	if err := variant.Validate(); err != nil {
		return err
	}

	c.variant = variant
	return nil
}

func (c *CreateOrderCommand) setLocationID(locationID *kernel.UUID) error {
	if locationID != nil {
		if err := locationID.Validate(); err != nil {
			return err
		}
	}

	c.locationID = locationID
	return nil
}
