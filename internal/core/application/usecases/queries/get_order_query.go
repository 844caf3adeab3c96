package queries

import (
	"errors"
	"time"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New(
	"GetOrderQuery must be created via NewGetOrderQuery constructor",
)

// GetOrderQuery retrieves the full read model of a single order: its flags,
// derived workflow state, member items with per-order readiness, the events
// permitted in the current situation, and the variant's workflow table for
// UI rendering.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID)
//	if err != nil {
//	    return err
//	}
//
//	detail, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get order: %w", err)
//	}
//
//	fmt.Printf("Order %s is %s\n", detail.ID, detail.State)
type GetOrderQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates a query for a single order's read model.
func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderID returns the order to load.
func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderMemberResponse represents one member item of the order, with
// readiness evaluated in the context of this order.
type GetOrderMemberResponse struct {
	ItemID   kernel.UUID
	Active   bool
	Obsolete bool
	Digital  bool
	State    statemachine.State
	Ready    bool
}

// GetOrderQueryResponse is the order read model.
type GetOrderQueryResponse struct {
	ID              kernel.UUID
	Variant         string
	State           statemachine.State
	Open            bool
	Confirmed       bool
	AccessDateStart *time.Time
	LocationID      *kernel.UUID
	Assignees       []string
	Members         []GetOrderMemberResponse
	AvailableEvents []statemachine.Event
	StatesEvents    []statemachine.StateEventRow
	History         []statemachine.Transition
}
