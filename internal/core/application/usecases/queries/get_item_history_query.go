package queries

import (
	"errors"
	"time"

	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/guard"
)

var ErrGetItemHistoryQueryIsNotConstructed = errors.New(
	"GetItemHistoryQuery must be created via NewGetItemHistoryQuery constructor",
)

// GetItemHistoryQuery retrieves the full transition history of an item plus
// its movement projection: the depart/arrive legs between the permanent and
// temporary locations, in chronological order. The history answers "where
// has this item been and on whose behalf".
type GetItemHistoryQuery struct {
	itemID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetItemHistoryQuery creates a query for an item's transition history.
func NewGetItemHistoryQuery(itemID kernel.UUID) (GetItemHistoryQuery, error) {
	if err := itemID.Validate(); err != nil {
		return GetItemHistoryQuery{}, err
	}

	return GetItemHistoryQuery{
		itemID: itemID,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetItemHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetItemHistoryQueryIsNotConstructed)
}

// ItemID returns the item whose history is requested.
func (q GetItemHistoryQuery) ItemID() kernel.UUID {
	return q.itemID
}

// ItemTransitionResponse is one row of the item's event history.
type ItemTransitionResponse struct {
	Event     statemachine.Event
	ToState   statemachine.State
	Metadata  statemachine.Metadata
	CreatedAt time.Time
}

// MovementRecord is one leg of the item's physical movement: a departure
// from or an arrival at a location, attributed to an order when the
// movement was order-scoped. The location is nil when the leg touched the
// permanent location of an item that has since been retired.
type MovementRecord struct {
	Action     item.MovementAction
	LocationID *kernel.UUID
	OrderID    *kernel.UUID
	OccurredAt time.Time
}

// GetItemHistoryQueryResponse bundles the raw history with the movement
// projection and the item workflow table rows for UI rendering.
type GetItemHistoryQueryResponse struct {
	ItemID       kernel.UUID
	State        statemachine.State
	History      []ItemTransitionResponse
	Movements    []MovementRecord
	StatesEvents []statemachine.StateEventRow
}
