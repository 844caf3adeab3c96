package queries

import (
	"context"

	"circulation/internal/core/ports"
)

// GetItemHistoryQueryHandler builds the item history read model. Like the
// single-order handler it loads the full aggregate: the movement projection
// depends on the item's permanent location and the depart/arrive semantics
// of each transition, which live on the domain model, not in SQL.
type GetItemHistoryQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

// NewGetItemHistoryQueryHandler creates a handler for item history queries.
func NewGetItemHistoryQueryHandler(uowFactory ports.UnitOfWorkFactory) GetItemHistoryQueryHandler {
	return GetItemHistoryQueryHandler{uowFactory: uowFactory}
}

// Handle executes the query. Reads run outside any transaction. An item
// with no transitions returns an empty history; a missing item an
// ObjectNotFoundError.
func (h GetItemHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetItemHistoryQuery,
) (GetItemHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetItemHistoryQueryResponse{}, err
	}

	uow := h.uowFactory.Create()

	aggregate, err := uow.ItemRepository().Get(ctx, query.ItemID())
	if err != nil {
		return GetItemHistoryQueryResponse{}, err
	}

	history := aggregate.History()
	movements := aggregate.MovementRecords()

	response := GetItemHistoryQueryResponse{
		ItemID:       aggregate.ID(),
		State:        aggregate.CurrentState(),
		History:      make([]ItemTransitionResponse, 0, len(history)),
		Movements:    make([]MovementRecord, 0, len(movements)),
		StatesEvents: aggregate.StatesEvents(),
	}

	for _, transition := range history {
		response.History = append(response.History, ItemTransitionResponse{
			Event:     transition.Event,
			ToState:   transition.ToState,
			Metadata:  transition.Metadata,
			CreatedAt: transition.CreatedAt,
		})
	}

	for _, movement := range movements {
		response.Movements = append(response.Movements, MovementRecord{
			Action:     movement.Action,
			LocationID: movement.LocationID,
			OrderID:    movement.OrderID,
			OccurredAt: movement.OccurredAt,
		})
	}

	return response, nil
}
