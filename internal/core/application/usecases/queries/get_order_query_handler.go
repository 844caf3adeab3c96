package queries

import (
	"context"

	"circulation/internal/core/domain/services"
	"circulation/internal/core/ports"
)

// GetOrderQueryHandler builds the order read model. Unlike the list queries
// it loads full aggregates: available events and per-member readiness are
// workflow decisions, and those live on the domain model, not in SQL.
type GetOrderQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	workflow   services.WorkflowService
	readiness  services.ReadinessService
}

// NewGetOrderQueryHandler creates a handler for single-order read models.
func NewGetOrderQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	workflow services.WorkflowService,
) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		uowFactory: uowFactory,
		workflow:   workflow,
		readiness:  services.NewReadinessService(),
	}
}

// Handle executes the query. Reads run outside any transaction.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	uow := h.uowFactory.Create()

	aggregate, err := uow.OrderRepository().Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	items, err := uow.ItemRepository().GetByOrder(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	members := make([]GetOrderMemberResponse, 0, len(aggregate.Memberships()))
	for _, membership := range aggregate.Memberships() {
		member := GetOrderMemberResponse{
			ItemID: membership.ItemID(),
			Active: membership.Active(),
		}
		// Items are loaded for active memberships only; released members
		// keep their row but carry no live state.
		for _, memberItem := range items {
			if memberItem.ID().IsEqual(membership.ItemID()) {
				member.Obsolete = memberItem.Obsolete()
				member.Digital = memberItem.Digital()
				member.State = memberItem.CurrentState()
				member.Ready = h.readiness.ItemReady(aggregate, memberItem)
				break
			}
		}
		members = append(members, member)
	}

	return GetOrderQueryResponse{
		ID:              aggregate.ID(),
		Variant:         aggregate.Variant().String(),
		State:           aggregate.CurrentState(),
		Open:            aggregate.Open(),
		Confirmed:       aggregate.Confirmed(),
		AccessDateStart: aggregate.AccessDateStart(),
		LocationID:      aggregate.LocationID(),
		Assignees:       aggregate.Assignees(),
		Members:         members,
		AvailableEvents: h.workflow.AvailableOrderEvents(aggregate, items),
		StatesEvents:    aggregate.StatesEvents(),
		History:         aggregate.History(),
	}, nil
}
