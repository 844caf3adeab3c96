package queries

import (
	"context"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/core/domain/model/statemachine"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOpenOrdersQueryHandler lists orders still in circulation straight from
// the database. The workflow state is derived in SQL from the newest
// transition row rather than by rehydrating aggregates.
type GetOpenOrdersQueryHandler struct {
	db *gorm.DB
}

// NewGetOpenOrdersQueryHandler creates a handler for open order listings.
func NewGetOpenOrdersQueryHandler(db *gorm.DB) GetOpenOrdersQueryHandler {
	return GetOpenOrdersQueryHandler{db: db}
}

// Handle executes the query. Results are sorted by order ID for consistent
// output.
func (h GetOpenOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetOpenOrdersQuery,
) ([]GetOpenOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders := make([]GetOpenOrdersQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.variant,
			o.confirmed,
			o.access_date_start,
			COALESCE(t.to_state, ''),
			(
				SELECT COUNT(*)
				FROM item_memberships m
				WHERE m.order_id = o.id AND m.active
			)
		FROM orders o
		LEFT JOIN LATERAL (
			SELECT to_state
			FROM transitions
			WHERE subject_id = o.id AND subject_kind = ?
			ORDER BY created_at DESC
			LIMIT 1
		) t ON true
		WHERE o.open
		ORDER BY o.id
	`, statemachine.KindOrder).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var orderResp GetOpenOrdersQueryResponse
		var id uuid.UUID
		var variant int
		var state string

		err = rows.Scan(
			&id,
			&variant,
			&orderResp.Confirmed,
			&orderResp.AccessDateStart,
			&state,
			&orderResp.ActiveItemCount,
		)
		if err != nil {
			return nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, idErr
		}
		orderResp.ID = orderID

		orderVariant := order.Variant(variant)
		orderResp.Variant = orderVariant.String()

		if state == "" {
			// No transitions yet: the order sits in its variant's
			// initial state.
			orderResp.State = order.ConfigFor(orderVariant).Initial
		} else {
			orderResp.State = statemachine.State(state)
		}

		orders = append(orders, orderResp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return orders, nil
}
