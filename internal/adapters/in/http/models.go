package http

import (
	"time"

	"circulation/internal/core/application/usecases/queries"
)

// Error is the uniform error payload of the API.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder is the request body for order creation.
type NewOrder struct {
	Variant         string     `json:"variant"`
	AccessDateStart *time.Time `json:"access_date_start,omitempty"`
	LocationID      *string    `json:"location_id,omitempty"`
	Assignees       []string   `json:"assignees,omitempty"`
}

// NewItem is the request body for item registration.
type NewItem struct {
	Digital             bool   `json:"digital"`
	PermanentLocationID string `json:"permanent_location_id"`
}

// NewOrderItem is the request body for attaching an item to an order.
type NewOrderItem struct {
	ItemID string `json:"item_id"`
}

// NewOrderEvent is the request body for firing an order workflow event.
type NewOrderEvent struct {
	Event          string `json:"event"`
	UserID         string `json:"user_id"`
	RequestContext string `json:"request_context,omitempty"`
	Strict         bool   `json:"strict,omitempty"`
}

// NewItemEvent is the request body for firing an item workflow event.
type NewItemEvent struct {
	Event      string  `json:"event"`
	UserID     string  `json:"user_id"`
	OrderID    *string `json:"order_id,omitempty"`
	LocationID *string `json:"location_id,omitempty"`
	Strict     bool    `json:"strict,omitempty"`
}

// CreatedResponse carries the identifier of a newly created resource.
type CreatedResponse struct {
	ID string `json:"id"`
}

// OrderSummary is one row of the open orders listing.
type OrderSummary struct {
	ID              string     `json:"id"`
	Variant         string     `json:"variant"`
	State           string     `json:"state"`
	Confirmed       bool       `json:"confirmed"`
	AccessDateStart *time.Time `json:"access_date_start,omitempty"`
	ActiveItemCount int        `json:"active_item_count"`
}

// OrderMember is one member item in the order detail.
type OrderMember struct {
	ItemID   string `json:"item_id"`
	Active   bool   `json:"active"`
	Obsolete bool   `json:"obsolete"`
	Digital  bool   `json:"digital"`
	State    string `json:"state,omitempty"`
	Ready    bool   `json:"ready"`
}

// StateEventRow is one row of the variant's workflow table.
type StateEventRow struct {
	State       string `json:"state"`
	Event       string `json:"event"`
	Description string `json:"description"`
}

// TransitionRow is one entry of a transition history.
type TransitionRow struct {
	Event     string    `json:"event"`
	ToState   string    `json:"to_state"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderDetail is the full order read model.
type OrderDetail struct {
	ID              string          `json:"id"`
	Variant         string          `json:"variant"`
	State           string          `json:"state"`
	Open            bool            `json:"open"`
	Confirmed       bool            `json:"confirmed"`
	AccessDateStart *time.Time      `json:"access_date_start,omitempty"`
	LocationID      *string         `json:"location_id,omitempty"`
	Assignees       []string        `json:"assignees"`
	Members         []OrderMember   `json:"members"`
	AvailableEvents []string        `json:"available_events"`
	StatesEvents    []StateEventRow `json:"states_events"`
	History         []TransitionRow `json:"history"`
}

// Movement is one depart/arrive leg of an item's physical movements.
type Movement struct {
	Action     string    `json:"action"`
	LocationID *string   `json:"location_id,omitempty"`
	OrderID    *string   `json:"order_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ItemHistory is the item history read model.
type ItemHistory struct {
	ItemID       string          `json:"item_id"`
	State        string          `json:"state"`
	History      []TransitionRow `json:"history"`
	Movements    []Movement      `json:"movements"`
	StatesEvents []StateEventRow `json:"states_events"`
}

func orderDetailFromResponse(r queries.GetOrderQueryResponse) OrderDetail {
	detail := OrderDetail{
		ID:              r.ID.String(),
		Variant:         r.Variant,
		State:           string(r.State),
		Open:            r.Open,
		Confirmed:       r.Confirmed,
		AccessDateStart: r.AccessDateStart,
		Assignees:       r.Assignees,
		Members:         make([]OrderMember, 0, len(r.Members)),
		AvailableEvents: make([]string, 0, len(r.AvailableEvents)),
		StatesEvents:    make([]StateEventRow, 0, len(r.StatesEvents)),
		History:         make([]TransitionRow, 0, len(r.History)),
	}

	if r.LocationID != nil {
		locationID := r.LocationID.String()
		detail.LocationID = &locationID
	}

	for _, m := range r.Members {
		detail.Members = append(detail.Members, OrderMember{
			ItemID:   m.ItemID.String(),
			Active:   m.Active,
			Obsolete: m.Obsolete,
			Digital:  m.Digital,
			State:    string(m.State),
			Ready:    m.Ready,
		})
	}
	for _, event := range r.AvailableEvents {
		detail.AvailableEvents = append(detail.AvailableEvents, string(event))
	}
	for _, row := range r.StatesEvents {
		detail.StatesEvents = append(detail.StatesEvents, StateEventRow{
			State:       string(row.State),
			Event:       string(row.Event),
			Description: row.Description,
		})
	}
	for _, transition := range r.History {
		detail.History = append(detail.History, TransitionRow{
			Event:     string(transition.Event),
			ToState:   string(transition.ToState),
			CreatedAt: transition.CreatedAt,
		})
	}

	return detail
}

func itemHistoryFromResponse(r queries.GetItemHistoryQueryResponse) ItemHistory {
	history := ItemHistory{
		ItemID:       r.ItemID.String(),
		State:        string(r.State),
		History:      make([]TransitionRow, 0, len(r.History)),
		Movements:    make([]Movement, 0, len(r.Movements)),
		StatesEvents: make([]StateEventRow, 0, len(r.StatesEvents)),
	}

	for _, transition := range r.History {
		history.History = append(history.History, TransitionRow{
			Event:     string(transition.Event),
			ToState:   string(transition.ToState),
			CreatedAt: transition.CreatedAt,
		})
	}
	for _, movement := range r.Movements {
		m := Movement{
			Action:     string(movement.Action),
			OccurredAt: movement.OccurredAt,
		}
		if movement.LocationID != nil {
			locationID := movement.LocationID.String()
			m.LocationID = &locationID
		}
		if movement.OrderID != nil {
			orderID := movement.OrderID.String()
			m.OrderID = &orderID
		}
		history.Movements = append(history.Movements, m)
	}
	for _, row := range r.StatesEvents {
		history.StatesEvents = append(history.StatesEvents, StateEventRow{
			State:       string(row.State),
			Event:       string(row.Event),
			Description: row.Description,
		})
	}

	return history
}
