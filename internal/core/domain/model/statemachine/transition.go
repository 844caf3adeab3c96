package statemachine

import (
	"time"

	"circulation/internal/core/domain/model/kernel"
)

// Metadata carries the context that travels from a trigger call into later
// queries and callbacks. Fields are optional; UserID is required for every
// workflow event (attribution), OrderID scopes item transitions to the order
// they serve, LocationID records movement detail, and RequestContext is
// passed through to the notification collaborator. Extra preserves
// forward-compatibility for keys the core does not interpret.
type Metadata struct {
	UserID         *kernel.UUID      `json:"user_id,omitempty"`
	OrderID        *kernel.UUID      `json:"order_id,omitempty"`
	LocationID     *kernel.UUID      `json:"location_id,omitempty"`
	RequestContext string            `json:"request_context,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// WithOrder returns a copy of the metadata scoped to the given order.
func (m Metadata) WithOrder(orderID kernel.UUID) Metadata {
	m.OrderID = &orderID
	return m
}

// ScopedTo reports whether the metadata carries the given order scope.
func (m Metadata) ScopedTo(orderID kernel.UUID) bool {
	return m.OrderID != nil && m.OrderID.IsEqual(orderID)
}

// Transition is one immutable, timestamped record of a subject moving to a
// new state via a named event. Transitions are created only through
// Machine.Record, are never updated or deleted, and are ordered by CreatedAt.
type Transition struct {
	ID          kernel.UUID
	SubjectID   kernel.UUID
	SubjectKind Kind
	Event       Event
	ToState     State
	Metadata    Metadata
	CreatedAt   time.Time
}
