package ports

import (
	"context"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Provides methods for storing, retrieving, and querying order entities
// together with their memberships and transition history.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate.
	// Transition history is append-only: only transitions recorded since
	// the aggregate was loaded are written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns the complete order with memberships and transition history.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllConfirmedStandard retrieves open standard orders that have
	// reached the confirmed state. Used by the fulfillment job to find
	// orders eligible for automatic promotion.
	GetAllConfirmedStandard(ctx context.Context) ([]*order.Order, error)

	// GetAllOpen retrieves all orders currently open for changes.
	GetAllOpen(ctx context.Context) ([]*order.Order, error)

	// GetAllByItem retrieves every order holding an active membership for
	// the given item. Used when retiring an item to release its
	// memberships.
	GetAllByItem(ctx context.Context, itemID kernel.UUID) ([]*order.Order, error)
}
