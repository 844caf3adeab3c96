// Package ports defines repository and client interfaces for the
// circulation domain. These interfaces establish contracts between the
// domain layer and infrastructure, enabling dependency inversion and
// testability.
package ports

import (
	"context"

	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
)

// ItemRepository defines the persistence contract for item aggregates.
// Provides methods for storing, retrieving, and querying item entities
// with their complete transition history.
type ItemRepository interface {
	// Add persists a new item aggregate to storage.
	// The item must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *item.Item) error

	// Update persists changes to an existing item aggregate.
	// Transition history is append-only: only transitions recorded since
	// the aggregate was loaded are written.
	Update(ctx context.Context, aggregate *item.Item) error

	// Get retrieves an item aggregate by its unique identifier.
	// Returns the complete item with its transition history.
	Get(ctx context.Context, id kernel.UUID) (*item.Item, error)

	// GetByOrder retrieves the items with an active membership in the
	// given order. Used to evaluate order readiness and to fan cascades
	// out to member items.
	GetByOrder(ctx context.Context, orderID kernel.UUID) ([]*item.Item, error)
}
