package ports

import (
	"context"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/services"
)

// WorkCompleteNotifier delivers work-complete notifications to the
// outside world. Delivery is fire-and-forget: callers invoke it after the
// triggering transaction commits and log failures without retrying.
type WorkCompleteNotifier interface {
	Notify(ctx context.Context, notice services.WorkCompleteNotice) error
}

// CatalogClient consults the catalog system of record for item-level
// facts the circulation service does not own.
type CatalogClient interface {
	// ObsoleteEligible reports whether the catalog allows the item to be
	// marked obsolete (no open holds, not on loan elsewhere).
	ObsoleteEligible(ctx context.Context, itemID kernel.UUID) (bool, error)
}
