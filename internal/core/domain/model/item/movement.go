package item

import (
	"time"

	"circulation/internal/core/domain/model/kernel"
)

// MovementAction labels one leg of a movement record.
type MovementAction string

const (
	// MovementDepart marks the item leaving a location.
	MovementDepart MovementAction = "depart"
	// MovementArrive marks the item arriving at a location.
	MovementArrive MovementAction = "arrive"
)

// MovementRecord is one row of the item's physical movement history,
// projected from the transit-related transitions. Non-movement events
// (order, deliver) do not appear.
type MovementRecord struct {
	TransitionID kernel.UUID
	Action       MovementAction
	LocationID   *kernel.UUID
	OrderID      *kernel.UUID
	UserID       *kernel.UUID
	OccurredAt   time.Time
}

// MovementRecords projects the transition history into movement rows:
// departures from the permanent location and the temporary location, and
// arrivals at each. Locations are resolved from the transition metadata
// where the permanent location does not apply.
func (i *Item) MovementRecords() []MovementRecord {
	records := make([]MovementRecord, 0)

	for _, t := range i.machine.History() {
		record := MovementRecord{
			TransitionID: t.ID,
			OrderID:      t.Metadata.OrderID,
			UserID:       t.Metadata.UserID,
			OccurredAt:   t.CreatedAt,
		}

		switch t.ToState {
		case StateInTransitToTemporaryLocation:
			record.Action = MovementDepart
			record.LocationID = i.permanentLocationID
		case StateReadyAtTemporaryLocation:
			record.Action = MovementArrive
			record.LocationID = t.Metadata.LocationID
		case StateReturningToPermanentLocation:
			record.Action = MovementDepart
			record.LocationID = t.Metadata.LocationID
		case StateAtPermanentLocation:
			record.Action = MovementArrive
			record.LocationID = i.permanentLocationID
		default:
			continue
		}

		records = append(records, record)
	}

	return records
}
