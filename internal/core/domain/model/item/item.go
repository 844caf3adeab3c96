package item

import (
	"errors"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/errs"
	"circulation/internal/pkg/guard"
)

var (
	// ErrItemIsNotConstructed is returned when an Item instance was not
	// created through NewItem or RestoreItem.
	ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

	// ErrItemNotEligibleForObsolete is returned when the external catalog
	// still resolves the item's source record, so it cannot be marked
	// obsolete.
	ErrItemNotEligibleForObsolete = errors.New("item is not eligible to be marked obsolete")

	// ErrItemIsObsolete is returned when a workflow operation is attempted
	// on an obsolete item.
	ErrItemIsObsolete = errors.New("item is obsolete and excluded from workflow")
)

// Item is the aggregate root for one archival material. Physical items move
// through staging locations; digital items are delivered to a use location
// without physical movement. The workflow machine derives the item's state
// from its append-only transition history, and per-order questions are
// answered through the order scope carried in transition metadata.
type Item struct {
	id                  kernel.UUID
	obsolete            bool
	digital             bool
	permanentLocationID *kernel.UUID
	currentLocationID   *kernel.UUID
	machine             statemachine.Machine
	guard               guard.ConstructorGuard
}

// NewItem creates a new item resting at its permanent location. The current
// location defaults to the permanent location.
func NewItem(id kernel.UUID, digital bool, permanentLocationID kernel.UUID) (*Item, error) {
	if err := errors.Join(id.Validate(), permanentLocationID.Validate()); err != nil {
		return nil, err
	}

	permanent := permanentLocationID
	current := permanentLocationID
	return &Item{
		id:                  id,
		digital:             digital,
		permanentLocationID: &permanent,
		currentLocationID:   &current,
		machine:             statemachine.NewMachine(id, statemachine.KindItem, config),
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// RestoreItem rebuilds an item aggregate from persistence. Obsolete items
// have both location references cleared.
func RestoreItem(
	id kernel.UUID,
	obsolete bool,
	digital bool,
	permanentLocationID *kernel.UUID,
	currentLocationID *kernel.UUID,
	history []statemachine.Transition,
) (*Item, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return &Item{
		id:                  id,
		obsolete:            obsolete,
		digital:             digital,
		permanentLocationID: permanentLocationID,
		currentLocationID:   currentLocationID,
		machine:             statemachine.RestoreMachine(id, statemachine.KindItem, config, history),
		guard:               guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the item was produced by a constructor.
func (i *Item) Validate() error {
	if i == nil {
		return ErrItemIsNotConstructed
	}
	return i.guard.Validate(ErrItemIsNotConstructed)
}

// ID returns the item's unique identifier.
func (i *Item) ID() kernel.UUID {
	return i.id
}

// Obsolete reports whether the item has been permanently excluded from
// workflow and readiness computation.
func (i *Item) Obsolete() bool {
	return i.obsolete
}

// Digital reports whether the item is a digital object.
func (i *Item) Digital() bool {
	return i.digital
}

// PermanentLocationID returns the item's home location, nil once obsolete.
func (i *Item) PermanentLocationID() *kernel.UUID {
	return i.permanentLocationID
}

// CurrentLocationID returns where the item currently sits, nil once
// obsolete.
func (i *Item) CurrentLocationID() *kernel.UUID {
	return i.currentLocationID
}

// AtLocation reports whether the item currently sits at the given location.
func (i *Item) AtLocation(locationID kernel.UUID) bool {
	return i.currentLocationID != nil && i.currentLocationID.IsEqual(locationID)
}

// CurrentState derives the workflow state from the transition history.
func (i *Item) CurrentState() statemachine.State {
	return i.machine.CurrentState()
}

// FinalState returns the terminal state of the item workflow.
func (i *Item) FinalState() statemachine.State {
	return i.machine.FinalState()
}

// History returns the ordered transition history.
func (i *Item) History() []statemachine.Transition {
	return i.machine.History()
}

// LastTransition returns the most recent transition, nil when none exists.
func (i *Item) LastTransition() *statemachine.Transition {
	return i.machine.LastTransition()
}

// LastTransitionFor returns the most recent transition scoped to the given
// order, nil when the item never moved for that order.
func (i *Item) LastTransitionFor(orderID kernel.UUID) *statemachine.Transition {
	return i.machine.LastTransitionFor(orderID)
}

// StateReached reports whether the item ever reached the given state.
func (i *Item) StateReached(state statemachine.State) bool {
	return i.machine.StateReached(state)
}

// StateReachedFor reports whether the item ever reached the given state in
// the context of the given order.
func (i *Item) StateReachedFor(state statemachine.State, orderID kernel.UUID) bool {
	return i.machine.StateReachedFor(state, orderID)
}

// ActiveOrderID returns the order the item last moved for: the order scope
// of its most recent transition, nil for an untouched item.
func (i *Item) ActiveOrderID() *kernel.UUID {
	if last := i.machine.LastTransition(); last != nil {
		return last.Metadata.OrderID
	}
	return nil
}

// StatesEvents returns the ordered (state, event, description) rows of the
// item workflow table for UI rendering.
func (i *Item) StatesEvents() []statemachine.StateEventRow {
	return i.machine.Config().StatesEvents()
}

// AvailableEvents returns every event of the item table permitted in the
// current situation.
func (i *Item) AvailableEvents() []statemachine.Event {
	events := make([]statemachine.Event, 0)
	for _, event := range i.machine.Config().Events() {
		if i.EventPermitted(event) {
			events = append(events, event)
		}
	}
	return events
}

// EventPermitted is the pure permission predicate of the item workflow.
// Obsolete items permit nothing. Digital items are delivered rather than
// shipped, so send/receive/return apply only to physical items and deliver
// only to digital ones.
func (i *Item) EventPermitted(event statemachine.Event) bool {
	if i.obsolete {
		return false
	}
	state := i.CurrentState()

	switch event {
	case EventOrder:
		if i.digital {
			// A digital item can serve a new order without being restocked.
			return state == StateAtPermanentLocation || state == StateReadyAtUseLocation
		}
		return state == StateAtPermanentLocation
	case EventSend:
		return !i.digital && state == StateOrdered
	case EventReceive:
		return state == StateInTransitToTemporaryLocation
	case EventDeliver:
		return i.digital && state == StateOrdered
	case EventReturn:
		return !i.digital && state == StateReadyAtTemporaryLocation
	case EventRestock:
		return state == StateReturningToPermanentLocation
	default:
		return false
	}
}

// Trigger applies the event if it is permitted: it appends a transition,
// applies movement side effects, and returns the follow-up actions for the
// workflow service. A non-permitted event is a no-op returning
// (nil, nil, nil).
func (i *Item) Trigger(event statemachine.Event, md statemachine.Metadata) (*statemachine.Transition, []statemachine.FollowUp, error) {
	if err := requireUser(md); err != nil {
		return nil, nil, err
	}
	if !i.EventPermitted(event) {
		return nil, nil, nil
	}
	return i.apply(event, md)
}

// TriggerStrict is Trigger but fails with ErrTransitionNotPermitted when
// the event is not permitted.
func (i *Item) TriggerStrict(event statemachine.Event, md statemachine.Metadata) (*statemachine.Transition, []statemachine.FollowUp, error) {
	if err := requireUser(md); err != nil {
		return nil, nil, err
	}
	if !i.EventPermitted(event) {
		return nil, nil, statemachine.ErrTransitionNotPermitted
	}
	return i.apply(event, md)
}

func (i *Item) apply(event statemachine.Event, md statemachine.Metadata) (*statemachine.Transition, []statemachine.FollowUp, error) {
	transition, err := i.machine.Record(event, md)
	if err != nil {
		return nil, nil, err
	}

	var followUps []statemachine.FollowUp
	switch event {
	case EventReceive:
		if md.LocationID != nil {
			i.currentLocationID = md.LocationID
		}
		if md.OrderID != nil {
			followUps = append(followUps, statemachine.FollowUp{
				Kind:      statemachine.FollowUpFulfillOrderIfReady,
				SubjectID: *md.OrderID,
				Metadata:  md,
			})
		}
	case EventDeliver:
		if md.OrderID != nil {
			followUps = append(followUps, statemachine.FollowUp{
				Kind:      statemachine.FollowUpFulfillOrderIfReady,
				SubjectID: *md.OrderID,
				Metadata:  md,
			})
		}
	case EventRestock:
		i.currentLocationID = i.permanentLocationID
		if md.OrderID != nil {
			followUps = append(followUps, statemachine.FollowUp{
				Kind:      statemachine.FollowUpReleaseMembership,
				SubjectID: *md.OrderID,
				ItemID:    i.id,
				Metadata:  md,
			})
		}
	}

	return &transition, followUps, nil
}

// MarkObsolete permanently excludes the item from workflow and readiness
// computation. It is an administrative action driven by the external
// catalog, not a workflow transition: no transition is recorded. The caller
// supplies the catalog's eligibility verdict.
func (i *Item) MarkObsolete(eligible bool) error {
	if i.obsolete {
		return nil
	}
	if !eligible {
		return ErrItemNotEligibleForObsolete
	}
	i.obsolete = true
	i.permanentLocationID = nil
	i.currentLocationID = nil
	return nil
}

// UncommittedTransitions exposes the freshly appended rows for the
// persistence layer.
func (i *Item) UncommittedTransitions() []statemachine.Transition {
	return i.machine.UncommittedTransitions()
}

// MarkCommitted declares all appended transitions persisted.
func (i *Item) MarkCommitted() {
	i.machine.MarkCommitted()
}

func requireUser(md statemachine.Metadata) error {
	if md.UserID == nil {
		return errs.NewValueIsRequiredError("metadata.user_id")
	}
	return nil
}
