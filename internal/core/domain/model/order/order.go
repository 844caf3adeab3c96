package order

import (
	"errors"
	"time"

	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/errs"
	"circulation/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not
	// created through NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrItemAlreadyMember is returned when adding an item that already has
	// an active membership on the order.
	ErrItemAlreadyMember = errors.New("item already has an active membership on this order")
)

// Order is the aggregate root for a fulfillment request. It owns the
// workflow machine for its variant, the item memberships, and the open and
// confirmed bookkeeping flags.
//
// Order state invariants:
//   - CurrentState is derived from the transition history; there is no
//     state setter
//   - Transitions are appended only through Trigger/TriggerStrict after the
//     permission predicate approved the event
//   - The open flag is decoupled from the workflow state: any event other
//     than close reopens a closed-flag order
type Order struct {
	id              kernel.UUID
	variant         Variant
	open            bool
	confirmed       bool
	accessDateStart *time.Time
	locationID      *kernel.UUID
	assignees       []string
	memberships     []Membership
	machine         statemachine.Machine
	guard           guard.ConstructorGuard
}

// NewOrder creates a new order in the variant's initial workflow state.
// locationID is the temporary (use) location materials are staged at; it may
// be nil until a reading room is assigned. Reproduction orders have no
// review/confirm step and are confirmed immediately.
func NewOrder(id kernel.UUID, variant Variant, accessDateStart *time.Time, locationID *kernel.UUID, assignees []string) (*Order, error) {
	if err := errors.Join(id.Validate(), variant.Validate()); err != nil {
		return nil, err
	}
	if locationID != nil {
		if err := locationID.Validate(); err != nil {
			return nil, err
		}
	}

	return &Order{
		id:              id,
		variant:         variant,
		open:            true,
		confirmed:       variant == Reproduction,
		accessDateStart: accessDateStart,
		locationID:      locationID,
		assignees:       assignees,
		machine:         statemachine.NewMachine(id, statemachine.KindOrder, ConfigFor(variant)),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// RestoreOrder rebuilds an order aggregate from persistence, including its
// memberships and full transition history.
func RestoreOrder(
	id kernel.UUID,
	variant Variant,
	open bool,
	confirmed bool,
	accessDateStart *time.Time,
	locationID *kernel.UUID,
	assignees []string,
	memberships []Membership,
	history []statemachine.Transition,
) (*Order, error) {
	if err := errors.Join(id.Validate(), variant.Validate()); err != nil {
		return nil, err
	}

	return &Order{
		id:              id,
		variant:         variant,
		open:            open,
		confirmed:       confirmed,
		accessDateStart: accessDateStart,
		locationID:      locationID,
		assignees:       assignees,
		memberships:     memberships,
		machine:         statemachine.RestoreMachine(id, statemachine.KindOrder, ConfigFor(variant), history),
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the order was produced by a constructor.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// Variant returns the workflow variant of the order.
func (o *Order) Variant() Variant {
	return o.variant
}

// IsReproduction reports whether the order follows the reproduction
// workflow.
func (o *Order) IsReproduction() bool {
	return o.variant == Reproduction
}

// Open reports the archival open flag. It is bookkeeping distinct from the
// closed workflow state.
func (o *Order) Open() bool {
	return o.open
}

// Confirmed reports whether the order has been confirmed.
func (o *Order) Confirmed() bool {
	return o.confirmed
}

// AccessDateStart returns the scheduled start of the reading-room access
// window, nil when not scheduled.
func (o *Order) AccessDateStart() *time.Time {
	return o.accessDateStart
}

// LocationID returns the temporary location materials are staged at for
// this order, nil when unassigned.
func (o *Order) LocationID() *kernel.UUID {
	return o.locationID
}

// Assignees returns the notification addresses of the staff assigned to the
// order.
func (o *Order) Assignees() []string {
	assignees := make([]string, len(o.assignees))
	copy(assignees, o.assignees)
	return assignees
}

// Memberships returns all item memberships, active and inactive.
func (o *Order) Memberships() []Membership {
	memberships := make([]Membership, len(o.memberships))
	copy(memberships, o.memberships)
	return memberships
}

// ActiveMemberships returns the memberships that currently govern their
// item's movement.
func (o *Order) ActiveMemberships() []Membership {
	active := make([]Membership, 0, len(o.memberships))
	for _, m := range o.memberships {
		if m.active {
			active = append(active, m)
		}
	}
	return active
}

// HasActiveMembership reports whether the item currently belongs to the
// order.
func (o *Order) HasActiveMembership(itemID kernel.UUID) bool {
	for _, m := range o.memberships {
		if m.active && m.itemID.IsEqual(itemID) {
			return true
		}
	}
	return false
}

// AddItem creates an active membership for the item. An item may rejoin an
// order whose earlier membership was deactivated; the stale membership row
// is reactivated instead of duplicated.
func (o *Order) AddItem(itemID kernel.UUID) error {
	if err := itemID.Validate(); err != nil {
		return err
	}
	for i, m := range o.memberships {
		if !m.itemID.IsEqual(itemID) {
			continue
		}
		if m.active {
			return ErrItemAlreadyMember
		}
		o.memberships[i].active = true
		return nil
	}
	o.memberships = append(o.memberships, NewMembership(itemID))
	return nil
}

// DeactivateMembership marks the item's membership as no longer governing
// its movement. Missing memberships are ignored.
func (o *Order) DeactivateMembership(itemID kernel.UUID) {
	for i, m := range o.memberships {
		if m.itemID.IsEqual(itemID) {
			o.memberships[i].active = false
		}
	}
}

// CurrentState derives the workflow state from the transition history.
func (o *Order) CurrentState() statemachine.State {
	return o.machine.CurrentState()
}

// History returns the ordered transition history.
func (o *Order) History() []statemachine.Transition {
	return o.machine.History()
}

// LastTransition returns the most recent transition, nil when none exists.
func (o *Order) LastTransition() *statemachine.Transition {
	return o.machine.LastTransition()
}

// StateReached reports whether the order ever reached the given state.
func (o *Order) StateReached(state statemachine.State) bool {
	return o.machine.StateReached(state)
}

// StatesEvents returns the ordered (state, event, description) rows of the
// variant's workflow table for UI rendering.
func (o *Order) StatesEvents() []statemachine.StateEventRow {
	return o.machine.Config().StatesEvents()
}

// AvailableEvents returns every event of the variant's table permitted in
// the current situation.
func (o *Order) AvailableEvents(r Readiness) []statemachine.Event {
	events := make([]statemachine.Event, 0)
	for _, event := range o.machine.Config().Events() {
		if o.EventPermitted(event, r) {
			events = append(events, event)
		}
	}
	return events
}

// EventPermitted is the pure permission predicate of the order workflow.
// It has no side effects and may be re-evaluated freely, including by
// cascade logic on related subjects. Events without a rule are denied.
func (o *Order) EventPermitted(event statemachine.Event, r Readiness) bool {
	state := o.CurrentState()

	switch event {
	case EventReview:
		return state == StatePending || state == StateRequested
	case EventConfirm:
		// Digital items require an explicit review step before confirmation.
		if r.HasDigitalItems {
			return state == StateReviewing
		}
		return state == StatePending || state == StateReviewing
	case EventBeginWork:
		return state == StatePending && r.AnyItemReady
	case EventCompleteWork:
		return state == StateInProgress
	case EventFulfill:
		if o.IsReproduction() {
			return state == StateWorkComplete
		}
		return r.AllItemsReady && state == StateConfirmed
	case EventActivate:
		return state == StateFulfilled
	case EventClose:
		if o.IsReproduction() {
			return state == StateFulfilled
		}
		return state == StateFulfilled && r.Finished
	default:
		return false
	}
}

// Trigger applies the event if it is permitted: it appends a transition,
// applies the flag side effects, and returns the queued follow-up actions
// for the workflow service to evaluate in the same atomic unit. When the
// event is not permitted, Trigger is a no-op returning (nil, nil, nil).
func (o *Order) Trigger(event statemachine.Event, md statemachine.Metadata, r Readiness) (*statemachine.Transition, []statemachine.FollowUp, error) {
	if err := requireUser(md); err != nil {
		return nil, nil, err
	}
	if !o.machine.Config().Knows(event) || !o.EventPermitted(event, r) {
		return nil, nil, nil
	}
	return o.apply(event, md)
}

// TriggerStrict is Trigger but fails with ErrTransitionNotPermitted when the
// event is not permitted.
func (o *Order) TriggerStrict(event statemachine.Event, md statemachine.Metadata, r Readiness) (*statemachine.Transition, []statemachine.FollowUp, error) {
	if err := requireUser(md); err != nil {
		return nil, nil, err
	}
	if !o.machine.Config().Knows(event) || !o.EventPermitted(event, r) {
		return nil, nil, statemachine.ErrTransitionNotPermitted
	}
	return o.apply(event, md)
}

func (o *Order) apply(event statemachine.Event, md statemachine.Metadata) (*statemachine.Transition, []statemachine.FollowUp, error) {
	transition, err := o.machine.Record(event, md)
	if err != nil {
		return nil, nil, err
	}

	followUps := o.eventCallbacks(event, md)

	// Any activity on a closed-flag order reopens it, except closing.
	if event != EventClose && !o.open {
		o.open = true
	}

	return &transition, followUps, nil
}

// eventCallbacks applies the post-transition flag side effects and queues
// the cross-entity follow-ups.
func (o *Order) eventCallbacks(event statemachine.Event, md statemachine.Metadata) []statemachine.FollowUp {
	var followUps []statemachine.FollowUp

	switch event {
	case EventReset, EventReview:
		if o.confirmed {
			o.confirmed = false
		}
	case EventConfirm:
		o.confirmed = true
		// Cascade the item order event to every active member item. The
		// workflow service skips items whose own predicate denies it.
		for _, m := range o.ActiveMemberships() {
			followUps = append(followUps, statemachine.FollowUp{
				Kind:      statemachine.FollowUpTriggerItemEvent,
				SubjectID: m.ItemID(),
				Event:     item.EventOrder,
				Metadata:  statemachine.Metadata{UserID: md.UserID, OrderID: &o.id},
			})
		}
	case EventCompleteWork:
		followUps = append(followUps, statemachine.FollowUp{
			Kind:      statemachine.FollowUpNotifyWorkComplete,
			SubjectID: o.id,
			Metadata:  md,
		})
	case EventClose:
		o.open = false
	}

	return followUps
}

// UncommittedTransitions exposes the freshly appended rows for the
// persistence layer.
func (o *Order) UncommittedTransitions() []statemachine.Transition {
	return o.machine.UncommittedTransitions()
}

// MarkCommitted declares all appended transitions persisted.
func (o *Order) MarkCommitted() {
	o.machine.MarkCommitted()
}

func requireUser(md statemachine.Metadata) error {
	if md.UserID == nil {
		return errs.NewValueIsRequiredError("metadata.user_id")
	}
	return nil
}
