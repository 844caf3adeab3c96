package statemachine

import "circulation/internal/core/domain/model/kernel"

// FollowUpKind names a cross-entity side effect requested by a transition
// callback.
type FollowUpKind string

const (
	// FollowUpTriggerItemEvent asks the workflow layer to trigger an event
	// on a member item (order confirm cascading the item order event).
	FollowUpTriggerItemEvent FollowUpKind = "trigger_item_event"

	// FollowUpNotifyWorkComplete asks the workflow layer to invoke the
	// work-complete notification collaborator.
	FollowUpNotifyWorkComplete FollowUpKind = "notify_work_complete"

	// FollowUpFulfillOrderIfReady asks the workflow layer to promote the
	// scoping order to fulfilled if all of its items are now ready.
	FollowUpFulfillOrderIfReady FollowUpKind = "fulfill_order_if_ready"

	// FollowUpReleaseMembership asks the workflow layer to deactivate the
	// triggering item's membership on the scoping order after the item
	// returned to its permanent location.
	FollowUpReleaseMembership FollowUpKind = "release_membership"
)

// FollowUp is a queued side-effect request produced by a transition
// callback. Cascades are expressed as data rather than re-entrant calls so
// the workflow service can evaluate them inside the same atomic unit while
// keeping the lock-ordering discipline auditable. A cascade failure aborts
// the whole unit, including the transition that requested it.
type FollowUp struct {
	Kind      FollowUpKind
	SubjectID kernel.UUID
	// ItemID names the member item involved when the target subject is an
	// order (release_membership). Zero otherwise.
	ItemID   kernel.UUID
	Event    Event
	Metadata Metadata
}
