package order

import "circulation/internal/core/domain/model/statemachine"

// Workflow states an order can occupy. StateRequested is produced by the
// request-intake system (out of scope) and only ever appears as a starting
// point for review.
const (
	StatePending      statemachine.State = "pending"
	StateRequested    statemachine.State = "requested"
	StateReviewing    statemachine.State = "reviewing"
	StateConfirmed    statemachine.State = "confirmed"
	StateInProgress   statemachine.State = "in_progress"
	StateWorkComplete statemachine.State = "work_complete"
	StateFulfilled    statemachine.State = "fulfilled"
	StateClosed       statemachine.State = "closed"
)

// Workflow events. EventActivate has no table entry in either variant; it
// exists only in the permission predicate, mirroring the long-standing shape
// of the workflow.
const (
	EventReset        statemachine.Event = "reset"
	EventReview       statemachine.Event = "review"
	EventConfirm      statemachine.Event = "confirm"
	EventBeginWork    statemachine.Event = "begin_work"
	EventCompleteWork statemachine.Event = "complete_work"
	EventFulfill      statemachine.Event = "fulfill"
	EventClose        statemachine.Event = "close"
	EventActivate     statemachine.Event = "activate"
)

// standardConfig is the workflow table for reading-room orders.
var standardConfig = statemachine.Config{
	Initial: StatePending,
	Final:   StateClosed,
	Table: []statemachine.StateEvent{
		{Event: EventReset, ToState: StatePending,
			Description: "Reset order status to 'pending'."},
		{Event: EventReview, ToState: StateReviewing,
			Description: "Review the request prior to confirmation."},
		{Event: EventConfirm, ToState: StateConfirmed,
			Description: "The request has been reviewed and items are approved for transfer."},
		{Event: EventFulfill, ToState: StateFulfilled,
			Description: "All items have been received at their use location."},
		{Event: EventClose, ToState: StateClosed,
			Description: "Use of the items is complete or no longer required. This order can be closed."},
	},
}

// reproductionConfig is the workflow table for digitization/copying orders.
var reproductionConfig = statemachine.Config{
	Initial: StatePending,
	Final:   StateClosed,
	Table: []statemachine.StateEvent{
		{Event: EventReset, ToState: StatePending,
			Description: "Reset order status to 'pending'."},
		{Event: EventBeginWork, ToState: StateInProgress,
			Description: "Digitization/copying is in progress or files are being prepared for delivery."},
		{Event: EventCompleteWork, ToState: StateWorkComplete,
			Description: "Digitization/copying is complete or files are ready for delivery."},
		{Event: EventFulfill, ToState: StateFulfilled,
			Description: "Materials have been sent to the requester as specified."},
		{Event: EventClose, ToState: StateClosed,
			Description: "All physical items have been returned and the requester has been invoiced as required. This order can be closed."},
	},
}

// ConfigFor returns the workflow table for the given variant. Unknown
// variants fall back to the standard table; Validate rejects them before an
// order is ever constructed.
func ConfigFor(variant Variant) statemachine.Config {
	if variant == Reproduction {
		return reproductionConfig
	}
	return standardConfig
}
