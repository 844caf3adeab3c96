package item

import "circulation/internal/core/domain/model/statemachine"

// Movement-oriented workflow states. An item rests at its permanent
// location, which is both the initial and the final state of one circuit
// through an order.
const (
	StateAtPermanentLocation          statemachine.State = "at_permanent_location"
	StateOrdered                      statemachine.State = "ordered"
	StateInTransitToTemporaryLocation statemachine.State = "in_transit_to_temporary_location"
	StateReadyAtTemporaryLocation     statemachine.State = "ready_at_temporary_location"
	StateReadyAtUseLocation           statemachine.State = "ready_at_use_location"
	StateReturningToPermanentLocation statemachine.State = "returning_to_permanent_location"
)

// Workflow events. EventOrder is the entry point cascaded by order
// confirmation and is common to physical and digital items.
const (
	EventOrder   statemachine.Event = "order"
	EventSend    statemachine.Event = "send"
	EventReceive statemachine.Event = "receive"
	EventDeliver statemachine.Event = "deliver"
	EventReturn  statemachine.Event = "return"
	EventRestock statemachine.Event = "restock"
)

// config is the single workflow table shared by physical and digital items;
// the permission predicate narrows it per item (digital items deliver, they
// are never sent or returned).
var config = statemachine.Config{
	Initial: StateAtPermanentLocation,
	Final:   StateAtPermanentLocation,
	Table: []statemachine.StateEvent{
		{Event: EventOrder, ToState: StateOrdered,
			Description: "The item has been requested for an order."},
		{Event: EventSend, ToState: StateInTransitToTemporaryLocation,
			Description: "The item has left its permanent location for transfer."},
		{Event: EventReceive, ToState: StateReadyAtTemporaryLocation,
			Description: "The item has arrived at the temporary location and is ready for use."},
		{Event: EventDeliver, ToState: StateReadyAtUseLocation,
			Description: "The digital item is available at its use location."},
		{Event: EventReturn, ToState: StateReturningToPermanentLocation,
			Description: "The item has left the temporary location to return home."},
		{Event: EventRestock, ToState: StateAtPermanentLocation,
			Description: "The item has been returned to its permanent location."},
	},
}

// Config exposes the item workflow table for UI rendering and tests.
func Config() statemachine.Config {
	return config
}
