package statemachine

// State labels a workflow state a subject can occupy.
type State string

// Event names an action that, if permitted, moves a subject to a new state.
type Event string

// Kind discriminates the two subject families governed by the engine.
type Kind string

const (
	// KindOrder marks transitions belonging to an order subject.
	KindOrder Kind = "order"
	// KindItem marks transitions belonging to an item subject.
	KindItem Kind = "item"
)

// StateEvent is one row of a subject's workflow table: the event, the state
// it produces, and the human-readable description shown to staff users.
type StateEvent struct {
	Event       Event
	ToState     State
	Description string
}

// Config is the static per-variant workflow table. Tables are package-level
// constants in the aggregate packages; they are fixed in shape and never
// constructed at runtime.
type Config struct {
	// Initial is the state a subject occupies before any transition exists.
	Initial State

	// Final is the terminal state of the workflow. Reaching it ends the
	// subject's participation unless the lifecycle explicitly reopens.
	Final State

	// Table lists the legal events in workflow order.
	Table []StateEvent
}

// ToState resolves the state an event produces. The second return value is
// false when the event does not exist in this configuration.
func (c Config) ToState(event Event) (State, bool) {
	for _, se := range c.Table {
		if se.Event == event {
			return se.ToState, true
		}
	}
	return "", false
}

// Knows reports whether the event exists in this configuration at all,
// independent of whether it is currently permitted.
func (c Config) Knows(event Event) bool {
	_, ok := c.ToState(event)
	return ok
}

// Events returns every event in the configuration, in workflow order.
func (c Config) Events() []Event {
	events := make([]Event, 0, len(c.Table))
	for _, se := range c.Table {
		events = append(events, se.Event)
	}
	return events
}

// StateEventRow is one (state, event, description) row of the flattened
// table rendered by UI layers.
type StateEventRow struct {
	State       State  `json:"state"`
	Event       Event  `json:"event"`
	Description string `json:"description"`
}

// StatesEvents flattens the configuration into ordered rows for UI
// rendering.
func (c Config) StatesEvents() []StateEventRow {
	rows := make([]StateEventRow, 0, len(c.Table))
	for _, se := range c.Table {
		rows = append(rows, StateEventRow{
			State:       se.ToState,
			Event:       se.Event,
			Description: se.Description,
		})
	}
	return rows
}
