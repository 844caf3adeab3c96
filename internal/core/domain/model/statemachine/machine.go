package statemachine

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/pkg/errs"
)

// ErrTransitionNotPermitted is returned by the strict trigger operations when
// an event is not permitted in the subject's current situation. Callers can
// recover by re-checking AvailableEvents.
var ErrTransitionNotPermitted = errors.New("transition is not permitted")

// Machine is the transition-engine capability embedded in the Order and Item
// aggregates. It holds the subject's static configuration and its ordered
// transition history, and derives the current state from that history alone.
// There is deliberately no state setter: the only way to change state is to
// append a transition via Record.
//
// Appends made since the machine was restored are tracked separately so the
// persistence layer can write exactly the new rows of the append-only log.
type Machine struct {
	subjectID kernel.UUID
	kind      Kind
	config    Config
	history   []Transition
	committed int
}

// NewMachine creates the machine for a freshly created subject with an empty
// history. The subject starts in the configuration's initial state.
func NewMachine(subjectID kernel.UUID, kind Kind, config Config) Machine {
	return Machine{
		subjectID: subjectID,
		kind:      kind,
		config:    config,
	}
}

// RestoreMachine rebuilds the machine from persisted history. Transitions
// are ordered by CreatedAt; rows with equal timestamps keep their given
// order. All restored transitions count as committed.
func RestoreMachine(subjectID kernel.UUID, kind Kind, config Config, history []Transition) Machine {
	ordered := make([]Transition, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	return Machine{
		subjectID: subjectID,
		kind:      kind,
		config:    config,
		history:   ordered,
		committed: len(ordered),
	}
}

// Config returns the subject's workflow configuration.
func (m *Machine) Config() Config {
	return m.config
}

// CurrentState is the to-state of the latest transition, or the initial
// state when the history is empty. It is a pure function of the history.
func (m *Machine) CurrentState() State {
	if last := m.LastTransition(); last != nil {
		return last.ToState
	}
	return m.config.Initial
}

// FinalState returns the terminal state of the subject's configuration.
func (m *Machine) FinalState() State {
	return m.config.Final
}

// History returns a copy of the full ordered transition history.
func (m *Machine) History() []Transition {
	history := make([]Transition, len(m.history))
	copy(history, m.history)
	return history
}

// LastTransition returns the most recent transition, or nil for an empty
// history.
func (m *Machine) LastTransition() *Transition {
	if len(m.history) == 0 {
		return nil
	}
	last := m.history[len(m.history)-1]
	return &last
}

// LastTransitionFor returns the most recent transition whose metadata is
// scoped to the given order, or nil if the subject never transitioned in
// that order's context.
func (m *Machine) LastTransitionFor(orderID kernel.UUID) *Transition {
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].Metadata.ScopedTo(orderID) {
			t := m.history[i]
			return &t
		}
	}
	return nil
}

// StateReached reports whether any transition in the history reached the
// given state. This answers "has this ever happened", distinct from "is this
// the current state".
func (m *Machine) StateReached(state State) bool {
	for _, t := range m.history {
		if t.ToState == state {
			return true
		}
	}
	return false
}

// StateReachedFor reports whether the subject ever reached the given state
// in the context of the given order. Queries that skip the order scope on an
// item that served several orders are a correctness bug, so readiness checks
// must go through this method.
func (m *Machine) StateReachedFor(state State, orderID kernel.UUID) bool {
	for _, t := range m.history {
		if t.ToState == state && t.Metadata.ScopedTo(orderID) {
			return true
		}
	}
	return false
}

// Record appends a transition for the given event. It is the single append
// path of the log and is only called by the aggregates' trigger operations,
// after the permission predicate has approved the event.
func (m *Machine) Record(event Event, md Metadata) (Transition, error) {
	toState, ok := m.config.ToState(event)
	if !ok {
		return Transition{}, errs.NewValueIsInvalidErrorWithCause("event",
			fmt.Errorf("%s is not defined for %s subjects", event, m.kind))
	}

	transition := Transition{
		ID:          kernel.NewUUID(),
		SubjectID:   m.subjectID,
		SubjectKind: m.kind,
		Event:       event,
		ToState:     toState,
		Metadata:    md,
		CreatedAt:   time.Now().UTC(),
	}
	m.history = append(m.history, transition)
	return transition, nil
}

// UncommittedTransitions returns the transitions appended since the machine
// was restored or last marked committed. The persistence layer writes these
// rows and nothing else.
func (m *Machine) UncommittedTransitions() []Transition {
	pending := make([]Transition, len(m.history)-m.committed)
	copy(pending, m.history[m.committed:])
	return pending
}

// MarkCommitted declares all appended transitions persisted.
func (m *Machine) MarkCommitted() {
	m.committed = len(m.history)
}
