package statemachine_test

import (
	"testing"
	"time"

	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/pkg/errs"

	"github.com/stretchr/testify/require"
)

var testConfig = statemachine.Config{
	Initial: "draft",
	Final:   "archived",
	Table: []statemachine.StateEvent{
		{Event: "submit", ToState: "submitted", Description: "Submit for processing."},
		{Event: "approve", ToState: "approved", Description: "Approve the submission."},
		{Event: "archive", ToState: "archived", Description: "Archive the subject."},
	},
}

func TestNewMachine_StartsInInitialState(t *testing.T) {
	m := statemachine.NewMachine(kernel.NewUUID(), statemachine.KindOrder, testConfig)

	require.Equal(t, statemachine.State("draft"), m.CurrentState())
	require.Equal(t, statemachine.State("archived"), m.FinalState())
	require.Empty(t, m.History())
	require.Nil(t, m.LastTransition())
	require.Empty(t, m.UncommittedTransitions())
}

func TestMachine_Record(t *testing.T) {
	t.Run("appends transition and derives state", func(t *testing.T) {
		subjectID := kernel.NewUUID()
		userID := kernel.NewUUID()
		m := statemachine.NewMachine(subjectID, statemachine.KindOrder, testConfig)

		transition, err := m.Record("submit", statemachine.Metadata{UserID: &userID})
		require.NoError(t, err)

		require.True(t, transition.SubjectID.IsEqual(subjectID))
		require.Equal(t, statemachine.KindOrder, transition.SubjectKind)
		require.Equal(t, statemachine.Event("submit"), transition.Event)
		require.Equal(t, statemachine.State("submitted"), transition.ToState)
		require.NoError(t, transition.ID.Validate())
		require.False(t, transition.CreatedAt.IsZero())

		require.Equal(t, statemachine.State("submitted"), m.CurrentState())
		require.Len(t, m.History(), 1)
	})

	t.Run("unknown event is rejected", func(t *testing.T) {
		m := statemachine.NewMachine(kernel.NewUUID(), statemachine.KindOrder, testConfig)

		_, err := m.Record("teleport", statemachine.Metadata{})

		var invalid *errs.ValueIsInvalidError
		require.ErrorAs(t, err, &invalid)
		require.Empty(t, m.History(), "rejected events must not append")
	})

	t.Run("history preserves order", func(t *testing.T) {
		m := statemachine.NewMachine(kernel.NewUUID(), statemachine.KindOrder, testConfig)

		_, err := m.Record("submit", statemachine.Metadata{})
		require.NoError(t, err)
		_, err = m.Record("approve", statemachine.Metadata{})
		require.NoError(t, err)

		history := m.History()
		require.Len(t, history, 2)
		require.Equal(t, statemachine.Event("submit"), history[0].Event)
		require.Equal(t, statemachine.Event("approve"), history[1].Event)
		require.Equal(t, statemachine.State("approved"), m.CurrentState())
	})
}

func TestMachine_UncommittedTransitions(t *testing.T) {
	m := statemachine.NewMachine(kernel.NewUUID(), statemachine.KindItem, testConfig)

	_, err := m.Record("submit", statemachine.Metadata{})
	require.NoError(t, err)
	require.Len(t, m.UncommittedTransitions(), 1)

	m.MarkCommitted()
	require.Empty(t, m.UncommittedTransitions())

	_, err = m.Record("approve", statemachine.Metadata{})
	require.NoError(t, err)

	pending := m.UncommittedTransitions()
	require.Len(t, pending, 1)
	require.Equal(t, statemachine.Event("approve"), pending[0].Event)
}

func TestRestoreMachine(t *testing.T) {
	subjectID := kernel.NewUUID()
	now := time.Now().UTC()

	// Deliberately out of order: restore must sort by CreatedAt.
	history := []statemachine.Transition{
		{
			ID: kernel.NewUUID(), SubjectID: subjectID, SubjectKind: statemachine.KindOrder,
			Event: "approve", ToState: "approved", CreatedAt: now.Add(time.Minute),
		},
		{
			ID: kernel.NewUUID(), SubjectID: subjectID, SubjectKind: statemachine.KindOrder,
			Event: "submit", ToState: "submitted", CreatedAt: now,
		},
	}

	m := statemachine.RestoreMachine(subjectID, statemachine.KindOrder, testConfig, history)

	require.Equal(t, statemachine.State("approved"), m.CurrentState())
	require.Equal(t, statemachine.Event("submit"), m.History()[0].Event)
	require.Empty(t, m.UncommittedTransitions(), "restored transitions count as committed")
}

func TestMachine_StateReached(t *testing.T) {
	m := statemachine.NewMachine(kernel.NewUUID(), statemachine.KindOrder, testConfig)

	_, err := m.Record("submit", statemachine.Metadata{})
	require.NoError(t, err)
	_, err = m.Record("approve", statemachine.Metadata{})
	require.NoError(t, err)

	require.True(t, m.StateReached("submitted"), "past states stay reached")
	require.True(t, m.StateReached("approved"))
	require.False(t, m.StateReached("archived"))
}

func TestMachine_StateReachedFor_RespectsOrderScope(t *testing.T) {
	firstOrderID := kernel.NewUUID()
	secondOrderID := kernel.NewUUID()
	m := statemachine.NewMachine(kernel.NewUUID(), statemachine.KindItem, testConfig)

	_, err := m.Record("submit", statemachine.Metadata{OrderID: &firstOrderID})
	require.NoError(t, err)

	require.True(t, m.StateReachedFor("submitted", firstOrderID))
	require.False(t, m.StateReachedFor("submitted", secondOrderID),
		"reaching a state for one order must not count for another")
}

func TestMachine_LastTransitionFor(t *testing.T) {
	firstOrderID := kernel.NewUUID()
	secondOrderID := kernel.NewUUID()
	m := statemachine.NewMachine(kernel.NewUUID(), statemachine.KindItem, testConfig)

	_, err := m.Record("submit", statemachine.Metadata{OrderID: &firstOrderID})
	require.NoError(t, err)
	_, err = m.Record("approve", statemachine.Metadata{OrderID: &secondOrderID})
	require.NoError(t, err)

	last := m.LastTransitionFor(firstOrderID)
	require.NotNil(t, last)
	require.Equal(t, statemachine.Event("submit"), last.Event)

	require.Nil(t, m.LastTransitionFor(kernel.NewUUID()))
}
