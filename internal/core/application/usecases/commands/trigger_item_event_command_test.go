package commands_test

import (
	"testing"

	"circulation/internal/core/application/usecases/commands"
	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/require"
)

func TestNewTriggerItemEventCommand(t *testing.T) {
	t.Run("valid input with scope", func(t *testing.T) {
		itemID := kernel.NewUUID()
		userID := kernel.NewUUID()
		orderID := kernel.NewUUID()
		locationID := kernel.NewUUID()

		cmd, err := commands.NewTriggerItemEventCommand(
			itemID, item.EventReceive, userID, &orderID, &locationID, true,
		)

		require.NoError(t, err)
		require.Equal(t, itemID, cmd.ItemID())
		require.Equal(t, item.EventReceive, cmd.Event())
		require.Equal(t, userID, cmd.UserID())
		require.Equal(t, orderID, *cmd.OrderID())
		require.Equal(t, locationID, *cmd.LocationID())
		require.True(t, cmd.Strict())
	})

	t.Run("scope and location are optional", func(t *testing.T) {
		cmd, err := commands.NewTriggerItemEventCommand(
			kernel.NewUUID(), item.EventRestock, kernel.NewUUID(), nil, nil, false,
		)
		require.NoError(t, err)
		require.Nil(t, cmd.OrderID())
		require.Nil(t, cmd.LocationID())
	})

	t.Run("invalid item ID", func(t *testing.T) {
		_, err := commands.NewTriggerItemEventCommand(
			kernel.UUID{}, item.EventSend, kernel.NewUUID(), nil, nil, true,
		)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("empty event", func(t *testing.T) {
		_, err := commands.NewTriggerItemEventCommand(
			kernel.NewUUID(), "", kernel.NewUUID(), nil, nil, true,
		)
		require.Error(t, err)
	})

	t.Run("invalid scoping order ID", func(t *testing.T) {
		badOrderID := kernel.UUID{}
		_, err := commands.NewTriggerItemEventCommand(
			kernel.NewUUID(), item.EventReceive, kernel.NewUUID(), &badOrderID, nil, true,
		)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("not constructed", func(t *testing.T) {
		var cmd commands.TriggerItemEventCommand
		require.ErrorIs(t, cmd.Validate(), commands.ErrTriggerItemEventCommandIsNotConstructed)
	})
}

func TestTriggerItemEventCommand_Metadata(t *testing.T) {
	userID := kernel.NewUUID()
	orderID := kernel.NewUUID()
	locationID := kernel.NewUUID()

	cmd, err := commands.NewTriggerItemEventCommand(
		kernel.NewUUID(), item.EventReceive, userID, &orderID, &locationID, true,
	)
	require.NoError(t, err)

	md := cmd.Metadata()
	require.Equal(t, userID, *md.UserID)
	require.Equal(t, orderID, *md.OrderID)
	require.Equal(t, locationID, *md.LocationID)
	require.True(t, md.ScopedTo(orderID))
}
