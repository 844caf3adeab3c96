package queries_test

import (
	"testing"

	"circulation/internal/core/application/usecases/queries"
	"circulation/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/require"
)

func TestNewGetOrderQuery(t *testing.T) {
	orderID := kernel.NewUUID()
	query, err := queries.NewGetOrderQuery(orderID)
	require.NoError(t, err)
	require.Equal(t, orderID, query.OrderID())
	require.NoError(t, query.Validate())

	_, err = queries.NewGetOrderQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	var empty queries.GetOrderQuery
	require.ErrorIs(t, empty.Validate(), queries.ErrGetOrderQueryIsNotConstructed)
}

func TestNewGetItemHistoryQuery(t *testing.T) {
	itemID := kernel.NewUUID()
	query, err := queries.NewGetItemHistoryQuery(itemID)
	require.NoError(t, err)
	require.Equal(t, itemID, query.ItemID())
	require.NoError(t, query.Validate())

	_, err = queries.NewGetItemHistoryQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	var empty queries.GetItemHistoryQuery
	require.ErrorIs(t, empty.Validate(), queries.ErrGetItemHistoryQueryIsNotConstructed)
}

func TestNewGetOpenOrdersQuery(t *testing.T) {
	query := queries.NewGetOpenOrdersQuery()
	require.NoError(t, query.Validate())

	var empty queries.GetOpenOrdersQuery
	require.ErrorIs(t, empty.Validate(), queries.ErrGetOpenOrdersQueryIsNotConstructed)
}
