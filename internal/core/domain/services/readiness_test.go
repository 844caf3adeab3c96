package services_test

import (
	"testing"

	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/order"
	"circulation/internal/core/domain/model/statemachine"
	"circulation/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standardOrder(t *testing.T, locationID *kernel.UUID) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), order.Standard, nil, locationID, []string{"archivist"})
	require.NoError(t, err)
	return o
}

func physicalItem(t *testing.T) *item.Item {
	t.Helper()
	i, err := item.NewItem(kernel.NewUUID(), false, kernel.NewUUID())
	require.NoError(t, err)
	return i
}

func digitalItem(t *testing.T) *item.Item {
	t.Helper()
	i, err := item.NewItem(kernel.NewUUID(), true, kernel.NewUUID())
	require.NoError(t, err)
	return i
}

func orderScoped(orderID kernel.UUID) statemachine.Metadata {
	userID := kernel.NewUUID()
	return statemachine.Metadata{UserID: &userID, OrderID: &orderID}
}

// stageItem fires order-scoped item events, failing the test on any denial.
func stageItem(t *testing.T, i *item.Item, orderID kernel.UUID, events ...statemachine.Event) {
	t.Helper()
	for _, event := range events {
		_, _, err := i.TriggerStrict(event, orderScoped(orderID))
		require.NoError(t, err)
	}
}

func TestReadinessService_ItemReady(t *testing.T) {
	readiness := services.NewReadinessService()

	t.Run("physical item is ready once received for this order", func(t *testing.T) {
		o := standardOrder(t, nil)
		i := physicalItem(t)
		stageItem(t, i, o.ID(), item.EventOrder, item.EventSend, item.EventReceive)

		assert.True(t, readiness.ItemReady(o, i))
	})

	t.Run("readiness earned for another order does not count", func(t *testing.T) {
		o := standardOrder(t, nil)
		i := physicalItem(t)
		stageItem(t, i, kernel.NewUUID(), item.EventOrder, item.EventSend, item.EventReceive)

		assert.False(t, readiness.ItemReady(o, i))
	})

	t.Run("item sitting at the order's location is ready regardless of scope", func(t *testing.T) {
		roomID := kernel.NewUUID()
		o := standardOrder(t, &roomID)
		i := physicalItem(t)
		stageItem(t, i, kernel.NewUUID(), item.EventOrder, item.EventSend)

		userID := kernel.NewUUID()
		otherOrder := kernel.NewUUID()
		_, _, err := i.TriggerStrict(item.EventReceive, statemachine.Metadata{UserID: &userID, OrderID: &otherOrder, LocationID: &roomID})
		require.NoError(t, err)

		assert.True(t, readiness.ItemReady(o, i))
	})

	t.Run("digital item is ready once delivered for this order", func(t *testing.T) {
		o := standardOrder(t, nil)
		i := digitalItem(t)
		stageItem(t, i, o.ID(), item.EventOrder)
		assert.False(t, readiness.ItemReady(o, i))

		stageItem(t, i, o.ID(), item.EventDeliver)
		assert.True(t, readiness.ItemReady(o, i))
	})
}

func TestReadinessService_AllItemsReady(t *testing.T) {
	readiness := services.NewReadinessService()

	t.Run("no items means not ready", func(t *testing.T) {
		o := standardOrder(t, nil)
		assert.False(t, readiness.AllItemsReady(o, nil))
	})

	t.Run("only obsolete items means not ready", func(t *testing.T) {
		o := standardOrder(t, nil)
		i := physicalItem(t)
		stageItem(t, i, o.ID(), item.EventOrder, item.EventSend, item.EventReceive)
		require.NoError(t, i.MarkObsolete(true))

		assert.False(t, readiness.AllItemsReady(o, []*item.Item{i}))
	})

	t.Run("one waiting item blocks readiness", func(t *testing.T) {
		o := standardOrder(t, nil)
		staged := physicalItem(t)
		stageItem(t, staged, o.ID(), item.EventOrder, item.EventSend, item.EventReceive)
		waiting := physicalItem(t)
		stageItem(t, waiting, o.ID(), item.EventOrder)

		assert.False(t, readiness.AllItemsReady(o, []*item.Item{staged, waiting}))
	})

	t.Run("all eligible items ready, obsolete stragglers excluded", func(t *testing.T) {
		o := standardOrder(t, nil)
		staged := physicalItem(t)
		stageItem(t, staged, o.ID(), item.EventOrder, item.EventSend, item.EventReceive)
		obsolete := physicalItem(t)
		stageItem(t, obsolete, o.ID(), item.EventOrder)
		require.NoError(t, obsolete.MarkObsolete(true))

		assert.True(t, readiness.AllItemsReady(o, []*item.Item{staged, obsolete}))
	})
}

func TestReadinessService_AnyItemReady(t *testing.T) {
	readiness := services.NewReadinessService()

	t.Run("no items at all is vacuously ready", func(t *testing.T) {
		o := standardOrder(t, nil)
		assert.True(t, readiness.AnyItemReady(o, nil))
	})

	t.Run("none of the members staged", func(t *testing.T) {
		o := standardOrder(t, nil)
		i := physicalItem(t)
		stageItem(t, i, o.ID(), item.EventOrder)

		assert.False(t, readiness.AnyItemReady(o, []*item.Item{i}))
	})

	t.Run("one staged member suffices", func(t *testing.T) {
		o := standardOrder(t, nil)
		waiting := physicalItem(t)
		stageItem(t, waiting, o.ID(), item.EventOrder)
		staged := digitalItem(t)
		stageItem(t, staged, o.ID(), item.EventOrder, item.EventDeliver)

		assert.True(t, readiness.AnyItemReady(o, []*item.Item{waiting, staged}))
	})

	t.Run("obsolete members do not count", func(t *testing.T) {
		o := standardOrder(t, nil)
		i := physicalItem(t)
		stageItem(t, i, o.ID(), item.EventOrder, item.EventSend, item.EventReceive)
		require.NoError(t, i.MarkObsolete(true))

		assert.False(t, readiness.AnyItemReady(o, []*item.Item{i}))
	})
}

func TestReadinessService_OrderFinished(t *testing.T) {
	readiness := services.NewReadinessService()
	userID := kernel.NewUUID()
	md := statemachine.Metadata{UserID: &userID}

	fulfilledOrder := func(t *testing.T, memberIDs ...kernel.UUID) *order.Order {
		t.Helper()
		o := standardOrder(t, nil)
		for _, id := range memberIDs {
			require.NoError(t, o.AddItem(id))
		}
		_, _, err := o.TriggerStrict(order.EventConfirm, md, order.Readiness{})
		require.NoError(t, err)
		_, _, err = o.TriggerStrict(order.EventFulfill, md, order.Readiness{AllItemsReady: true})
		require.NoError(t, err)
		return o
	}

	t.Run("unfulfilled order is never finished", func(t *testing.T) {
		o := standardOrder(t, nil)
		assert.False(t, readiness.OrderFinished(o, nil))
	})

	t.Run("fulfilled order with no active memberships is finished", func(t *testing.T) {
		o := fulfilledOrder(t)
		assert.True(t, readiness.OrderFinished(o, nil))
	})

	t.Run("member still away from home blocks finishing", func(t *testing.T) {
		i := physicalItem(t)
		o := fulfilledOrder(t, i.ID())
		stageItem(t, i, o.ID(), item.EventOrder, item.EventSend, item.EventReceive)

		assert.False(t, readiness.OrderFinished(o, []*item.Item{i}))
	})

	t.Run("all members restocked means finished", func(t *testing.T) {
		i := physicalItem(t)
		o := fulfilledOrder(t, i.ID())
		stageItem(t, i, o.ID(),
			item.EventOrder, item.EventSend, item.EventReceive, item.EventReturn, item.EventRestock)

		assert.True(t, readiness.OrderFinished(o, []*item.Item{i}))
	})

	t.Run("member without order-scoped movement blocks finishing", func(t *testing.T) {
		i := physicalItem(t)
		o := fulfilledOrder(t, i.ID())

		assert.False(t, readiness.OrderFinished(o, []*item.Item{i}))
	})
}

func TestReadinessService_Snapshot(t *testing.T) {
	readiness := services.NewReadinessService()
	o := standardOrder(t, nil)
	staged := digitalItem(t)
	stageItem(t, staged, o.ID(), item.EventOrder, item.EventDeliver)
	waiting := physicalItem(t)
	stageItem(t, waiting, o.ID(), item.EventOrder)

	snapshot := readiness.Snapshot(o, []*item.Item{staged, waiting})

	assert.False(t, snapshot.AllItemsReady)
	assert.True(t, snapshot.AnyItemReady)
	assert.False(t, snapshot.Finished)
	assert.True(t, snapshot.HasDigitalItems)
}
