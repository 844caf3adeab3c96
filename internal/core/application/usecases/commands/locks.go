package commands

import (
	"sort"

	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/kernel"
	"circulation/internal/core/domain/model/statemachine"
)

// Lock keys are namespaced by subject kind so an order and an item sharing
// a UUID can never alias. Handlers always acquire the order key before any
// member item keys.

func orderLockKey(id kernel.UUID) string {
	return string(statemachine.KindOrder) + ":" + id.String()
}

func itemLockKey(id kernel.UUID) string {
	return string(statemachine.KindItem) + ":" + id.String()
}

// orderLockKeys returns the order keys in ascending order, for handlers
// that touch several orders before any item.
func orderLockKeys(ids []kernel.UUID) []string {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, orderLockKey(id))
	}
	sort.Strings(keys)
	return keys
}

// itemLockKeys returns the member item keys in ascending order, the
// canonical acquisition order after the order's own key.
func itemLockKeys(items []*item.Item) []string {
	keys := make([]string, 0, len(items))
	for _, i := range items {
		keys = append(keys, itemLockKey(i.ID()))
	}
	sort.Strings(keys)
	return keys
}
