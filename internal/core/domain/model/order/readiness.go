package order

// Readiness is the precomputed snapshot of the order's member-item states
// that the permission predicate consults. It is produced by the readiness
// service from the member items loaded alongside the order, so that
// EventPermitted stays a pure function with no repository access.
type Readiness struct {
	// AllItemsReady is true iff every eligible member item has reached its
	// ready state for this order. An order with zero eligible items is not
	// all-ready.
	AllItemsReady bool

	// AnyItemReady is true if the order has no member items at all, else
	// iff at least one eligible item has reached its ready state for this
	// order.
	AnyItemReady bool

	// Finished is true once every active, non-obsolete member item's most
	// recent transition scoped to this order reached the item's final
	// state. Only meaningful after the order reached fulfilled.
	Finished bool

	// HasDigitalItems is true when any member item is digital, which makes
	// confirmation require an explicit review step first.
	HasDigitalItems bool
}
