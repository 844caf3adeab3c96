package services

import (
	"circulation/internal/core/domain/model/item"
	"circulation/internal/core/domain/model/order"
)

// ReadinessService reduces the states of an order's member items into the
// order-level readiness predicates. Every question is scoped to the given
// order: an item that was staged for an earlier order does not count as
// ready for this one, even if its global state looks right.
//
// The service is stateless and operates purely on loaded aggregates, so the
// predicates can be evaluated inside a trigger unit without repository
// access.
type ReadinessService struct{}

// NewReadinessService creates a ReadinessService instance.
func NewReadinessService() ReadinessService {
	return ReadinessService{}
}

// ItemReady reports whether the item is staged for use in the context of
// the order. A digital item is ready once it ever reached the use location
// for this order; a physical item once it ever reached the temporary
// location for this order. Either kind also counts as ready while it
// currently sits at the order's temporary location.
func (s ReadinessService) ItemReady(o *order.Order, i *item.Item) bool {
	atTemporary := o.LocationID() != nil && i.AtLocation(*o.LocationID())

	if i.Digital() {
		return i.StateReachedFor(item.StateReadyAtUseLocation, o.ID()) || atTemporary
	}
	return i.StateReachedFor(item.StateReadyAtTemporaryLocation, o.ID()) || atTemporary
}

// AllItemsReady reports whether every non-obsolete member item satisfies
// ItemReady, short-circuiting on the first item that does not. An order
// with zero eligible items is not all-ready: vacuous readiness would let an
// empty order fulfill.
func (s ReadinessService) AllItemsReady(o *order.Order, items []*item.Item) bool {
	ready := false
	for _, i := range items {
		if i.Obsolete() {
			continue
		}
		ready = s.ItemReady(o, i)
		if !ready {
			return false
		}
	}
	return ready
}

// AnyItemReady reports whether at least one non-obsolete member item has
// reached its ready state for this order. An order with no member items at
// all is vacuously ready, which permits starting reproduction work before
// anything is attached. The asymmetry with AllItemsReady is deliberate and
// long-standing.
func (s ReadinessService) AnyItemReady(o *order.Order, items []*item.Item) bool {
	if len(items) == 0 {
		return true
	}
	for _, i := range items {
		if i.Obsolete() {
			continue
		}
		if i.Digital() {
			if i.StateReachedFor(item.StateReadyAtUseLocation, o.ID()) {
				return true
			}
		} else if i.StateReachedFor(item.StateReadyAtTemporaryLocation, o.ID()) {
			return true
		}
	}
	return false
}

// OrderFinished reports whether the order's items are all back home. It is
// only meaningful once the order reached fulfilled. An order with no active
// memberships is finished; otherwise every active, non-obsolete member
// item's most recent transition scoped to this order must have reached the
// item's final state.
func (s ReadinessService) OrderFinished(o *order.Order, items []*item.Item) bool {
	if !o.StateReached(order.StateFulfilled) {
		return false
	}

	active := o.ActiveMemberships()
	if len(active) == 0 {
		return true
	}

	finished := false
	for _, m := range active {
		i := findItem(items, m)
		if i == nil || i.Obsolete() {
			continue
		}

		last := i.LastTransitionFor(o.ID())
		if last == nil || last.ToState != i.FinalState() {
			return false
		}
		finished = true
	}
	return finished
}

// HasDigitalItems reports whether any member item is a digital object.
func (s ReadinessService) HasDigitalItems(items []*item.Item) bool {
	for _, i := range items {
		if i.Digital() {
			return true
		}
	}
	return false
}

// Snapshot evaluates all readiness predicates at once for the order's
// permission checks.
func (s ReadinessService) Snapshot(o *order.Order, items []*item.Item) order.Readiness {
	return order.Readiness{
		AllItemsReady:   s.AllItemsReady(o, items),
		AnyItemReady:    s.AnyItemReady(o, items),
		Finished:        s.OrderFinished(o, items),
		HasDigitalItems: s.HasDigitalItems(items),
	}
}

func findItem(items []*item.Item, m order.Membership) *item.Item {
	for _, i := range items {
		if i.ID().IsEqual(m.ItemID()) {
			return i
		}
	}
	return nil
}
