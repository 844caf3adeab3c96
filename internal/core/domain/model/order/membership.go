package order

import "circulation/internal/core/domain/model/kernel"

// Membership links an item to the order. An inactive membership no longer
// governs the item's movement, for example after the item was claimed by a
// later order or marked obsolete.
type Membership struct {
	itemID kernel.UUID
	active bool
}

// NewMembership creates an active membership for the given item.
func NewMembership(itemID kernel.UUID) Membership {
	return Membership{itemID: itemID, active: true}
}

// RestoreMembership rebuilds a membership from persistence.
func RestoreMembership(itemID kernel.UUID, active bool) Membership {
	return Membership{itemID: itemID, active: active}
}

// ItemID returns the member item's identifier.
func (m Membership) ItemID() kernel.UUID {
	return m.itemID
}

// Active reports whether the membership currently governs the item's
// movement.
func (m Membership) Active() bool {
	return m.active
}
