// Package guard implements the constructor guard pattern used across the
// domain model. Embedding a ConstructorGuard in an entity or command lets
// Validate detect zero-value instances that bypassed the designated
// constructor function.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when the caller does not
// supply its own validation error.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard tracks whether the enclosing object was produced by its
// constructor. The zero value always fails validation, so structs created by
// direct literal initialization are rejected.
//
// Example:
//
//	type Membership struct {
//	    itemID kernel.UUID
//	    guard  guard.ConstructorGuard
//	}
//
//	func NewMembership(itemID kernel.UUID) Membership {
//	    return Membership{itemID: itemID, guard: guard.NewConstructorGuard()}
//	}
//
//	func (m Membership) Validate() error {
//	    return m.guard.Validate(ErrMembershipIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking the enclosing object as
// properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil for a constructed guard. For a zero-value guard it
// returns err, or ErrDefaultConstructorGuard when err is nil.
func (g ConstructorGuard) Validate(err error) error {
	if g.isConstructed {
		return nil
	}
	if err == nil {
		return ErrDefaultConstructorGuard
	}
	return err
}
