// Package order provides the Order aggregate root for the circulation
// system: a fulfillment request moving archival items to a reading room or
// through a reproduction workflow.
//
// The package includes:
//   - Order: the aggregate root holding the workflow machine, the open and
//     confirmed flags, the assignee list, and the item memberships
//   - Variant: the tagged selector between the standard and reproduction
//     workflow configurations
//   - Membership: the relation linking an item to the order, with an active
//     flag marking whether it currently governs that item's movement
//
// Key business rules:
//   - The current workflow state is derived from the transition history,
//     never stored or set directly
//   - Which events are permitted depends on the variant, the current state,
//     and the readiness of the order's member items
//   - Any activity on an order whose open flag was cleared reopens it,
//     except the close event itself
//   - Reproduction orders skip the review/confirm steps and are confirmed
//     on creation
//
// The package follows Domain-Driven Design principles, providing rich
// domain behavior, encapsulation, and validation to ensure business rules
// are enforced.
package order
