// Package statemachine implements the shared workflow capability embedded in
// the Order and Item aggregates. It provides the static state configuration
// tables, the immutable append-only transition record, and the Machine type
// that derives the current state of a subject purely from its transition
// history.
//
// The package deliberately separates permission evaluation from application:
// the aggregates own their side-effect-free permission predicates, while
// Machine.Record is the single append path for transitions. Side effects
// that reach beyond the triggering aggregate are expressed as FollowUp
// values and drained by the workflow service inside the same atomic unit,
// keeping cascades auditable instead of re-entrant.
package statemachine
