// Package services provides domain services that orchestrate business
// operations across multiple domain entities in the circulation system. It
// implements the logic that spans the Order and Item aggregates and does not
// naturally belong to either.
//
// The package includes:
//   - ReadinessService: reduces the states of an order's member items into
//     the order-level readiness predicates, always scoped to that order
//   - WorkflowService: executes a trigger-and-cascade unit over loaded
//     aggregates, draining queued follow-up actions so cross-entity
//     cascades stay inside one atomic unit
//
// Domain services coordinate between aggregates, implementing business
// logic that spans multiple bounded contexts following Domain-Driven Design
// principles.
package services
