// Package item provides the Item aggregate root for the circulation system:
// a physical or digital archival material tracked as it moves between its
// permanent location and the temporary locations of the orders it serves.
//
// An item outlives any single order. Its transitions therefore carry the
// order they were made for in their metadata, and every readiness question
// ("is this item staged for order X") is answered against that order scope
// rather than against the item's global current state.
//
// Marking an item obsolete is an administrative one-way action driven by
// the external catalog record, not a workflow transition: it permanently
// removes the item from readiness aggregation and movement.
package item
