// Package facetid computes user-facing document identifiers and resolves
// them back to UUIDs.
//
// A user-facing ID is derived from a document's enumerated dimension values
// (rendered as short prefix tokens in config order) and its 1-based sequence
// number within its sibling scope, dot-chained through ancestors when the
// store has a hierarchical dimension: "1", "c2", "1.c2.3".
//
// IDs are never persisted. Every computation runs against a Snapshot of the
// live document set, so renumbering after a deletion is simply the next
// computation; there is no cached identifier to invalidate.
package facetid
