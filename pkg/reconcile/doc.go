// Package reconcile merges raw per-page borehole fragments into canonical
// borehole records.
//
// The extraction oracle returns zero or more fragments per input unit, and
// several fragments commonly describe the same physical borehole (multi-page
// logs, duplicated scans, overlapping crops). Reconcile folds them into one
// record per distinct borehole name, deduplicating layers by exact depth
// interval and SPT observations by exact depth, and back-filling header
// fields that earlier fragments left blank.
//
// Reconciliation is a pure computation over its input: given the same
// multiset of fragments it produces the same boreholes regardless of arrival
// order, except for the documented first-wins tie-break when two fragments
// carry the exact same depth interval (or SPT depth) with different content.
//
// Project-wide fields (project name, client) are deliberately not part of
// the per-borehole merge. They describe the document run, not an individual
// borehole, so callers broadcast them explicitly with ApplyProjectField
// after reconciliation.
package reconcile
