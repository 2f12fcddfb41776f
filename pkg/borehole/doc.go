// Package borehole defines the data model shared by the reconciliation and
// layout engines: raw per-page extraction fragments and the canonical,
// merged borehole records built from them.
//
// A Fragment is one partial, unreconciled observation of a borehole as it
// came back from the extraction oracle for a single input unit (one page or
// image). Fragments are inherently unreliable: any field may be absent,
// empty, or wrong, and several fragments may describe the same physical
// borehole.
//
// A Borehole is the canonical record for one physical borehole after
// reconciliation: a single header, layers ordered by depth, and SPT records
// ordered by depth, with synthetic IDs assigned to every element.
package borehole
