// Package section computes the geometric layout of a multi-borehole
// cross-section chart.
//
// Build takes the canonical boreholes produced by the reconcile package and
// returns a fully resolved Layout: canvas extent, a shared vertical scale
// with grid lines, and per-borehole columns with pixel rectangles for every
// soil layer and plot coordinates for every SPT observation.
//
// The layout is deterministic: the same boreholes always produce the same
// coordinates. One linear elevation-to-pixel mapping is shared by grid
// lines, layer boundaries, and SPT points, so all three align exactly at any
// elevation across every column.
//
// The chart grows horizontally without bound as boreholes are added. There
// is no wrapping or pagination; the output targets arbitrary-width export,
// not fixed page media.
package section
