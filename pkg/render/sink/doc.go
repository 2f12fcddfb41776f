// Package sink renders a computed cross-section layout to output formats.
//
// Sinks consume the layout read-only and never mutate it. RenderSVG is the
// primary sink; PNG and PDF are produced by converting its output with
// librsvg. RenderJSON emits the layout model itself for downstream tooling.
package sink
