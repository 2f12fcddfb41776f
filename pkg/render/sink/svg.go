package sink

import (
	"bytes"
	"fmt"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/section"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	layers map[string]borehole.SoilLayer
	spt    map[string]borehole.SPTRecord
	title  string
}

// WithBoreholes attaches the canonical records so layer rectangles pick up
// soil colors, patterns, and descriptions. Without this, layers render with
// a neutral fill and no text.
func WithBoreholes(bhs []*borehole.Borehole) SVGOption {
	return func(r *svgRenderer) {
		for _, bh := range bhs {
			for _, l := range bh.Layers {
				r.layers[l.ID] = l
			}
			for _, s := range bh.SPT {
				r.spt[s.ID] = s
			}
		}
	}
}

// WithTitle sets the chart title drawn in the top margin.
func WithTitle(title string) SVGOption {
	return func(r *svgRenderer) { r.title = title }
}

// RenderSVG renders the layout as a standalone SVG document.
func RenderSVG(l section.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{
		layers: make(map[string]borehole.SoilLayer),
		spt:    make(map[string]borehole.SPTRecord),
		title:  "Geotechnical Cross-Section",
	}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	renderDefs(&buf)
	fmt.Fprintf(&buf, `<rect width="%.1f" height="%.1f" fill="#fdfcf8"/>`+"\n", l.Width, l.Height)

	renderTitle(&buf, l, r.title)
	renderGrid(&buf, l)
	for _, col := range l.Columns {
		r.renderColumn(&buf, l, col)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderDefs emits the lithology fill patterns. Tags match the pattern names
// used in soil layer styling.
func renderDefs(buf *bytes.Buffer) {
	buf.WriteString("<defs>\n")

	pattern(buf, borehole.PatternGravel, 12, `<circle cx="3" cy="3" r="2" fill="none" stroke="#5a4a32" stroke-width="0.8"/><circle cx="9" cy="9" r="2" fill="none" stroke="#5a4a32" stroke-width="0.8"/>`)
	pattern(buf, borehole.PatternSand, 8, `<circle cx="2" cy="2" r="0.7" fill="#6b5a3e"/><circle cx="6" cy="5" r="0.7" fill="#6b5a3e"/><circle cx="3" cy="7" r="0.7" fill="#6b5a3e"/>`)
	pattern(buf, borehole.PatternSilt, 10, `<line x1="0" y1="3" x2="6" y2="3" stroke="#6e6253" stroke-width="0.8"/><line x1="4" y1="8" x2="10" y2="8" stroke="#6e6253" stroke-width="0.8"/>`)
	pattern(buf, borehole.PatternClay, 8, `<line x1="0" y1="2" x2="8" y2="2" stroke="#5f4f3a" stroke-width="0.8"/><line x1="0" y1="6" x2="8" y2="6" stroke="#5f4f3a" stroke-width="0.8"/>`)
	pattern(buf, borehole.PatternOrganic, 10, `<path d="M0,5 Q2.5,2 5,5 T10,5" fill="none" stroke="#4e4434" stroke-width="0.8"/>`)
	pattern(buf, borehole.PatternRock, 10, `<line x1="0" y1="0" x2="10" y2="10" stroke="#55504a" stroke-width="0.8"/><line x1="10" y1="0" x2="0" y2="10" stroke="#55504a" stroke-width="0.8"/>`)
	pattern(buf, borehole.PatternFill, 10, `<line x1="0" y1="10" x2="10" y2="0" stroke="#7a756d" stroke-width="0.8"/>`)

	buf.WriteString("</defs>\n")
}

func pattern(buf *bytes.Buffer, id string, size int, body string) {
	fmt.Fprintf(buf, `<pattern id="pat-%s" width="%d" height="%d" patternUnits="userSpaceOnUse">%s</pattern>`+"\n",
		id, size, size, body)
}

func renderTitle(buf *bytes.Buffer, l section.Layout, title string) {
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="18" font-weight="bold" fill="#3a362f">%s</text>`+"\n",
		l.Width/2, section.TopMargin/2, escape(title))
	axis := "Elevation"
	if l.Scale.Mode == section.ModeRelative {
		axis = "Depth below surface"
	}
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="11" fill="#6e6a62">%s</text>`+"\n",
		l.Width/2, section.TopMargin/2+16, axis)
}

// renderGrid draws the horizontal reference lines spanning the full chart
// width, labeled on the left edge.
func renderGrid(buf *bytes.Buffer, l section.Layout) {
	for _, g := range l.Scale.Grid {
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#ddd8cd" stroke-width="0.5"/>`+"\n",
			section.SideMargin/2, g.Y, l.Width-section.SideMargin/2, g.Y)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="start" font-family="monospace" font-size="9" fill="#8a857b">%s</text>`+"\n",
			2.0, g.Y-2, escape(g.Label))
	}
}

func (r *svgRenderer) renderColumn(buf *bytes.Buffer, l section.Layout, col section.Column) {
	surfaceY := l.Scale.Y(col.SurfaceElevation)
	bottomY := l.Scale.Y(col.SurfaceElevation - col.MaxDepth)

	// Borehole name above the column.
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="13" font-weight="bold" fill="#3a362f">%s</text>`+"\n",
		col.X+col.Width/2, surfaceY-8, escape(col.Name))

	// Strip frames.
	for _, strip := range []section.Strip{col.DepthStrip, col.LithologyStrip, col.ParameterStrip, col.DescriptionStrip, col.SPTStrip} {
		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#9a958b" stroke-width="0.8"/>`+"\n",
			strip.X, surfaceY, strip.Width, bottomY-surfaceY)
	}

	r.renderLayers(buf, col)
	r.renderDepthTicks(buf, l, col)
	r.renderSPT(buf, col, surfaceY)
}

func (r *svgRenderer) renderLayers(buf *bytes.Buffer, col section.Column) {
	for _, rect := range col.Layers {
		if rect.Height <= 0 {
			continue
		}
		layer, known := r.layers[rect.LayerID]
		color := layer.Color
		if color == "" {
			color = "#d0ccc0"
		}

		fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#6e6a62" stroke-width="0.6"/>`+"\n",
			rect.X, rect.Y, rect.Width, rect.Height, color)
		if layer.Pattern != "" {
			fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="url(#pat-%s)" stroke="none"/>`+"\n",
				rect.X, rect.Y, rect.Width, rect.Height, layer.Pattern)
		}
		if !known {
			continue
		}

		labelY := rect.LabelY()

		// USCS and fines in the parameter strip.
		if layer.USCS != "" {
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="monospace" font-size="10" fill="#3a362f">%s</text>`+"\n",
				col.ParameterStrip.X+col.ParameterStrip.Width/2, labelY, escape(layer.USCS))
		}
		if layer.FinesPercent > 0 {
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="monospace" font-size="8" fill="#6e6a62">fines %.0f%%</text>`+"\n",
				col.ParameterStrip.X+col.ParameterStrip.Width/2, labelY+10, layer.FinesPercent)
		}

		// Truncated description in the description strip, with the layer
		// thickness on a second line when the rectangle has room for one.
		if layer.Description != "" {
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="8" fill="#3a362f">%s</text>`+"\n",
				col.DescriptionStrip.X+3, labelY, escape(truncate(layer.Description, 24)))
		}
		if rect.Height >= 2*section.MinLabelHeight && layer.Thickness() > 0 {
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="monospace" font-size="8" fill="#6e6a62">%.1f m</text>`+"\n",
				col.DescriptionStrip.X+3, labelY+10, layer.Thickness())
		}
	}
}

// renderDepthTicks labels each layer boundary with its depth in the depth
// strip.
func (r *svgRenderer) renderDepthTicks(buf *bytes.Buffer, l section.Layout, col section.Column) {
	seen := make(map[float64]bool)
	tick := func(depth float64) {
		if seen[depth] {
			return
		}
		seen[depth] = true
		y := l.Scale.Y(col.SurfaceElevation - depth)
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#6e6a62" stroke-width="0.6"/>`+"\n",
			col.DepthStrip.X+col.DepthStrip.Width-5, y, col.DepthStrip.X+col.DepthStrip.Width, y)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="end" font-family="monospace" font-size="8" fill="#3a362f">%.1f</text>`+"\n",
			col.DepthStrip.X+col.DepthStrip.Width-7, y+3, depth)
	}

	tick(0)
	for _, rect := range col.Layers {
		if layer, ok := r.layers[rect.LayerID]; ok {
			tick(layer.DepthFrom)
			tick(layer.DepthTo)
		}
	}
	tick(col.MaxDepth)
}

func (r *svgRenderer) renderSPT(buf *bytes.Buffer, col section.Column, surfaceY float64) {
	if len(col.SPT) == 0 {
		return
	}

	// Strip axis caption.
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="8" fill="#6e6a62">SPT N (0-%d)</text>`+"\n",
		col.SPTStrip.X+col.SPTStrip.Width/2, surfaceY+10, section.SPTClamp)

	if len(col.Polyline) > 1 {
		buf.WriteString(`<polyline fill="none" stroke="#a33c2f" stroke-width="1.2" points="`)
		for i, p := range col.Polyline {
			if i > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(buf, "%.1f,%.1f", p.X, p.Y)
		}
		buf.WriteString(`"/>` + "\n")
	}

	for _, p := range col.SPT {
		fmt.Fprintf(buf, `<circle cx="%.1f" cy="%.1f" r="2.5" fill="#a33c2f"/>`+"\n", p.X, p.Y)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="monospace" font-size="8" fill="#a33c2f">%d</text>`+"\n",
			p.X+4, p.Y+3, p.BlowCount)
	}
}

// truncate shortens s to at most n characters, counting runes so a cut
// never lands inside a multi-byte sequence.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// escape replaces the XML special characters in text content.
func escape(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
