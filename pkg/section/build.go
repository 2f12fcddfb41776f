package section

import (
	"math"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/errors"
)

// Build converts an ordered set of canonical boreholes into a complete
// cross-section layout.
//
// Calling Build with zero boreholes is a precondition violation and returns
// ErrCodeEmptyInput: the min/max elevation reduction is undefined over an
// empty set, and silently producing a nonsensical canvas would be worse
// than an explicit error. Missing optional fields never fail; they simply
// render blank.
func Build(bhs []*borehole.Borehole) (Layout, error) {
	if len(bhs) == 0 {
		return Layout{}, errors.New(errors.ErrCodeEmptyInput, "no boreholes to lay out")
	}

	parsed := make([]float64, len(bhs))
	for i, bh := range bhs {
		parsed[i] = ParseElevation(bh.Header.Elevation)
	}
	mode := resolveMode(parsed)

	// Plotting-surface elevation per borehole.
	surfaces := make([]float64, len(bhs))
	if mode == ModeAbsolute {
		copy(surfaces, parsed)
	}

	// Vertical extent: highest surface up, deepest column bottom down, one
	// unit of margin on each end.
	maxSurface := surfaces[0]
	minBottom := surfaces[0] - plottedDepth(bhs[0])
	for i, bh := range bhs {
		if surfaces[i] > maxSurface {
			maxSurface = surfaces[i]
		}
		if bottom := surfaces[i] - plottedDepth(bh); bottom < minBottom {
			minBottom = bottom
		}
	}

	scale := Scale{
		PxPerUnit:       PxPerUnit,
		Mode:            mode,
		TopElevation:    math.Ceil(maxSurface) + 1,
		BottomElevation: math.Floor(minBottom) - 1,
	}
	scale.Grid = buildGrid(scale)

	l := Layout{
		Width:   float64(len(bhs))*(ColumnWidth+ColumnGap) + 2*SideMargin,
		Height:  (scale.TopElevation-scale.BottomElevation)*scale.PxPerUnit + TopMargin + BottomMargin,
		Scale:   scale,
		Columns: make([]Column, len(bhs)),
	}

	for i, bh := range bhs {
		x := SideMargin + float64(i)*(ColumnWidth+ColumnGap)
		l.Columns[i] = buildColumn(bh, x, surfaces[i], scale)
	}
	return l, nil
}

// plottedDepth is the depth a borehole occupies on the chart: its deepest
// layer or SPT observation, with a floor so sparse logs stay visible.
func plottedDepth(bh *borehole.Borehole) float64 {
	d := bh.MaxLayerDepth()
	if s := bh.MaxSPTDepth(); s > d {
		d = s
	}
	if d < MinPlottedDepth {
		d = MinPlottedDepth
	}
	return d
}

// buildColumn lays out one borehole at horizontal origin x.
func buildColumn(bh *borehole.Borehole, x, surface float64, scale Scale) Column {
	col := Column{
		BoreholeID:       bh.ID,
		Name:             bh.Header.Name,
		X:                x,
		Width:            ColumnWidth,
		SurfaceElevation: surface,
		MaxDepth:         plottedDepth(bh),
	}

	// Fixed strip order: depth labels, lithology, parameters, description,
	// SPT plot on the trailing edge.
	sx := x
	col.DepthStrip = Strip{X: sx, Width: DepthStripWidth}
	sx += DepthStripWidth
	col.LithologyStrip = Strip{X: sx, Width: LithologyStripWidth}
	sx += LithologyStripWidth
	col.ParameterStrip = Strip{X: sx, Width: ParameterStripWidth}
	sx += ParameterStripWidth
	col.DescriptionStrip = Strip{X: sx, Width: DescriptionStripWidth}
	sx += DescriptionStripWidth
	col.SPTStrip = Strip{X: sx, Width: SPTStripWidth}

	col.Layers = make([]LayerRect, len(bh.Layers))
	for i, layer := range bh.Layers {
		top := scale.Y(surface - layer.DepthFrom)
		bottom := scale.Y(surface - layer.DepthTo)
		col.Layers[i] = LayerRect{
			LayerID: layer.ID,
			X:       col.LithologyStrip.X,
			Y:       top,
			Width:   col.LithologyStrip.Width,
			Height:  bottom - top, // zero for degenerate intervals
		}
	}

	if len(bh.SPT) > 0 {
		col.SPT = make([]SPTPoint, len(bh.SPT))
		col.Polyline = make([]Point, len(bh.SPT))
		for i, rec := range bh.SPT {
			n := rec.BlowCount
			if n > SPTClamp {
				n = SPTClamp
			}
			if n < 0 {
				n = 0
			}
			p := SPTPoint{
				RecordID:  rec.ID,
				X:         col.SPTStrip.X + float64(n)/SPTClamp*col.SPTStrip.Width,
				Y:         scale.Y(surface - rec.Depth),
				Depth:     rec.Depth,
				BlowCount: rec.BlowCount,
			}
			col.SPT[i] = p
			col.Polyline[i] = Point{X: p.X, Y: p.Y}
		}
	}
	return col
}
