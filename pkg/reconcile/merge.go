package reconcile

import (
	"github.com/geosect/geosect/pkg/borehole"
)

// depthInterval keys layer deduplication: only the exact (from, to) pair
// counts, never the layer's other fields.
type depthInterval struct {
	from, to float64
}

// builder accumulates fragments for one reconciliation key.
// Dedup sets record what has been seen in arrival order, which gives the
// first-wins tie-break: a later fragment's layer on an already-seen interval
// is discarded whole, not field-merged.
type builder struct {
	bh         *borehole.Borehole
	seenLayers map[depthInterval]bool
	seenSPT    map[float64]bool
}

func newBuilder(name string) *builder {
	return &builder{
		bh:         borehole.New(name),
		seenLayers: make(map[depthInterval]bool),
		seenSPT:    make(map[float64]bool),
	}
}

// add folds one fragment into the builder.
func (b *builder) add(f borehole.Fragment) {
	b.backfillHeader(f.Header)

	for _, lf := range f.Layers {
		key := depthInterval{lf.DepthFrom, lf.DepthTo}
		if b.seenLayers[key] {
			continue
		}
		b.seenLayers[key] = true
		b.bh.Layers = append(b.bh.Layers, canonicalLayer(b.bh.Header.Name, lf))
	}

	for _, sf := range f.SPT {
		if b.seenSPT[sf.Depth] {
			continue
		}
		b.seenSPT[sf.Depth] = true
		b.bh.SPT = append(b.bh.SPT, borehole.SPTRecord{
			ID:        borehole.SPTID(b.bh.Header.Name, sf.Depth),
			Depth:     sf.Depth,
			BlowCount: sf.BlowCount,
			Notes:     sf.Notes,
		})
	}
}

// backfillHeader keeps the first-seen value of every borehole-scoped header
// field unless it is still empty or a recognized placeholder, in which case
// the incoming fragment's value replaces it. Project and Client are not
// touched here; they are broadcast by ApplyProjectField.
func (b *builder) backfillHeader(h borehole.HeaderFragment) {
	dst := &b.bh.Header

	if dst.Date == "" {
		dst.Date = h.Date
	}
	if dst.Elevation == "" || dst.Elevation == borehole.ElevationUnknown {
		if h.Elevation != "" {
			dst.Elevation = h.Elevation
		}
	}
	if dst.Coordinates == "" {
		dst.Coordinates = h.Coordinates
	}
	if dst.WaterTable == "" {
		dst.WaterTable = h.WaterTable
	}
}

// canonicalLayer assigns the content-derived ID and the rendering style to a
// layer fragment.
func canonicalLayer(name string, lf borehole.LayerFragment) borehole.SoilLayer {
	color, pattern := borehole.StyleForUSCS(lf.USCS)
	return borehole.SoilLayer{
		ID:           borehole.LayerID(name, lf.DepthFrom, lf.DepthTo),
		DepthFrom:    lf.DepthFrom,
		DepthTo:      lf.DepthTo,
		Description:  lf.Description,
		USCS:         lf.USCS,
		FinesPercent: lf.FinesPercent,
		Plasticity:   lf.Plasticity,
		Swelling:     lf.Swelling,
		ColorName:    lf.ColorName,
		Color:        color,
		Pattern:      pattern,
	}
}
