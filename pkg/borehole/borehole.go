package borehole

// Header is the reconciled descriptive metadata for one borehole.
// Name is the only field guaranteed non-empty; every other field is
// best effort and may still be blank after reconciliation.
type Header struct {
	Project     string `json:"project,omitempty" bson:"project,omitempty"`
	Name        string `json:"name" bson:"name"`
	Date        string `json:"date,omitempty" bson:"date,omitempty"`
	Elevation   string `json:"elevation,omitempty" bson:"elevation,omitempty"`
	Coordinates string `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Client      string `json:"client,omitempty" bson:"client,omitempty"`
	WaterTable  string `json:"water_table,omitempty" bson:"water_table,omitempty"`
}

// SoilLayer is a depth interval within one borehole. DepthFrom and DepthTo
// are on the borehole's own depth axis (non-negative, DepthFrom <= DepthTo;
// degenerate zero-height intervals are tolerated).
type SoilLayer struct {
	ID           string  `json:"id" bson:"id"`
	DepthFrom    float64 `json:"depth_from" bson:"depth_from"`
	DepthTo      float64 `json:"depth_to" bson:"depth_to"`
	Description  string  `json:"description,omitempty" bson:"description,omitempty"`
	USCS         string  `json:"uscs,omitempty" bson:"uscs,omitempty"`
	FinesPercent float64 `json:"fines_percent,omitempty" bson:"fines_percent,omitempty"`
	Plasticity   string  `json:"plasticity,omitempty" bson:"plasticity,omitempty"`
	Swelling     string  `json:"swelling,omitempty" bson:"swelling,omitempty"`
	ColorName    string  `json:"color_name,omitempty" bson:"color_name,omitempty"`

	// Color and Pattern are derived from the USCS code for rendering.
	Color   string `json:"color,omitempty" bson:"color,omitempty"`
	Pattern string `json:"pattern,omitempty" bson:"pattern,omitempty"`
}

// Thickness returns the vertical extent of the layer in depth units.
func (l SoilLayer) Thickness() float64 { return l.DepthTo - l.DepthFrom }

// SPTRecord is a single standard penetration test observation.
// BlowCount stores the raw N value; plotting clamps it separately.
type SPTRecord struct {
	ID        string  `json:"id" bson:"id"`
	Depth     float64 `json:"depth" bson:"depth"`
	BlowCount int     `json:"blow_count" bson:"blow_count"`
	Notes     string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Borehole is the canonical, reconciled record for one physical borehole.
// Layers are ordered ascending by DepthFrom with unique (DepthFrom, DepthTo)
// pairs; SPT is ordered ascending by Depth with unique depths. A Borehole is
// frozen once reconciliation completes and is consumed read-only downstream.
type Borehole struct {
	ID     string      `json:"id" bson:"id"`
	Header Header      `json:"header" bson:"header"`
	Layers []SoilLayer `json:"layers" bson:"layers"`
	SPT    []SPTRecord `json:"spt,omitempty" bson:"spt,omitempty"`
}

// New creates an empty canonical borehole for the given reconciliation key.
// The ID is derived from the key (see [RecordID]), so reconciling the same
// input always yields the same ID.
func New(name string) *Borehole {
	return &Borehole{
		ID:     RecordID(name),
		Header: Header{Name: name},
	}
}

// MaxLayerDepth returns the deepest layer bottom, or 0 if there are no layers.
// Layers are sorted by DepthFrom, not DepthTo, so all layers are scanned.
func (b *Borehole) MaxLayerDepth() float64 {
	var d float64
	for _, l := range b.Layers {
		if l.DepthTo > d {
			d = l.DepthTo
		}
	}
	return d
}

// MaxSPTDepth returns the deepest SPT observation, or 0 if there are none.
func (b *Borehole) MaxSPTDepth() float64 {
	if len(b.SPT) == 0 {
		return 0
	}
	return b.SPT[len(b.SPT)-1].Depth
}
