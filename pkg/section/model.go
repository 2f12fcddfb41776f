package section

// Mode selects how borehole surfaces are placed on the shared vertical axis.
type Mode string

const (
	// ModeAbsolute draws each borehole at its true surveyed elevation.
	ModeAbsolute Mode = "absolute"

	// ModeRelative aligns every borehole surface at elevation zero and
	// labels the grid as negative depth below surface. Selected when the
	// elevation spread is implausibly large (a single malformed elevation
	// must not compress the rest of the chart into an unreadable sliver)
	// or when fewer than two boreholes are present.
	ModeRelative Mode = "relative"
)

// Layout geometry constants. All horizontal and vertical sizes are in pixels;
// depths and elevations are in the survey's length unit (meters in practice).
const (
	// PxPerUnit is the fixed vertical scale in pixels per depth unit.
	PxPerUnit = 20.0

	// TopMargin and BottomMargin reserve bands for the header and legend.
	TopMargin    = 80.0
	BottomMargin = 60.0

	// SideMargin pads the left and right canvas edges.
	SideMargin = 40.0

	// ColumnWidth and ColumnGap size each borehole column.
	ColumnWidth = 360.0
	ColumnGap   = 60.0

	// MinPlottedDepth guarantees a visible column even for sparse logs.
	MinPlottedDepth = 10.0

	// ElevationSpreadLimit is the maximum plausible spread between parsed
	// surface elevations before the chart falls back to relative mode.
	ElevationSpreadLimit = 50.0

	// SPTClamp caps blow counts for plotting (refusal convention). The
	// stored BlowCount stays unclamped.
	SPTClamp = 50

	// MinLabelHeight clamps interior label placement so degenerate
	// zero-height layers never divide by their own height.
	MinLabelHeight = 12.0
)

// Sub-column strip widths, left to right within a column. The SPT strip
// takes the remainder of ColumnWidth.
const (
	DepthStripWidth       = 36.0
	LithologyStripWidth   = 64.0
	ParameterStripWidth   = 80.0
	DescriptionStripWidth = 100.0
	SPTStripWidth         = ColumnWidth - DepthStripWidth - LithologyStripWidth - ParameterStripWidth - DescriptionStripWidth
)

// Scale is the shared vertical reference for the whole chart.
type Scale struct {
	PxPerUnit       float64    `json:"px_per_unit" bson:"px_per_unit"`
	Mode            Mode       `json:"mode" bson:"mode"`
	TopElevation    float64    `json:"top_elevation" bson:"top_elevation"`
	BottomElevation float64    `json:"bottom_elevation" bson:"bottom_elevation"`
	Grid            []GridLine `json:"grid" bson:"grid"`
}

// Y maps an elevation to a vertical pixel coordinate. Grid lines, layer
// boundaries, and SPT points all go through this one function.
func (s Scale) Y(elevation float64) float64 {
	return TopMargin + (s.TopElevation-elevation)*s.PxPerUnit
}

// GridLine is one horizontal reference line across all columns.
type GridLine struct {
	Elevation float64 `json:"elevation" bson:"elevation"`
	Label     string  `json:"label" bson:"label"`
	Y         float64 `json:"y" bson:"y"`
}

// Strip is a fixed-width vertical sub-region of a column.
type Strip struct {
	X     float64 `json:"x" bson:"x"`
	Width float64 `json:"width" bson:"width"`
}

// LayerRect is the pixel rectangle for one soil layer inside a column's
// lithology strip. Height may be zero for degenerate layers.
type LayerRect struct {
	LayerID string  `json:"layer_id" bson:"layer_id"`
	X       float64 `json:"x" bson:"x"`
	Y       float64 `json:"y" bson:"y"`
	Width   float64 `json:"width" bson:"width"`
	Height  float64 `json:"height" bson:"height"`
}

// LabelY returns the vertical center for interior labels, clamped to
// MinLabelHeight so zero-height rectangles still place text sanely.
func (r LayerRect) LabelY() float64 {
	h := r.Height
	if h < MinLabelHeight {
		h = MinLabelHeight
	}
	return r.Y + h/2
}

// SPTPoint is the plotted position of one penetration-test observation.
type SPTPoint struct {
	RecordID  string  `json:"record_id" bson:"record_id"`
	X         float64 `json:"x" bson:"x"`
	Y         float64 `json:"y" bson:"y"`
	Depth     float64 `json:"depth" bson:"depth"`
	BlowCount int     `json:"blow_count" bson:"blow_count"`
}

// Point is a 2D pixel coordinate.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Column is the complete geometry for one borehole.
type Column struct {
	BoreholeID string  `json:"borehole_id" bson:"borehole_id"`
	Name       string  `json:"name" bson:"name"`
	X          float64 `json:"x" bson:"x"`
	Width      float64 `json:"width" bson:"width"`

	// SurfaceElevation is the plotting-surface elevation: the parsed header
	// elevation in absolute mode, forced to zero in relative mode.
	SurfaceElevation float64 `json:"surface_elevation" bson:"surface_elevation"`

	// MaxDepth is the deepest plotted depth (layers, SPT, or the minimum
	// visible floor, whichever is larger).
	MaxDepth float64 `json:"max_depth" bson:"max_depth"`

	DepthStrip       Strip `json:"depth_strip" bson:"depth_strip"`
	LithologyStrip   Strip `json:"lithology_strip" bson:"lithology_strip"`
	ParameterStrip   Strip `json:"parameter_strip" bson:"parameter_strip"`
	DescriptionStrip Strip `json:"description_strip" bson:"description_strip"`
	SPTStrip         Strip `json:"spt_strip" bson:"spt_strip"`

	Layers   []LayerRect `json:"layers" bson:"layers"`
	SPT      []SPTPoint  `json:"spt,omitempty" bson:"spt,omitempty"`
	Polyline []Point     `json:"polyline,omitempty" bson:"polyline,omitempty"`
}

// Layout is the complete geometric model for the cross-section chart.
// It is exclusively owned by Build's caller and consumed read-only by
// rendering collaborators.
type Layout struct {
	Width   float64  `json:"width" bson:"width"`
	Height  float64  `json:"height" bson:"height"`
	Scale   Scale    `json:"scale" bson:"scale"`
	Columns []Column `json:"columns" bson:"columns"`
}
