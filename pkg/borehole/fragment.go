package borehole

import "strings"

// ElevationUnknown is the placeholder the extraction oracle emits when a log
// sheet carries no readable ground elevation. Reconciliation treats it the
// same as an empty string when deciding whether a later fragment may
// back-fill the field.
const ElevationUnknown = "0.00"

// Fragment is one extraction result from one input unit (a page or image).
// A single input unit may yield zero, one, or several fragments, since one
// page can show more than one borehole log.
//
// All fields are best effort. The zero value of every field means "absent":
// empty strings for text, zero for numbers. Only Header.Name is required for
// a fragment to be attributable to a physical borehole; nameless fragments
// are dropped during reconciliation.
type Fragment struct {
	// Page is the 1-based input unit the fragment came from, 0 if unknown.
	Page int `json:"page,omitempty" bson:"page,omitempty"`

	Header HeaderFragment  `json:"header" bson:"header"`
	Layers []LayerFragment `json:"layers,omitempty" bson:"layers,omitempty"`
	SPT    []SPTFragment   `json:"spt,omitempty" bson:"spt,omitempty"`
}

// HeaderFragment carries the descriptive metadata the oracle could read from
// one log sheet. Every field may be empty.
type HeaderFragment struct {
	Project     string `json:"project,omitempty" bson:"project,omitempty"`
	Name        string `json:"name,omitempty" bson:"name,omitempty"`
	Date        string `json:"date,omitempty" bson:"date,omitempty"`
	Elevation   string `json:"elevation,omitempty" bson:"elevation,omitempty"`
	Coordinates string `json:"coordinates,omitempty" bson:"coordinates,omitempty"`
	Client      string `json:"client,omitempty" bson:"client,omitempty"`
	WaterTable  string `json:"water_table,omitempty" bson:"water_table,omitempty"`
}

// LayerFragment is one observed depth interval.
type LayerFragment struct {
	DepthFrom    float64 `json:"depth_from" bson:"depth_from"`
	DepthTo      float64 `json:"depth_to" bson:"depth_to"`
	Description  string  `json:"description,omitempty" bson:"description,omitempty"`
	USCS         string  `json:"uscs,omitempty" bson:"uscs,omitempty"`
	FinesPercent float64 `json:"fines_percent,omitempty" bson:"fines_percent,omitempty"`
	Plasticity   string  `json:"plasticity,omitempty" bson:"plasticity,omitempty"`
	Swelling     string  `json:"swelling,omitempty" bson:"swelling,omitempty"`
	ColorName    string  `json:"color_name,omitempty" bson:"color_name,omitempty"`
}

// SPTFragment is one observed standard penetration test reading.
type SPTFragment struct {
	Depth     float64 `json:"depth" bson:"depth"`
	BlowCount int     `json:"blow_count" bson:"blow_count"`
	Notes     string  `json:"notes,omitempty" bson:"notes,omitempty"`
}

// Key returns the reconciliation key for the fragment: the borehole name with
// surrounding whitespace trimmed. An empty key means the fragment cannot be
// attributed to any physical borehole.
//
// No further normalization is applied: names differing in case or diacritics
// deliberately remain distinct boreholes. OCR variance in naming therefore
// creates duplicates instead of silently merging unrelated logs.
func (f Fragment) Key() string {
	return strings.TrimSpace(f.Header.Name)
}
