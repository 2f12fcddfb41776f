package sink

import (
	"encoding/json"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/section"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	boreholes []*borehole.Borehole
	title     string
}

// WithJSONBoreholes embeds the canonical records alongside the layout so the
// document is self-contained for downstream tooling.
func WithJSONBoreholes(bhs []*borehole.Borehole) JSONOption {
	return func(r *jsonRenderer) { r.boreholes = bhs }
}

// WithJSONTitle records the chart title in the document.
func WithJSONTitle(title string) JSONOption {
	return func(r *jsonRenderer) { r.title = title }
}

type jsonDocument struct {
	Title     string               `json:"title,omitempty"`
	Layout    section.Layout       `json:"layout"`
	Boreholes []*borehole.Borehole `json:"boreholes,omitempty"`
}

// RenderJSON renders the layout (and optionally the canonical records) as an
// indented JSON document.
func RenderJSON(l section.Layout, opts ...JSONOption) ([]byte, error) {
	var r jsonRenderer
	for _, opt := range opts {
		opt(&r)
	}

	doc := jsonDocument{
		Title:     r.title,
		Layout:    l,
		Boreholes: r.boreholes,
	}
	return json.MarshalIndent(doc, "", "  ")
}
