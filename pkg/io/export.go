package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/section"
)

type fragmentsDocument struct {
	Fragments []borehole.Fragment `json:"fragments"`
}

type boreholesDocument struct {
	Boreholes []*borehole.Borehole `json:"boreholes"`
}

type layoutDocument struct {
	Layout section.Layout `json:"layout"`
}

// WriteFragments encodes extraction fragments as JSON and writes them to w.
// The output can be re-imported with [ReadFragments] for round-trip
// processing.
func WriteFragments(frags []borehole.Fragment, w io.Writer) error {
	if frags == nil {
		frags = []borehole.Fragment{}
	}
	return writeJSON(fragmentsDocument{Fragments: frags}, w)
}

// ExportFragments writes extraction fragments to a JSON file at path.
func ExportFragments(frags []borehole.Fragment, path string) error {
	return exportJSON(path, func(w io.Writer) error { return WriteFragments(frags, w) })
}

// WriteBoreholes encodes reconciled borehole records as JSON and writes them
// to w.
func WriteBoreholes(bhs []*borehole.Borehole, w io.Writer) error {
	if bhs == nil {
		bhs = []*borehole.Borehole{}
	}
	return writeJSON(boreholesDocument{Boreholes: bhs}, w)
}

// ExportBoreholes writes reconciled borehole records to a JSON file at path.
func ExportBoreholes(bhs []*borehole.Borehole, path string) error {
	return exportJSON(path, func(w io.Writer) error { return WriteBoreholes(bhs, w) })
}

// WriteLayout encodes a cross-section layout as JSON and writes it to w.
func WriteLayout(l section.Layout, w io.Writer) error {
	return writeJSON(layoutDocument{Layout: l}, w)
}

// ExportLayout writes a cross-section layout to a JSON file at path.
func ExportLayout(l section.Layout, path string) error {
	return exportJSON(path, func(w io.Writer) error { return WriteLayout(l, w) })
}

func writeJSON(doc any, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func exportJSON(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return write(f)
}
