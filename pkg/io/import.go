package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/section"
)

// ReadFragments decodes a JSON fragments document from r.
//
// The input must be a JSON object with a "fragments" array, as produced by
// [WriteFragments] or by the extraction stage:
//
//	{"fragments": [{"page": 1, "header": {"name": "BH-1"}}]}
//
// The returned slice is independent of r and can be modified safely after
// ReadFragments returns. ReadFragments does not close r.
func ReadFragments(r io.Reader) ([]borehole.Fragment, error) {
	var doc fragmentsDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Fragments, nil
}

// ImportFragments reads a JSON fragments file at path.
func ImportFragments(path string) ([]borehole.Fragment, error) {
	var frags []borehole.Fragment
	err := importJSON(path, func(r io.Reader) error {
		var err error
		frags, err = ReadFragments(r)
		return err
	})
	return frags, err
}

// ReadBoreholes decodes a JSON boreholes document from r, as produced by
// [WriteBoreholes].
func ReadBoreholes(r io.Reader) ([]*borehole.Borehole, error) {
	var doc boreholesDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return doc.Boreholes, nil
}

// ImportBoreholes reads a JSON boreholes file at path.
func ImportBoreholes(path string) ([]*borehole.Borehole, error) {
	var bhs []*borehole.Borehole
	err := importJSON(path, func(r io.Reader) error {
		var err error
		bhs, err = ReadBoreholes(r)
		return err
	})
	return bhs, err
}

// ReadLayout decodes a JSON layout document from r, as produced by
// [WriteLayout].
func ReadLayout(r io.Reader) (section.Layout, error) {
	var doc layoutDocument
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return section.Layout{}, fmt.Errorf("decode: %w", err)
	}
	return doc.Layout, nil
}

// ImportLayout reads a JSON layout file at path.
func ImportLayout(path string) (section.Layout, error) {
	var l section.Layout
	err := importJSON(path, func(r io.Reader) error {
		var err error
		l, err = ReadLayout(r)
		return err
	})
	return l, err
}

func importJSON(path string, read func(io.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := read(f); err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}
	return nil
}
