// Package pipeline provides the core section pipeline for geosect.
//
// This package implements the complete extract → reconcile → layout → render
// pipeline shared by the CLI and the HTTP server. Centralizing it keeps the
// two entry points behaviorally identical and caches expensive stages once.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Extract: Call the vision oracle once per page image and collect raw
//     fragments. Cached per page content hash.
//  2. Reconcile: Merge fragments into canonical borehole records.
//     Deterministic, never cached.
//  3. Layout: Compute the cross-section geometry. Cached per borehole-set
//     hash.
//  4. Render: Generate output artifacts (SVG, PNG, PDF, JSON). Cached per
//     layout hash and format.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger, extractor)
//	opts := pipeline.Options{
//	    Input:   "logs.pdf",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/cache"
	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/section"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

// DefaultTitle is the chart title when none is given.
const DefaultTitle = "Geotechnical Cross-Section"

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the section pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Input is the source document: a PDF, an image, or a directory of
	// images. Used by Execute; callers running stages individually supply
	// page images directly.
	Input string `json:"input"`

	// Title is drawn in the chart header.
	Title string `json:"title,omitempty"`

	// Formats selects the rendered outputs. Defaults to SVG.
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses the extraction cache and re-queries the oracle.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Boreholes are the reconciled canonical records, in display order.
	Boreholes []*borehole.Borehole

	// BoreholeHash is the content hash of the reconciled records.
	BoreholeHash string

	// Layout is the computed cross-section geometry.
	Layout section.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	PageCount     int
	FragmentCount int
	BoreholeCount int
	ExtractTime   time.Duration
	ReconcileTime time.Duration
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExtractHit bool // Whether every page's fragments came from cache
	LayoutHit  bool // Whether the layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Input == "" {
		return errors.New(errors.ErrCodeInvalidInput, "input is required")
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetDefaults applies defaults without validating required fields. Used by
// stage-level entry points that supply their own inputs.
func (o *Options) SetDefaults() {
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{Format: format, Title: o.Title}
}
