package pipeline

import (
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/cache"
	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/extraction"
	"github.com/geosect/geosect/pkg/observability"
	"github.com/geosect/geosect/pkg/pages"
	"github.com/geosect/geosect/pkg/reconcile"
	"github.com/geosect/geosect/pkg/section"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for its collaborators - it doesn't store
// pipeline results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache     cache.Cache
	Keyer     cache.Keyer
	Logger    *log.Logger
	Extractor extraction.Extractor
}

// NewRunner creates a runner with the given collaborators.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger, ext extraction.Extractor) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:     c,
		Keyer:     keyer,
		Logger:    logger,
		Extractor: ext,
	}
}

// Execute runs the complete extract → reconcile → layout → render pipeline
// with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	images, err := pages.Load(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	return r.ExecuteFromImages(ctx, images, opts)
}

// ExecuteFromImages runs the pipeline on already-loaded page images. The
// server uses this for uploaded documents.
func (r *Runner) ExecuteFromImages(ctx context.Context, images []extraction.PageImage, opts Options) (*Result, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, err
	}

	result := &Result{
		Artifacts: make(map[string][]byte),
	}
	result.Stats.PageCount = len(images)

	// Stage 1: Extract
	extractStart := time.Now()
	frags, extractHit, err := r.ExtractWithCacheInfo(ctx, images, opts)
	if err != nil {
		return nil, err
	}
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.FragmentCount = len(frags)
	result.CacheInfo.ExtractHit = extractHit

	r.Logger.Info("extracted fragments",
		"pages", len(images),
		"fragments", len(frags),
		"duration", result.Stats.ExtractTime)

	// Stage 2: Reconcile
	reconcileStart := time.Now()
	bhs, err := r.ReconcileFragments(ctx, frags)
	if err != nil {
		return nil, err
	}
	result.Boreholes = bhs
	result.Stats.ReconcileTime = time.Since(reconcileStart)
	result.Stats.BoreholeCount = len(bhs)
	if data, err := json.Marshal(bhs); err == nil {
		result.BoreholeHash = cache.Hash(data)
	}

	r.Logger.Info("reconciled boreholes",
		"fragments", len(frags),
		"boreholes", len(bhs),
		"duration", result.Stats.ReconcileTime)

	// Stage 3: Layout
	layoutStart := time.Now()
	layout, layoutHit, err := r.BuildLayoutWithCacheInfo(ctx, bhs)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"mode", layout.Scale.Mode,
		"columns", len(layout.Columns),
		"duration", result.Stats.LayoutTime)

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, layout, bhs, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ExtractWithCacheInfo extracts fragments from every page with per-page
// caching and reports whether all pages were served from cache.
func (r *Runner) ExtractWithCacheInfo(ctx context.Context, images []extraction.PageImage, opts Options) ([]borehole.Fragment, bool, error) {
	if r.Extractor == nil {
		return nil, false, errors.New(errors.ErrCodeInternal, "runner has no extractor configured")
	}

	keyOpts := cache.FragmentKeyOpts{
		Provider: r.Extractor.Provider(),
		Model:    r.Extractor.Model(),
	}

	var all []borehole.Fragment
	allHit := true

	for _, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, false, err
		}

		cacheKey := r.Keyer.FragmentKey(img.Hash(), keyOpts)

		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				var cached []borehole.Fragment
				if err := json.Unmarshal(data, &cached); err == nil {
					observability.Cache().OnCacheHit(ctx, "fragments")
					all = append(all, cached...)
					continue
				}
			}
			observability.Cache().OnCacheMiss(ctx, "fragments")
		}
		allHit = false

		observability.Pipeline().OnExtractStart(ctx, img.Page)
		start := time.Now()
		frags, err := r.Extractor.ExtractPage(ctx, img)
		observability.Pipeline().OnExtractComplete(ctx, img.Page, len(frags), time.Since(start), err)
		if err != nil {
			return nil, false, err
		}

		if data, err := json.Marshal(frags); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLFragments)
			observability.Cache().OnCacheSet(ctx, "fragments", len(data))
		}
		all = append(all, frags...)
	}

	return all, allHit && len(images) > 0, nil
}

// ReconcileFragments merges raw fragments into canonical records and
// broadcasts project-level header fields. Never cached: reconciliation is
// deterministic and cheap compared to extraction.
func (r *Runner) ReconcileFragments(ctx context.Context, frags []borehole.Fragment) ([]*borehole.Borehole, error) {
	start := time.Now()
	bhs, err := reconcile.Reconcile(frags)
	observability.Pipeline().OnReconcileComplete(ctx, len(frags), len(bhs), time.Since(start), err)
	if err != nil {
		return nil, err
	}

	project, client := reconcile.CollectProjectFields(frags)
	reconcile.ApplyProjectField(bhs, reconcile.FieldProject, project)
	reconcile.ApplyProjectField(bhs, reconcile.FieldClient, client)

	return bhs, nil
}

// BuildLayoutWithCacheInfo computes the section layout with caching and
// returns cache hit info.
func (r *Runner) BuildLayoutWithCacheInfo(ctx context.Context, bhs []*borehole.Borehole) (section.Layout, bool, error) {
	data, err := json.Marshal(bhs)
	if err != nil {
		return section.Layout{}, false, errors.Wrap(errors.ErrCodeInternal, err, "serializing boreholes for cache key")
	}
	cacheKey := r.Keyer.SectionKey(cache.Hash(data))

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached section.Layout
		if err := json.Unmarshal(data, &cached); err == nil {
			observability.Cache().OnCacheHit(ctx, "section")
			return cached, true, nil
		}
		// Fall through to recompute on deserialization failure.
	}
	observability.Cache().OnCacheMiss(ctx, "section")

	observability.Pipeline().OnLayoutStart(ctx, len(bhs))
	start := time.Now()
	layout, err := section.Build(bhs)
	observability.Pipeline().OnLayoutComplete(ctx, string(layout.Scale.Mode), time.Since(start), err)
	if err != nil {
		return section.Layout{}, false, err
	}

	if data, err := json.Marshal(layout); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLSection)
		observability.Cache().OnCacheSet(ctx, "section", len(data))
	}

	return layout, false, nil
}

// BuildLayout is a convenience wrapper that discards the cache hit info.
func (r *Runner) BuildLayout(ctx context.Context, bhs []*borehole.Borehole) (section.Layout, error) {
	layout, _, err := r.BuildLayoutWithCacheInfo(ctx, bhs)
	return layout, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit
// info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, layout section.Layout, bhs []*borehole.Borehole, opts Options) (map[string][]byte, bool, error) {
	opts.SetDefaults()
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(layout)
	if err != nil {
		return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serializing layout for cache key")
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := renderFormats(layout, bhs, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, layout section.Layout, bhs []*borehole.Borehole, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, layout, bhs, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
