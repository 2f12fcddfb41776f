// Package cache provides pluggable caching for the geosect pipeline.
//
// Three stages benefit from caching: oracle extraction results (expensive,
// billed per call), computed section layouts, and rendered artifacts. The
// Cache interface abstracts the backend; FileCache serves the CLI, RedisCache
// serves server deployments, and NullCache disables caching entirely.
//
// Keys are produced by a Keyer so that every consumer derives them the same
// way. The default keyer hashes its inputs with SHA-256, which keeps keys
// opaque, fixed-length, and collision-safe.
package cache

import (
	"context"
	"time"
)

// TTLs per cached stage. Extraction results are the most expensive to
// recompute and the least likely to change for a given page image, so they
// live longest.
const (
	TTLFragments = 30 * 24 * time.Hour
	TTLSection   = 7 * 24 * time.Hour
	TTLArtifact  = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with per-entry TTL.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// FragmentKeyOpts carries the extraction parameters that must partition the
// fragment cache: the same page image extracted by a different model is a
// different result.
type FragmentKeyOpts struct {
	Provider string
	Model    string
}

// ArtifactKeyOpts carries the render parameters that partition the artifact
// cache.
type ArtifactKeyOpts struct {
	Format string
	Title  string
}

// Keyer derives cache keys for each pipeline stage.
type Keyer interface {
	// FragmentKey keys oracle extraction results by page-image hash.
	FragmentKey(pageHash string, opts FragmentKeyOpts) string

	// SectionKey keys computed layouts by the hash of the canonical
	// borehole set.
	SectionKey(boreholesHash string) string

	// ArtifactKey keys rendered artifacts by layout hash and format.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FragmentKey generates a key for cached extraction results.
func (k *DefaultKeyer) FragmentKey(pageHash string, opts FragmentKeyOpts) string {
	return hashKey("fragments", pageHash, opts.Provider, opts.Model)
}

// SectionKey generates a key for cached section layouts.
func (k *DefaultKeyer) SectionKey(boreholesHash string) string {
	return hashKey("section", boreholesHash)
}

// ArtifactKey generates a key for cached rendered artifacts.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts.Format, opts.Title)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
