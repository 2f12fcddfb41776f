// Package store persists pipeline runs.
//
// A run is the durable record of one pipeline execution: the reconciled
// boreholes, the computed layout, and metadata about the produced artifacts.
// The CLI lists and replays runs; the server exposes them over the API.
// MongoStore is the production backend; MemoryStore backs tests and
// single-shot CLI use.
package store

import (
	"context"
	"time"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/section"
)

// Run is one persisted pipeline execution.
type Run struct {
	ID        string    `json:"id" bson:"_id"`
	Title     string    `json:"title,omitempty" bson:"title,omitempty"`
	Input     string    `json:"input,omitempty" bson:"input,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`

	Boreholes []*borehole.Borehole `json:"boreholes" bson:"boreholes"`
	Layout    section.Layout       `json:"layout" bson:"layout"`

	// Artifacts records which formats were rendered and how large each
	// output was. Artifact bytes themselves live in the cache, not here.
	Artifacts map[string]int `json:"artifacts,omitempty" bson:"artifacts,omitempty"`
}

// RunSummary is the listing view of a run, without the heavy payload.
type RunSummary struct {
	ID            string    `json:"id" bson:"_id"`
	Title         string    `json:"title,omitempty" bson:"title,omitempty"`
	Input         string    `json:"input,omitempty" bson:"input,omitempty"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	BoreholeCount int       `json:"borehole_count" bson:"borehole_count"`
}

// RunStore persists and retrieves runs.
type RunStore interface {
	// Save stores a run, replacing any run with the same ID.
	Save(ctx context.Context, run *Run) error

	// Get retrieves a run by ID. Returns a RUN_NOT_FOUND error when absent.
	Get(ctx context.Context, id string) (*Run, error)

	// List returns run summaries, newest first.
	List(ctx context.Context) ([]RunSummary, error)

	// Delete removes a run. Deleting a missing run returns RUN_NOT_FOUND.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// Summarize builds the listing view of a run.
func Summarize(run *Run) RunSummary {
	return RunSummary{
		ID:            run.ID,
		Title:         run.Title,
		Input:         run.Input,
		CreatedAt:     run.CreatedAt,
		BoreholeCount: len(run.Boreholes),
	}
}
