package store

import (
	"context"
	"sort"
	"sync"

	"github.com/geosect/geosect/pkg/errors"
)

// MemoryStore keeps runs in process memory. Used by tests and by server
// deployments that have no Mongo configured.
type MemoryStore struct {
	mu   sync.RWMutex
	runs map[string]*Run
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{runs: make(map[string]*Run)}
}

// Save stores a run, replacing any run with the same ID.
func (s *MemoryStore) Save(_ context.Context, run *Run) error {
	if run.ID == "" {
		return errors.New(errors.ErrCodeInvalidInput, "run ID is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := *run
	s.runs[run.ID] = &clone
	return nil
}

// Get retrieves a run by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return nil, errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
	}
	clone := *run
	return &clone, nil
}

// List returns run summaries, newest first.
func (s *MemoryStore) List(_ context.Context) ([]RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]RunSummary, 0, len(s.runs))
	for _, run := range s.runs {
		summaries = append(summaries, Summarize(run))
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Delete removes a run.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[id]; !ok {
		return errors.New(errors.ErrCodeRunNotFound, "run %s not found", id)
	}
	delete(s.runs, id)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close(context.Context) error { return nil }

var _ RunStore = (*MemoryStore)(nil)
