package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/geosect/geosect/pkg/borehole"
	"github.com/geosect/geosect/pkg/errors"
	"github.com/geosect/geosect/pkg/pipeline"
	"github.com/geosect/geosect/pkg/section"
	"github.com/geosect/geosect/pkg/store"
)

// sectionRequest is the POST /api/v1/sections payload. Fragments come from
// the caller's own extraction step; the server runs reconciliation, layout,
// and rendering.
type sectionRequest struct {
	Fragments []borehole.Fragment `json:"fragments"`
	Title     string              `json:"title,omitempty"`
	Formats   []string            `json:"formats,omitempty"`
}

// sectionResponse is the JSON success payload.
type sectionResponse struct {
	RunID     string               `json:"run_id"`
	Boreholes []*borehole.Borehole `json:"boreholes"`
	Layout    section.Layout       `json:"layout"`
	Artifacts map[string]string    `json:"artifacts,omitempty"`
}

// errorResponse is the JSON error payload.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var req sectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}
	if len(req.Fragments) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeEmptyInput, "no fragments supplied"))
		return
	}

	opts := pipeline.Options{Title: req.Title, Formats: req.Formats}
	opts.SetDefaults()
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		s.writeError(w, err)
		return
	}

	ctx := r.Context()

	bhs, err := s.runner.ReconcileFragments(ctx, req.Fragments)
	if err != nil {
		s.writeError(w, err)
		return
	}
	layout, err := s.runner.BuildLayout(ctx, bhs)
	if err != nil {
		s.writeError(w, err)
		return
	}
	artifacts, err := s.runner.Render(ctx, layout, bhs, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	run := &store.Run{
		ID:        uuid.New().String(),
		Title:     opts.Title,
		CreatedAt: time.Now().UTC(),
		Boreholes: bhs,
		Layout:    layout,
		Artifacts: artifactSizes(artifacts),
	}
	if err := s.store.Save(ctx, run); err != nil {
		s.logger.Error("saving run", "err", err)
	}

	// A single SVG request gets the image directly; everything else gets
	// the JSON document.
	if len(opts.Formats) == 1 && opts.Formats[0] == pipeline.FormatSVG && r.URL.Query().Get("raw") == "true" {
		w.Header().Set("Content-Type", "image/svg+xml")
		w.Header().Set("X-Run-ID", run.ID)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(artifacts[pipeline.FormatSVG])
		return
	}

	resp := sectionResponse{
		RunID:     run.ID,
		Boreholes: bhs,
		Layout:    layout,
		Artifacts: make(map[string]string, len(artifacts)),
	}
	for format, data := range artifacts {
		resp.Artifacts[format] = string(data)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": summaries})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateRunID(id); err != nil {
		s.writeError(w, err)
		return
	}
	run, err := s.store.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := errors.ValidateRunID(id); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeError maps structured error codes to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case errors.ErrCodeEmptyInput, errors.ErrCodeNoUsableData:
		status = http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound, errors.ErrCodeRunNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeRateLimited:
		status = http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	}
	writeJSON(w, status, errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func artifactSizes(artifacts map[string][]byte) map[string]int {
	sizes := make(map[string]int, len(artifacts))
	for format, data := range artifacts {
		sizes[format] = len(data)
	}
	return sizes
}
