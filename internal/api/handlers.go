// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package api

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/viralforge/internal/validation"
	"github.com/tomtom215/viralforge/internal/viral"
)

// Handler serves the viral engine's HTTP endpoints.
type Handler struct {
	engine *viral.Engine
	logger zerolog.Logger
}

// NewHandler creates the API handler.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandler(engine *viral.Engine, logger zerolog.Logger) *Handler {
	return &Handler{
		engine: engine,
		logger: logger.With().Str("component", "api").Logger(),
	}
}

// decodeAndValidate decodes the request body into v and runs struct
// validation. Writes the error response itself and reports success.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, codeInvalidJSON, "request body is not valid JSON", err)
		return false
	}
	if verr := validation.ValidateStruct(v); verr != nil {
		apiErr := verr.ToAPIError()
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return false
	}
	return true
}

// LearnRequest is the payload for POST /api/v1/learn.
type LearnRequest struct {
	Content     viral.Content      `json:"content" validate:"required"`
	Performance map[string]float64 `json:"performance" validate:"required,min=1"`
}

// Learn records one content performance observation.
func (h *Handler) Learn(w http.ResponseWriter, r *http.Request) {
	var req LearnRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.engine.Observe(r.Context(), req.Content, req.Performance)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, "learning failed", err)
		return
	}
	respondData(w, http.StatusOK, session)
}

// PredictRequest is the payload for POST /api/v1/predict and
// POST /api/v1/optimize.
type PredictRequest struct {
	Content viral.Content `json:"content" validate:"required"`
}

// Predict scores a candidate item against the learned patterns.
func (h *Handler) Predict(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	pred, err := h.engine.Predict(r.Context(), req.Content)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, "prediction failed", err)
		return
	}
	respondData(w, http.StatusOK, pred)
}

// Optimize rewrites a candidate item toward the learned patterns.
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req PredictRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	opt, err := h.engine.Optimize(r.Context(), req.Content)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeInternalError, "optimization failed", err)
		return
	}
	respondData(w, http.StatusOK, opt)
}

// OutcomeRequest is the payload for POST /api/v1/predictions/outcome.
type OutcomeRequest struct {
	Success *bool `json:"success" validate:"required"`
}

// PredictionOutcome records whether a previous prediction proved correct.
func (h *Handler) PredictionOutcome(w http.ResponseWriter, r *http.Request) {
	var req OutcomeRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	h.engine.RecordPredictionOutcome(*req.Success)
	respondData(w, http.StatusOK, h.engine.Metrics())
}

// Insights reports the engine's learning self-assessment.
func (h *Handler) Insights(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, h.engine.Insights())
}

// Patterns lists stored patterns, optionally capped by a limit query param.
func (h *Handler) Patterns(w http.ResponseWriter, r *http.Request) {
	patterns := h.engine.Patterns()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respondError(w, http.StatusBadRequest, codeInvalidQuery, "limit must be a non-negative integer", err)
			return
		}
		if limit < len(patterns) {
			patterns = patterns[:limit]
		}
	}
	respondData(w, http.StatusOK, patterns)
}

// Status reports the engine's operational status.
func (h *Handler) Status(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, h.engine.Status())
}

// ExportRequest is the payload for POST /api/v1/patterns/export. Path is
// optional; when empty the store picks a timestamped default.
type ExportRequest struct {
	Path string `json:"path"`
}

// ExportResponse reports where an export landed.
type ExportResponse struct {
	Path string `json:"path"`
}

// ExportPatterns writes a portable pattern export.
func (h *Handler) ExportPatterns(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	path, err := h.engine.ExportPatterns(r.Context(), req.Path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeStorageError, "export failed", err)
		return
	}
	respondData(w, http.StatusOK, ExportResponse{Path: path})
}

// ImportRequest is the payload for POST /api/v1/patterns/import.
type ImportRequest struct {
	Path string `json:"path" validate:"required"`
}

// ImportResponse reports how many patterns an import merged.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// ImportPatterns merges a previously exported document.
func (h *Handler) ImportPatterns(w http.ResponseWriter, r *http.Request) {
	var req ImportRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	imported, err := h.engine.ImportPatterns(r.Context(), req.Path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, codeStorageError, "import failed", err)
		return
	}
	respondData(w, http.StatusOK, ImportResponse{Imported: imported})
}

// Healthz is the liveness endpoint.
func (h *Handler) Healthz(w http.ResponseWriter, _ *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "ok"})
}
