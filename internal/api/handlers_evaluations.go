// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/store"
)

// listEvaluationsRequest holds the parameters of GET /evaluations.
type listEvaluationsRequest struct {
	UserID int `json:"user_id" validate:"gte=0"`
	Limit  int `json:"limit" validate:"gte=0,lte=500"`
}

// CreateEvaluation handles POST /api/v1/evaluations/user/{userID}
// Runs the prediction pipeline for the user, scores it and persists the run.
func (h *Handler) CreateEvaluation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := parseUserID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", err.Error(), nil)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	up, err := h.engine.Predict(ctx, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	run := store.NewRun(up, h.engine.Status(), store.TriggerAPI)
	if err := h.runs.Save(ctx, run); err != nil {
		respondServiceError(w, r, err)
		return
	}

	logging.Ctx(ctx).Info().
		Str("run_id", run.ID.String()).
		Int("user_id", userID).
		Float64("rmse", run.RMSE).
		Msg("Evaluation stored")

	w.Header().Set("Location", "/api/v1/evaluations/"+run.ID.String())
	respondSuccess(w, r, http.StatusCreated, run, start)
}

// GetEvaluation handles GET /api/v1/evaluations/{runID}
func (h *Handler) GetEvaluation(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_RUN_ID", "run id must be a UUID", nil)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	run, err := h.runs.Get(ctx, runID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, run, start)
}

// ListEvaluations handles GET /api/v1/evaluations?user_id=&limit=
// Returns stored runs newest first, optionally for one user.
func (h *Handler) ListEvaluations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := parseIntParam(r, "user_id", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil)
		return
	}
	limit, err := parseIntParam(r, "limit", store.DefaultListLimit)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil)
		return
	}

	req := listEvaluationsRequest{UserID: userID, Limit: limit}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	runs, err := h.runs.List(ctx, store.ListOptions{UserID: req.UserID, Limit: req.Limit})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}

	respondSuccess(w, r, http.StatusOK, models.EvaluationListResponse{
		Runs:  runs,
		Count: len(runs),
	}, start)
}
