// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/models"
)

// recommendationsRequest holds the parameters of GET /recommendations/user/{userID}.
type recommendationsRequest struct {
	UserID int `json:"user_id"`
	// K of 0 uses the engine default; larger values are capped at max_k.
	K int `json:"k" validate:"gte=0,lte=10000"`
}

// neighborsRequest holds the parameters of GET /neighbors/user/{userID}.
type neighborsRequest struct {
	UserID int `json:"user_id"`
	N      int `json:"n" validate:"gte=0,lte=10000"`
}

// Recommendations handles GET /api/v1/recommendations/user/{userID}?k=
// Returns the unrated movies with the highest predicted ratings.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := parseUserID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", err.Error(), nil)
		return
	}
	k, err := parseIntParam(r, "k", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil)
		return
	}

	req := recommendationsRequest{UserID: userID, K: k}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	key := h.cacheKey(req.UserID, req.K)
	recs, hit := h.recsCache.Get(key)
	if h.recsCache != nil {
		metrics.RecordCacheLookup("recommendations", hit)
	}
	if !hit {
		ctx, cancel := h.requestContext(r.Context())
		defer cancel()

		recs, err = h.engine.Recommend(ctx, req.UserID, req.K)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		h.recsCache.Add(key, recs)
	}

	respondSuccess(w, r, http.StatusOK, models.RecommendationsResponse{
		UserID:          req.UserID,
		K:               len(recs),
		Recommendations: recs,
	}, start)
}

// Neighbors handles GET /api/v1/neighbors/user/{userID}?n=
// Returns the most similar users, most similar first.
func (h *Handler) Neighbors(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID, err := parseUserID(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_USER_ID", err.Error(), nil)
		return
	}
	n, err := parseIntParam(r, "n", 0)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "INVALID_PARAMETER", err.Error(), nil)
		return
	}

	req := neighborsRequest{UserID: userID, N: n}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	key := h.cacheKey(req.UserID, req.N)
	neighbors, hit := h.neighborsCache.Get(key)
	if h.neighborsCache != nil {
		metrics.RecordCacheLookup("neighbors", hit)
	}
	if !hit {
		ctx, cancel := h.requestContext(r.Context())
		defer cancel()

		neighbors, err = h.engine.Neighbors(ctx, req.UserID, req.N)
		if err != nil {
			respondServiceError(w, r, err)
			return
		}
		h.neighborsCache.Add(key, neighbors)
	}

	respondSuccess(w, r, http.StatusOK, models.NeighborsResponse{
		UserID:    req.UserID,
		Neighbors: neighbors,
	}, start)
}
