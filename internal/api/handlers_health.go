// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
)

// HealthLive handles GET /api/v1/health/live.
// Returns 200 while the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Now())
}

// HealthReady handles GET /api/v1/health/ready.
// Returns 200 once the database answers and a model is fitted, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	dbConnected := h.dataset != nil && h.dataset.Ping(ctx) == nil
	fitted := h.engine.Status().Fitted

	health := models.HealthStatus{
		Status:            "ready",
		DatabaseConnected: dbConnected,
		ModelFitted:       fitted,
		Uptime:            time.Since(h.startTime).Seconds(),
	}
	status := http.StatusOK
	if !dbConnected || !fitted {
		health.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}

	respondSuccess(w, r, status, health, start)
}

// Status handles GET /api/v1/status.
// Reports the engine state and, when the database answers, dataset statistics.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := h.requestContext(r.Context())
	defer cancel()

	resp := models.ServiceStatus{
		Engine: h.engine.Status(),
		Uptime: time.Since(h.startTime).Seconds(),
	}
	if h.recsCache != nil {
		resp.Cache = &models.CacheStatus{
			Recommendations: h.recsCache.Stats(),
			Neighbors:       h.neighborsCache.Stats(),
		}
	}
	if h.dataset != nil {
		stats, err := h.dataset.Stats(ctx)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Dataset stats unavailable")
		} else {
			resp.Dataset = stats
		}
	}

	respondSuccess(w, r, http.StatusOK, resp, start)
}
