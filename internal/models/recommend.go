// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package models

import (
	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/store"
)

// RecommendationsResponse lists the unrated movies with the highest
// predicted ratings for one user.
type RecommendationsResponse struct {
	UserID          int                        `json:"user_id"`
	K               int                        `json:"k"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
}

// NeighborsResponse lists the users most similar to one user.
type NeighborsResponse struct {
	UserID    int                   `json:"user_id"`
	Neighbors recommend.NeighborSet `json:"neighbors"`
}

// EvaluationListResponse is a page of persisted evaluation runs, newest first.
type EvaluationListResponse struct {
	Runs  []*store.EvaluationRun `json:"runs"`
	Count int                    `json:"count"`
}

// HealthStatus is the readiness check payload.
type HealthStatus struct {
	Status            string  `json:"status"` // "ready" or "not_ready"
	DatabaseConnected bool    `json:"database_connected"`
	ModelFitted       bool    `json:"model_fitted"`
	Uptime            float64 `json:"uptime_seconds"`
}

// ServiceStatus reports the fitted model and the stored dataset.
type ServiceStatus struct {
	Engine  recommend.Status `json:"engine"`
	Dataset *database.Stats  `json:"dataset,omitempty"`
	Cache   *CacheStatus     `json:"cache,omitempty"`
	Uptime  float64          `json:"uptime_seconds"`
}

// CacheStatus reports the response caches; omitted when caching is off.
type CacheStatus struct {
	Recommendations cache.Stats `json:"recommendations"`
	Neighbors       cache.Stats `json:"neighbors"`
}
