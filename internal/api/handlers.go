// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/cinematch/internal/cache"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/store"
)

// defaultRequestTimeout bounds engine and store calls when none is configured.
const defaultRequestTimeout = 30 * time.Second

// Dataset is the part of *database.DB the handlers read.
type Dataset interface {
	Ping(ctx context.Context) error
	Stats(ctx context.Context) (*database.Stats, error)
}

// RunStore is the part of *store.RunStore the handlers use.
type RunStore interface {
	Save(ctx context.Context, run *store.EvaluationRun) error
	Get(ctx context.Context, id uuid.UUID) (*store.EvaluationRun, error)
	List(ctx context.Context, opts store.ListOptions) ([]*store.EvaluationRun, error)
}

// Handler serves the HTTP API on top of a fitted engine.
type Handler struct {
	engine    *recommend.Engine
	dataset   Dataset
	runs      RunStore
	timeout   time.Duration
	startTime time.Time

	// Response caches, nil until EnableCache.
	recsCache      *cache.LRU[responseKey, []recommend.Recommendation]
	neighborsCache *cache.LRU[responseKey, recommend.NeighborSet]
	cacheVersion   atomic.Int64
}

// responseKey identifies a cached response. version pins it to one fitted
// model so a refit never serves stale results.
type responseKey struct {
	version int
	userID  int
	size    int
}

// NewHandler creates a handler. timeout bounds each request's work;
// zero uses defaultRequestTimeout.
func NewHandler(engine *recommend.Engine, dataset Dataset, runs RunStore, timeout time.Duration) *Handler {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	return &Handler{
		engine:    engine,
		dataset:   dataset,
		runs:      runs,
		timeout:   timeout,
		startTime: time.Now(),
	}
}

// EnableCache memoizes recommendation and neighbor responses per model
// version. capacity applies to each of the two caches.
func (h *Handler) EnableCache(capacity int, ttl time.Duration) {
	h.recsCache = cache.NewLRU[responseKey, []recommend.Recommendation](capacity, ttl)
	h.neighborsCache = cache.NewLRU[responseKey, recommend.NeighborSet](capacity, ttl)
}

// cacheKey builds the response key for the current model and drops both
// caches the first time a new model version is seen.
func (h *Handler) cacheKey(userID, size int) responseKey {
	version := h.engine.Status().ModelVersion
	if h.recsCache != nil {
		if prev := h.cacheVersion.Swap(int64(version)); prev != int64(version) {
			h.recsCache.Clear()
			h.neighborsCache.Clear()
		}
	}
	return responseKey{version: version, userID: userID, size: size}
}

// requestContext derives the per-request deadline.
func (h *Handler) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.timeout)
}
