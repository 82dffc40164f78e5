// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Engine fits the collaborative filtering model once and answers per-user
// queries against it. It is safe for concurrent use: Fit swaps the model
// under an exclusive lock, queries read it under a shared lock.
type Engine struct {
	config     *Config
	logger     zerolog.Logger
	similarity SimilarityFunc
	observer   Observer

	mu     sync.RWMutex
	model  *model
	status Status

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// model is the immutable result of one Fit.
type model struct {
	// observed is the zero-imputed user x movie matrix.
	observed *RatingMatrix
	sim      *SimilarityMatrix

	// globalMeans are the per-movie means of observed ratings over all users.
	globalMeans map[int]float64
}

// Status describes the fitted model.
type Status struct {
	Fitted            bool      `json:"fitted"`
	IsFitting         bool      `json:"is_fitting"`
	ModelVersion      int       `json:"model_version"`
	LastFittedAt      time.Time `json:"last_fitted_at,omitempty"`
	LastFitDurationMS int64     `json:"last_fit_duration_ms"`
	LastError         string    `json:"last_error,omitempty"`

	// RawInteractions is the input size of the last Fit, Interactions the
	// size after filtering.
	RawInteractions int `json:"raw_interactions"`
	Interactions    int `json:"interactions"`
	Users           int `json:"users"`
	Movies          int `json:"movies"`

	Similarity string `json:"similarity"`
	MeanSource string `json:"mean_source"`
	Requests   int64  `json:"requests"`
	Errors     int64  `json:"errors"`
}

// UserPrediction is the full pipeline output for one target user.
type UserPrediction struct {
	UserID    int               `json:"user_id"`
	Neighbors NeighborSet       `json:"neighbors"`
	Result    *PredictionResult `json:"result"`
	RMSE      float64           `json:"rmse"`
}

// Recommendation is a movie the user has not rated, with its predicted rating.
type Recommendation struct {
	MovieID      int     `json:"movie_id"`
	Score        float64 `json:"score"`
	Fallback     bool    `json:"fallback"`
	Contributors int     `json:"contributors"`
}

// UserScore is the evaluation of one user within EvaluateAll.
type UserScore struct {
	UserID      int     `json:"user_id"`
	RMSE        float64 `json:"rmse"`
	Predictions int     `json:"predictions"`
}

// EvaluationSummary aggregates EvaluateAll over many users.
type EvaluationSummary struct {
	Users []UserScore `json:"users"`

	// Results holds the prediction behind each entry of Users, in the same
	// order, so callers can persist runs without predicting again.
	Results []*UserPrediction `json:"-"`

	// RMSE is computed over the pooled (true, predicted) pairs of all
	// evaluated users, not as a mean of per-user scores.
	RMSE float64 `json:"rmse"`

	// Skipped counts failed users per error kind when SkipFailedTargets is set.
	Skipped map[string]int `json:"skipped,omitempty"`
}

// NewEngine creates an engine that computes user similarity with sim.
// obs receives pipeline diagnostics in addition to the engine's own logging;
// it may be nil.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, sim SimilarityFunc, logger zerolog.Logger, obs Observer) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if sim == nil {
		return nil, fmt.Errorf("similarity function is required")
	}

	observers := MultiObserver{NewLogObserver(logger)}
	if obs != nil {
		observers = append(observers, obs)
	}

	return &Engine{
		config:     cfg.Clone(),
		logger:     logger.With().Str("component", "recommend").Logger(),
		similarity: sim,
		observer:   observers,
		status: Status{
			Similarity: cfg.Similarity,
			MeanSource: string(cfg.MeanSource),
		},
	}, nil
}

// Fit filters interactions, builds the rating matrices and computes user
// similarity. The previous model stays in service until the new one is ready.
func (e *Engine) Fit(ctx context.Context, interactions []Interaction) error {
	if err := e.beginFit(); err != nil {
		return err
	}
	// Cleared even if the similarity function panics.
	defer e.endFit()

	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.config.FitTimeout)
	defer cancel()

	m, filtered, err := e.fit(ctx, interactions)

	e.mu.Lock()
	defer e.mu.Unlock()

	e.status.LastFitDurationMS = time.Since(start).Milliseconds()
	if err != nil {
		e.status.LastError = err.Error()
		e.errorCount.Add(1)
		e.logger.Error().Err(err).Msg("fit failed")
		return fmt.Errorf("fit: %w", err)
	}

	rows, cols := m.observed.Shape()
	e.model = m
	e.status.Fitted = true
	e.status.LastError = ""
	e.status.ModelVersion++
	e.status.LastFittedAt = time.Now()
	e.status.RawInteractions = len(interactions)
	e.status.Interactions = filtered
	e.status.Users = rows
	e.status.Movies = cols

	e.logger.Info().
		Int("version", e.status.ModelVersion).
		Int("users", rows).
		Int("movies", cols).
		Int64("duration_ms", e.status.LastFitDurationMS).
		Msg("fit complete")
	return nil
}

func (e *Engine) beginFit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.status.IsFitting {
		return ErrFitInProgress
	}
	e.status.IsFitting = true
	return nil
}

func (e *Engine) endFit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.status.IsFitting = false
}

func (e *Engine) fit(ctx context.Context, interactions []Interaction) (*model, int, error) {
	filtered := Filter(interactions, e.config.MinMovieCount, e.config.MinUserCount, e.observer)
	if len(filtered) == 0 {
		return nil, 0, &NoDataError{Axis: "interactions", Reason: "nothing left after filtering"}
	}

	unimputed, err := BuildMatrix(filtered, ImputeNone, e.observer)
	if err != nil {
		return nil, 0, err
	}
	observed, err := BuildMatrix(filtered, ImputeZero, e.observer)
	if err != nil {
		return nil, 0, err
	}

	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	raw, err := e.similarity(ctx, unimputed.Dense())
	if err != nil {
		return nil, 0, fmt.Errorf("compute similarity: %w", err)
	}
	sim, err := NewSimilarityMatrix(unimputed.Rows(), raw)
	if err != nil {
		return nil, 0, err
	}

	return &model{
		observed:    observed,
		sim:         sim,
		globalMeans: ColumnMeans(observed),
	}, len(filtered), nil
}

// current returns the fitted model or ErrNotFitted.
func (e *Engine) current() (*model, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.model == nil {
		return nil, ErrNotFitted
	}
	return e.model, nil
}

// Neighbors returns the n users most similar to userID. n <= 0 uses the
// configured neighbor count.
func (e *Engine) Neighbors(ctx context.Context, userID, n int) (NeighborSet, error) {
	e.requestCount.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := e.current()
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = e.config.Neighbors
	}

	neighbors, err := TopNSimilar(m.sim, userID, n)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("neighbors of user %d: %w", userID, err)
	}
	return neighbors, nil
}

// Predict runs the prediction pipeline for one user and scores it against
// the user's own ratings.
func (e *Engine) Predict(ctx context.Context, userID int) (*UserPrediction, error) {
	e.requestCount.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := e.current()
	if err != nil {
		return nil, err
	}

	up, err := e.predictUser(m, userID, true)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("predict user %d: %w", userID, err)
	}
	return up, nil
}

// predictUser runs the pipeline for one user. With evaluate unset the
// result is not scored and RMSE stays 0.
func (e *Engine) predictUser(m *model, userID int, evaluate bool) (*UserPrediction, error) {
	neighbors, err := TopNSimilar(m.sim, userID, e.config.Neighbors)
	if err != nil {
		return nil, err
	}

	rows, err := m.observed.RestrictRows(neighbors.IDs())
	if err != nil {
		return nil, err
	}

	means := m.globalMeans
	if e.config.MeanSource == MeanSourceNeighbors {
		means = ImputedColumnMeans(rows)
	}

	result, err := Predict(rows, means, neighbors)
	if err != nil {
		return nil, err
	}

	actual, err := m.observed.ObservedRow(userID)
	if err != nil {
		return nil, err
	}
	result.AttachActuals(actual)

	up := &UserPrediction{
		UserID:    userID,
		Neighbors: neighbors,
		Result:    result,
	}
	if evaluate {
		up.RMSE, err = Evaluate("user", result, e.observer)
		if err != nil {
			return nil, err
		}
	}
	return up, nil
}

// Recommend returns up to k movies the user has not rated, highest predicted
// rating first. k <= 0 uses the configured default; k is capped at MaxK.
func (e *Engine) Recommend(ctx context.Context, userID, k int) ([]Recommendation, error) {
	if k <= 0 {
		k = e.config.DefaultK
	}
	if k > e.config.MaxK {
		k = e.config.MaxK
	}

	e.requestCount.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m, err := e.current()
	if err != nil {
		return nil, err
	}

	// Ranking needs no score against the user's own ratings.
	up, err := e.predictUser(m, userID, false)
	if err != nil {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("recommend for user %d: %w", userID, err)
	}

	recs := make([]Recommendation, 0, up.Result.Len())
	for _, p := range up.Result.Predictions {
		if p.HasActual {
			continue
		}
		recs = append(recs, Recommendation{
			MovieID:      p.MovieID,
			Score:        p.Predicted,
			Fallback:     p.Fallback,
			Contributors: p.Contributors,
		})
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Score > recs[j].Score
	})
	if len(recs) > k {
		recs = recs[:k]
	}
	return recs, nil
}

// EvaluateAll evaluates every listed user, or every fitted user when userIDs
// is empty. A failing user aborts the run unless SkipFailedTargets is set.
func (e *Engine) EvaluateAll(ctx context.Context, userIDs []int) (*EvaluationSummary, error) {
	m, err := e.current()
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		userIDs = m.observed.Rows()
	}

	summary := &EvaluationSummary{
		Users:   make([]UserScore, 0, len(userIDs)),
		Results: make([]*UserPrediction, 0, len(userIDs)),
		Skipped: make(map[string]int),
	}
	var pooledTrue, pooledPred []float64

	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		up, err := e.predictUser(m, userID, true)
		if err != nil {
			if !e.config.SkipFailedTargets {
				e.errorCount.Add(1)
				return nil, fmt.Errorf("evaluate user %d: %w", userID, err)
			}
			kind := ErrorKind(err)
			summary.Skipped[kind]++
			e.logger.Warn().Err(err).Int("user_id", userID).Str("kind", kind).Msg("skipping user")
			continue
		}

		t, p := up.Result.Pairs()
		pooledTrue = append(pooledTrue, t...)
		pooledPred = append(pooledPred, p...)
		summary.Users = append(summary.Users, UserScore{
			UserID:      userID,
			RMSE:        up.RMSE,
			Predictions: len(t),
		})
		summary.Results = append(summary.Results, up)
	}

	summary.RMSE, err = RMSE(pooledTrue, pooledPred)
	if err != nil {
		return nil, fmt.Errorf("aggregate rmse: %w", err)
	}

	e.logger.Info().
		Int("users", len(summary.Users)).
		Int("skipped", len(userIDs)-len(summary.Users)).
		Float64("rmse", summary.RMSE).
		Msg("evaluation complete")
	return summary, nil
}

// Status returns a snapshot of the engine state.
func (e *Engine) Status() Status {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := e.status
	s.Requests = e.requestCount.Load()
	s.Errors = e.errorCount.Load()
	return s
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}
