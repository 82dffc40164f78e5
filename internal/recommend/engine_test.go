// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/mat"

	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
)

// engineInteractions is a 4 user x 5 movie dataset:
//
//	      m1   m2   m3   m4   m5
//	u1    5    4    _    1    _
//	u2    5    4    4    1    _
//	u3    1    1    5    5    _
//	u4    _    _    _    3    2
func engineInteractions() []Interaction {
	return []Interaction{
		{UserID: 1, MovieID: 1, Rating: 5}, {UserID: 1, MovieID: 2, Rating: 4}, {UserID: 1, MovieID: 4, Rating: 1},
		{UserID: 2, MovieID: 1, Rating: 5}, {UserID: 2, MovieID: 2, Rating: 4}, {UserID: 2, MovieID: 3, Rating: 4}, {UserID: 2, MovieID: 4, Rating: 1},
		{UserID: 3, MovieID: 1, Rating: 1}, {UserID: 3, MovieID: 2, Rating: 1}, {UserID: 3, MovieID: 3, Rating: 5}, {UserID: 3, MovieID: 4, Rating: 5},
		{UserID: 4, MovieID: 4, Rating: 3}, {UserID: 4, MovieID: 5, Rating: 2},
	}
}

// fixedSimilarity ignores the rating vectors and returns a preset upper
// triangle over users 1..4.
func fixedSimilarity(upper map[[2]int]float64) SimilarityFunc {
	return func(_ context.Context, vectors *mat.Dense) (*mat.SymDense, error) {
		n, _ := vectors.Dims()
		sym := mat.NewSymDense(n, nil)
		for i := 0; i < n; i++ {
			sym.SetSym(i, i, 1)
		}
		for pair, s := range upper {
			sym.SetSym(pair[0], pair[1], s)
		}
		return sym, nil
	}
}

// engineSimilarity: u1~u2 0.9, u1~u3 0.1, u2~u4 0.5, u3~u4 0.3, u2~u3 0.2.
func engineSimilarity() SimilarityFunc {
	return fixedSimilarity(map[[2]int]float64{
		{0, 1}: 0.9,
		{0, 2}: 0.1,
		{0, 3}: 0.0,
		{1, 2}: 0.2,
		{1, 3}: 0.5,
		{2, 3}: 0.3,
	})
}

func testEngineConfig() *Config {
	cfg := DefaultConfig()
	cfg.MinMovieCount = 0
	cfg.MinUserCount = 0
	cfg.Neighbors = 2
	return cfg
}

func newTestEngine(t *testing.T, cfg *Config, sim SimilarityFunc, obs Observer) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, sim, zerolog.Nop(), obs)
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func newFittedEngine(t *testing.T, cfg *Config) *Engine {
	t.Helper()
	e := newTestEngine(t, cfg, engineSimilarity(), nil)
	if err := e.Fit(context.Background(), engineInteractions()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	return e
}

func TestNewEngine(t *testing.T) {
	t.Parallel()

	if _, err := NewEngine(nil, engineSimilarity(), zerolog.Nop(), nil); err != nil {
		t.Errorf("NewEngine(nil config) error = %v", err)
	}
	if _, err := NewEngine(testEngineConfig(), nil, zerolog.Nop(), nil); err == nil {
		t.Error("NewEngine(nil similarity) error = nil")
	}

	bad := testEngineConfig()
	bad.Neighbors = 0
	if _, err := NewEngine(bad, engineSimilarity(), zerolog.Nop(), nil); err == nil {
		t.Error("NewEngine(invalid config) error = nil")
	}
}

func TestEngine_NotFitted(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, testEngineConfig(), engineSimilarity(), nil)
	ctx := context.Background()

	if _, err := e.Neighbors(ctx, 1, 2); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Neighbors() error = %v, want ErrNotFitted", err)
	}
	if _, err := e.Predict(ctx, 1); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Predict() error = %v, want ErrNotFitted", err)
	}
	if _, err := e.Recommend(ctx, 1, 5); !errors.Is(err, ErrNotFitted) {
		t.Errorf("Recommend() error = %v, want ErrNotFitted", err)
	}
	if _, err := e.EvaluateAll(ctx, nil); !errors.Is(err, ErrNotFitted) {
		t.Errorf("EvaluateAll() error = %v, want ErrNotFitted", err)
	}
	if e.Status().Fitted {
		t.Error("Status().Fitted = true before Fit")
	}
}

func TestEngine_Fit(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	e := newTestEngine(t, testEngineConfig(), engineSimilarity(), obs)
	if err := e.Fit(context.Background(), engineInteractions()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	s := e.Status()
	if !s.Fitted || s.IsFitting {
		t.Errorf("Status() = %+v, want fitted and idle", s)
	}
	if s.ModelVersion != 1 {
		t.Errorf("ModelVersion = %d, want 1", s.ModelVersion)
	}
	if s.Users != 4 || s.Movies != 5 {
		t.Errorf("Status shape = %dx%d, want 4x5", s.Users, s.Movies)
	}
	if s.RawInteractions != 13 || s.Interactions != 13 {
		t.Errorf("Status interactions = %d/%d, want 13/13", s.RawInteractions, s.Interactions)
	}
	if s.Similarity != "cosine" || s.MeanSource != "global" {
		t.Errorf("Status labels = %q/%q", s.Similarity, s.MeanSource)
	}

	if obs.filterCalls != 1 || obs.filterBefore != 13 || obs.filterAfter != 13 {
		t.Errorf("FilterApplied = %d calls (%d -> %d)", obs.filterCalls, obs.filterBefore, obs.filterAfter)
	}
	if len(obs.matrixCalls) != 2 || obs.matrixCalls[0] != ImputeNone || obs.matrixCalls[1] != ImputeZero {
		t.Errorf("MatrixBuilt policies = %v, want [none zero]", obs.matrixCalls)
	}

	if err := e.Fit(context.Background(), engineInteractions()); err != nil {
		t.Fatalf("second Fit() error = %v", err)
	}
	if got := e.Status().ModelVersion; got != 2 {
		t.Errorf("ModelVersion after refit = %d, want 2", got)
	}
}

func TestEngine_FitErrors(t *testing.T) {
	t.Parallel()

	t.Run("everything filtered", func(t *testing.T) {
		t.Parallel()
		cfg := testEngineConfig()
		cfg.MinUserCount = 100
		e := newTestEngine(t, cfg, engineSimilarity(), nil)

		err := e.Fit(context.Background(), engineInteractions())
		if !errors.Is(err, ErrNoData) {
			t.Fatalf("Fit() error = %v, want ErrNoData", err)
		}
		s := e.Status()
		if s.Fitted || s.LastError == "" || s.IsFitting {
			t.Errorf("Status() = %+v, want unfitted with LastError", s)
		}
	})

	t.Run("similarity shape", func(t *testing.T) {
		t.Parallel()
		wrong := func(context.Context, *mat.Dense) (*mat.SymDense, error) {
			return mat.NewSymDense(2, nil), nil
		}
		e := newTestEngine(t, testEngineConfig(), wrong, nil)
		if err := e.Fit(context.Background(), engineInteractions()); !errors.Is(err, ErrShapeMismatch) {
			t.Fatalf("Fit() error = %v, want ErrShapeMismatch", err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := newTestEngine(t, testEngineConfig(), engineSimilarity(), nil)
		if err := e.Fit(ctx, engineInteractions()); !errors.Is(err, context.Canceled) {
			t.Fatalf("Fit() error = %v, want context.Canceled", err)
		}
	})

	t.Run("failed refit keeps previous model", func(t *testing.T) {
		t.Parallel()
		e := newFittedEngine(t, testEngineConfig())
		if err := e.Fit(context.Background(), nil); err == nil {
			t.Fatal("Fit(nil) error = nil")
		}
		if _, err := e.Predict(context.Background(), 1); err != nil {
			t.Errorf("Predict() after failed refit error = %v", err)
		}
		if got := e.Status().ModelVersion; got != 1 {
			t.Errorf("ModelVersion = %d, want 1", got)
		}
	})
}

func TestEngine_FitInProgress(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	blocking := func(ctx context.Context, vectors *mat.Dense) (*mat.SymDense, error) {
		close(started)
		<-release
		return engineSimilarity()(ctx, vectors)
	}
	e := newTestEngine(t, testEngineConfig(), blocking, nil)

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		firstErr = e.Fit(context.Background(), engineInteractions())
	}()

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("first Fit never reached similarity")
	}

	if !e.Status().IsFitting {
		t.Error("Status().IsFitting = false during Fit")
	}
	if err := e.Fit(context.Background(), engineInteractions()); !errors.Is(err, ErrFitInProgress) {
		t.Errorf("concurrent Fit() error = %v, want ErrFitInProgress", err)
	}

	close(release)
	wg.Wait()
	if firstErr != nil {
		t.Fatalf("first Fit() error = %v", firstErr)
	}
}

func TestEngine_Neighbors(t *testing.T) {
	t.Parallel()
	e := newFittedEngine(t, testEngineConfig())
	ctx := context.Background()

	tests := []struct {
		name    string
		userID  int
		n       int
		wantIDs []int
		wantErr error
	}{
		{"configured count", 1, 0, []int{2, 3}, nil},
		{"explicit count", 4, 1, []int{2}, nil},
		{"more than available", 3, 10, []int{4, 2, 1}, nil},
		{"unknown user", 99, 2, nil, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := e.Neighbors(ctx, tt.userID, tt.n)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Neighbors() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Neighbors() error = %v", err)
			}
			ids := got.IDs()
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("Neighbors() ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("Neighbors() ids = %v, want %v", ids, tt.wantIDs)
					break
				}
			}
		})
	}
}

func TestEngine_Predict(t *testing.T) {
	t.Parallel()
	e := newFittedEngine(t, testEngineConfig())

	up, err := e.Predict(context.Background(), 1)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}

	// Neighbors u2 (0.9) and u3 (0.1): weight sum 1.0, so each prediction
	// is the plain sum of neighbor ratings.
	want := map[int]struct {
		predicted float64
		fallback  bool
		actual    bool
	}{
		1: {6, false, true},
		2: {5, false, true},
		3: {9, false, false},
		4: {6, false, true},
		5: {2, true, false}, // no neighbor rated m5: global mean of u4's 2
	}

	if up.Result.Len() != len(want) {
		t.Fatalf("Result.Len() = %d, want %d", up.Result.Len(), len(want))
	}
	for movieID, w := range want {
		p, ok := up.Result.Get(movieID)
		if !ok {
			t.Errorf("Result.Get(%d) missing", movieID)
			continue
		}
		if math.Abs(p.Predicted-w.predicted) > 1e-9 {
			t.Errorf("movie %d predicted = %v, want %v", movieID, p.Predicted, w.predicted)
		}
		if p.Fallback != w.fallback || p.HasActual != w.actual {
			t.Errorf("movie %d fallback/actual = %v/%v, want %v/%v", movieID, p.Fallback, p.HasActual, w.fallback, w.actual)
		}
	}

	// errors against u1's ratings: 1, 1, 5
	if math.Abs(up.RMSE-3) > 1e-9 {
		t.Errorf("RMSE = %v, want 3", up.RMSE)
	}
	if up.UserID != 1 || len(up.Neighbors) != 2 {
		t.Errorf("UserPrediction = user %d with %d neighbors", up.UserID, len(up.Neighbors))
	}
}

func TestEngine_PredictNeighborMeans(t *testing.T) {
	t.Parallel()
	cfg := testEngineConfig()
	cfg.MeanSource = MeanSourceNeighbors
	e := newFittedEngine(t, cfg)

	up, err := e.Predict(context.Background(), 1)
	if err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	p, _ := up.Result.Get(5)
	if !p.Fallback || p.Predicted != 0 {
		t.Errorf("movie 5 = %+v, want zero-imputed neighbor mean fallback", p)
	}
}

func TestEngine_PredictDivisionByZero(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, testEngineConfig(), fixedSimilarity(map[[2]int]float64{}), nil)
	if err := e.Fit(context.Background(), engineInteractions()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	_, err := e.Predict(context.Background(), 1)
	if !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("Predict() error = %v, want ErrDivisionByZero", err)
	}
	if got := e.Status().Errors; got != 1 {
		t.Errorf("Status().Errors = %d, want 1", got)
	}
}

func TestEngine_FitPanicReleasesGuard(t *testing.T) {
	t.Parallel()

	var calls int
	flaky := func(ctx context.Context, vectors *mat.Dense) (*mat.SymDense, error) {
		calls++
		if calls == 1 {
			panic("similarity kernel crashed")
		}
		return engineSimilarity()(ctx, vectors)
	}
	e := newTestEngine(t, testEngineConfig(), flaky, nil)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("Fit() did not panic")
			}
		}()
		_ = e.Fit(context.Background(), engineInteractions())
	}()

	if e.Status().IsFitting {
		t.Error("Status().IsFitting = true after a panicking Fit")
	}
	if err := e.Fit(context.Background(), engineInteractions()); err != nil {
		t.Fatalf("Fit() after panic error = %v", err)
	}
	if !e.Status().Fitted {
		t.Error("engine not fitted after retry")
	}
}

func TestEngine_EvaluatedOncePerScoredUser(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	e := newTestEngine(t, testEngineConfig(), engineSimilarity(), obs)
	ctx := context.Background()
	if err := e.Fit(ctx, engineInteractions()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	if _, err := e.Recommend(ctx, 1, 2); err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(obs.targets) != 0 {
		t.Errorf("Recommend() reported %d evaluations, want 0", len(obs.targets))
	}

	if _, err := e.Predict(ctx, 1); err != nil {
		t.Fatalf("Predict() error = %v", err)
	}
	if len(obs.targets) != 1 {
		t.Errorf("Predict() reported %d evaluations, want 1", len(obs.targets))
	}

	summary, err := e.EvaluateAll(ctx, []int{1, 2})
	if err != nil {
		t.Fatalf("EvaluateAll() error = %v", err)
	}
	if len(obs.targets) != 3 {
		t.Errorf("evaluations after EvaluateAll = %d, want 3", len(obs.targets))
	}
	if len(summary.Results) != len(summary.Users) {
		t.Fatalf("Results = %d, Users = %d", len(summary.Results), len(summary.Users))
	}
	for i, up := range summary.Results {
		if up.UserID != summary.Users[i].UserID || up.RMSE != summary.Users[i].RMSE {
			t.Errorf("Results[%d] = user %d rmse %v, want user %d rmse %v",
				i, up.UserID, up.RMSE, summary.Users[i].UserID, summary.Users[i].RMSE)
		}
	}
}

func TestEngine_Recommend(t *testing.T) {
	t.Parallel()
	cfg := testEngineConfig()
	cfg.DefaultK = 1
	cfg.MaxK = 2
	e := newFittedEngine(t, cfg)
	ctx := context.Background()

	tests := []struct {
		name      string
		userID    int
		k         int
		wantIDs   []int
		wantScore []float64
	}{
		{"default k", 1, 0, []int{3}, []float64{9}},
		{"all unrated", 1, 2, []int{3, 5}, []float64{9, 2}},
		// u4 neighbors u2 (0.5) and u3 (0.3): m3 = 9/0.8, m1 = 6/0.8, m2 = 5/0.8
		{"capped at max k", 4, 50, []int{3, 1}, []float64{11.25, 7.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recs, err := e.Recommend(ctx, tt.userID, tt.k)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if len(recs) != len(tt.wantIDs) {
				t.Fatalf("Recommend() = %+v, want movies %v", recs, tt.wantIDs)
			}
			for i, r := range recs {
				if r.MovieID != tt.wantIDs[i] || math.Abs(r.Score-tt.wantScore[i]) > 1e-9 {
					t.Errorf("recs[%d] = %+v, want movie %d score %v", i, r, tt.wantIDs[i], tt.wantScore[i])
				}
			}
		})
	}
}

func TestEngine_EvaluateAll(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("pooled rmse over all users", func(t *testing.T) {
		t.Parallel()
		e := newFittedEngine(t, testEngineConfig())

		summary, err := e.EvaluateAll(ctx, nil)
		if err != nil {
			t.Fatalf("EvaluateAll() error = %v", err)
		}
		if len(summary.Users) != 4 {
			t.Fatalf("EvaluateAll() users = %d, want 4", len(summary.Users))
		}

		var pooledTrue, pooledPred []float64
		for _, us := range summary.Users {
			up, err := e.Predict(ctx, us.UserID)
			if err != nil {
				t.Fatalf("Predict(%d) error = %v", us.UserID, err)
			}
			if math.Abs(up.RMSE-us.RMSE) > 1e-9 {
				t.Errorf("user %d RMSE = %v, want %v", us.UserID, us.RMSE, up.RMSE)
			}
			tr, pr := up.Result.Pairs()
			pooledTrue = append(pooledTrue, tr...)
			pooledPred = append(pooledPred, pr...)
		}
		want, err := RMSE(pooledTrue, pooledPred)
		if err != nil {
			t.Fatalf("RMSE() error = %v", err)
		}
		if math.Abs(summary.RMSE-want) > 1e-9 {
			t.Errorf("summary RMSE = %v, want pooled %v", summary.RMSE, want)
		}
	})

	t.Run("failing target aborts", func(t *testing.T) {
		t.Parallel()
		e := newFittedEngine(t, testEngineConfig())
		if _, err := e.EvaluateAll(ctx, []int{1, 99}); !errors.Is(err, ErrNotFound) {
			t.Errorf("EvaluateAll() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("failing target skipped", func(t *testing.T) {
		t.Parallel()
		cfg := testEngineConfig()
		cfg.SkipFailedTargets = true
		e := newFittedEngine(t, cfg)

		summary, err := e.EvaluateAll(ctx, []int{1, 99})
		if err != nil {
			t.Fatalf("EvaluateAll() error = %v", err)
		}
		if len(summary.Users) != 1 || summary.Users[0].UserID != 1 {
			t.Errorf("Users = %+v, want only user 1", summary.Users)
		}
		if summary.Skipped["not_found"] != 1 {
			t.Errorf("Skipped = %v, want not_found: 1", summary.Skipped)
		}
		if math.Abs(summary.RMSE-3) > 1e-9 {
			t.Errorf("RMSE = %v, want 3", summary.RMSE)
		}
	})

	t.Run("every target skipped", func(t *testing.T) {
		t.Parallel()
		cfg := testEngineConfig()
		cfg.SkipFailedTargets = true
		e := newFittedEngine(t, cfg)
		if _, err := e.EvaluateAll(ctx, []int{98, 99}); !errors.Is(err, ErrNoData) {
			t.Errorf("EvaluateAll() error = %v, want ErrNoData", err)
		}
	})
}

func TestEngine_WithCosine(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, testEngineConfig(), algorithms.Cosine(2), nil)
	if err := e.Fit(context.Background(), engineInteractions()); err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	neighbors, err := e.Neighbors(context.Background(), 1, 1)
	if err != nil {
		t.Fatalf("Neighbors() error = %v", err)
	}
	if neighbors[0].ID != 2 {
		t.Errorf("closest neighbor of user 1 = %d, want 2", neighbors[0].ID)
	}
	if neighbors[0].Similarity <= 0 || neighbors[0].Similarity > 1 {
		t.Errorf("similarity = %v, want in (0, 1]", neighbors[0].Similarity)
	}
}

func TestEngine_ConcurrentQueries(t *testing.T) {
	t.Parallel()
	e := newFittedEngine(t, testEngineConfig())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%4 == 0 {
				_ = e.Fit(ctx, engineInteractions())
				return
			}
			if _, err := e.Predict(ctx, 1+i%4); err != nil {
				t.Errorf("Predict() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	if got := e.Status().Requests; got < 6 {
		t.Errorf("Status().Requests = %d, want >= 6", got)
	}
}

func TestEngine_ConfigIsCopy(t *testing.T) {
	t.Parallel()
	e := newTestEngine(t, testEngineConfig(), engineSimilarity(), nil)
	cfg := e.Config()
	cfg.Neighbors = 99
	if e.Config().Neighbors != 2 {
		t.Error("mutating Config() changed the engine")
	}
}
