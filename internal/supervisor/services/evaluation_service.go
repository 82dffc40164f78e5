// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/store"
)

// RatingSource loads the ratings dataset. Satisfied by *database.DB.
type RatingSource interface {
	ImportCSV(ctx context.Context, path string) (*database.ImportRecord, error)
	Interactions(ctx context.Context) ([]recommend.Interaction, error)
}

// Engine is the part of *recommend.Engine the service drives.
type Engine interface {
	Fit(ctx context.Context, interactions []recommend.Interaction) error
	EvaluateAll(ctx context.Context, userIDs []int) (*recommend.EvaluationSummary, error)
	Status() recommend.Status
}

// RunSaver persists evaluation runs. Satisfied by *store.RunStore.
type RunSaver interface {
	Save(ctx context.Context, run *store.EvaluationRun) error
}

// EvaluationServiceConfig holds configuration for the evaluation service.
type EvaluationServiceConfig struct {
	// DatasetPath is the ratings CSV imported when ImportOnStartup is set.
	DatasetPath     string
	ImportOnStartup bool

	// EvaluateOnStartup evaluates Targets right after the first fit.
	EvaluateOnStartup bool

	// EvaluateInterval re-evaluates Targets periodically; 0 disables.
	EvaluateInterval time.Duration

	// Targets are the users evaluated and persisted. Empty evaluates every
	// fitted user but persists no runs.
	Targets []int
}

// EvaluationService loads the dataset, fits the engine and evaluates the
// configured target users under suture supervision.
//
// Loading happens once: after a successful fit a restarted service goes
// straight to evaluation. A failed load is returned so the supervisor
// retries it with backoff.
type EvaluationService struct {
	source RatingSource
	engine Engine
	runs   RunSaver
	config EvaluationServiceConfig
	logger zerolog.Logger

	loaded atomic.Bool
}

// NewEvaluationService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEvaluationService(source RatingSource, engine Engine, runs RunSaver, cfg EvaluationServiceConfig, logger zerolog.Logger) *EvaluationService {
	return &EvaluationService{
		source: source,
		engine: engine,
		runs:   runs,
		config: cfg,
		logger: logger.With().Str("service", "evaluation").Logger(),
	}
}

// Serve implements suture.Service.
func (s *EvaluationService) Serve(ctx context.Context) error {
	if !s.loaded.Load() {
		if err := s.load(ctx); err != nil {
			return err
		}
		s.loaded.Store(true)

		if s.config.EvaluateOnStartup {
			s.evaluate(ctx, store.TriggerStartup)
		}
	}

	if s.config.EvaluateInterval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.EvaluateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("evaluation service shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.evaluate(ctx, store.TriggerInterval)
		}
	}
}

// load imports the dataset if configured and fits the engine on it.
func (s *EvaluationService) load(ctx context.Context) error {
	if s.config.ImportOnStartup {
		record, err := s.source.ImportCSV(ctx, s.config.DatasetPath)
		if err != nil {
			return fmt.Errorf("import dataset: %w", err)
		}
		s.logger.Info().
			Str("path", record.SourcePath).
			Int64("rows", record.Rows).
			Dur("duration", record.Duration).
			Msg("dataset imported")
	}

	interactions, err := s.source.Interactions(ctx)
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}

	start := time.Now()
	err = s.engine.Fit(ctx, interactions)
	metrics.RecordFit(time.Since(start), s.engine.Status(), err)
	if err != nil {
		return fmt.Errorf("fit engine: %w", err)
	}
	return nil
}

// evaluate scores the targets and persists one run per target. Failures are
// logged and counted; the service keeps running.
func (s *EvaluationService) evaluate(ctx context.Context, trigger string) {
	summary, err := s.engine.EvaluateAll(ctx, s.config.Targets)
	metrics.RecordEvaluationRun(summary, err)
	if err != nil {
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("evaluation failed")
		return
	}

	s.logger.Info().
		Str("trigger", trigger).
		Int("users", len(summary.Users)).
		Float64("rmse", summary.RMSE).
		Msg("evaluation finished")

	if len(s.config.Targets) == 0 {
		return
	}

	status := s.engine.Status()
	saved := 0
	for _, up := range summary.Results {
		if err := s.runs.Save(ctx, store.NewRun(up, status, trigger)); err != nil {
			s.logger.Warn().Err(err).Int("user_id", up.UserID).Msg("save run failed")
			continue
		}
		saved++
	}
	s.logger.Debug().Int("runs", saved).Msg("evaluation runs stored")
}

// String returns the service name for logging.
func (s *EvaluationService) String() string {
	return "evaluation-service"
}
