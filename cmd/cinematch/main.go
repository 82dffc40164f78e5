// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/database"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/metrics"
	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/recommend/algorithms"
	"github.com/tomtom215/cinematch/internal/store"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

// run wires the application and blocks until shutdown. It returns the
// process exit code so deferred cleanup runs before os.Exit.
func run() int {
	startTime := time.Now()

	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("Failed to load configuration")
		return 1
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("similarity", cfg.Recommend.Similarity).
		Str("mean_source", cfg.Recommend.MeanSource).
		Int("neighbors", cfg.Recommend.Neighbors).
		Msg("Starting Cinematch")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to initialize database")
		return 1
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()

	sim, err := algorithms.Lookup(cfg.Recommend.Similarity, cfg.Recommend.NumWorkers)
	if err != nil {
		logging.Error().Err(err).Msg("Unknown similarity function")
		return 1
	}

	engine, err := recommend.NewEngine(cfg.EngineConfig(), sim, logging.Logger(), metrics.NewPipelineObserver())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create recommendation engine")
		return 1
	}

	runs, err := store.Open(&cfg.Store)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to open run store")
		return 1
	}
	defer func() {
		if err := runs.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing run store")
		}
	}()

	targets, err := cfg.TargetUserIDs()
	if err != nil {
		logging.Error().Err(err).Msg("Invalid evaluation targets")
		return 1
	}

	if cfg.Server.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}
	if cfg.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows any origin (CORS_ORIGINS=*); set explicit origins in production")
	}

	handler := api.NewHandler(engine, db, runs, cfg.Server.Timeout)
	if cfg.Cache.Capacity > 0 {
		handler.EnableCache(cfg.Cache.Capacity, cfg.Cache.TTL)
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(api.NewChiMiddlewareConfig(&cfg.Server)))

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Leave headroom for the handler timeout to produce a 504 body.
		WriteTimeout: cfg.Server.Timeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Error().Err(err).Msg("Failed to create supervisor tree")
		return 1
	}

	tree.AddDataService(runs)
	tree.AddPipelineService(services.NewEvaluationService(db, engine, runs, services.EvaluationServiceConfig{
		DatasetPath:       cfg.Dataset.Path,
		ImportOnStartup:   cfg.Dataset.ImportOnStartup,
		EvaluateOnStartup: cfg.Recommend.EvaluateOnStartup,
		EvaluateInterval:  cfg.Recommend.EvaluateInterval,
		Targets:           targets,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go trackUptime(ctx, startTime)

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	if err := <-tree.ServeBackground(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Cinematch stopped")
	return 0
}

// trackUptime refreshes the uptime gauge until ctx is done.
func trackUptime(ctx context.Context, start time.Time) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		metrics.AppUptime.Set(time.Since(start).Seconds())
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
