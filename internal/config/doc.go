// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package config provides centralized configuration management for Cinematch.

Configuration is layered with koanf. Later layers override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, then config.yaml, config.yml,
    /etc/cinematch/config.yaml and /etc/cinematch/config.yml
 3. Environment variables listed below. Unlisted variables are ignored.

# Environment Variables

Dataset:
  - DATASET_PATH: Ratings CSV with userId, movieId and rating columns (default: data/ratings.csv)
  - DATASET_IMPORT_ON_STARTUP: Import the CSV into DuckDB at startup (default: true)

Database:
  - DUCKDB_PATH: Database file path (default: /data/cinematch.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 2GB)
  - DUCKDB_THREADS: DuckDB worker threads, 0 for NumCPU (default: 0)

Filtering:
  - MIN_MOVIE_COUNT: Drop movies with this many ratings or fewer (default: 10)
  - MIN_USER_COUNT: Drop users with this many ratings or fewer (default: 10)

Recommendation:
  - RECOMMEND_NEIGHBORS: Similar users used per prediction (default: 30)
  - RECOMMEND_SIMILARITY: cosine or pearson (default: cosine)
  - RECOMMEND_MEAN_SOURCE: global or neighbors (default: global)
  - RECOMMEND_TOP_K: Recommendations returned when k is omitted (default: 10)
  - RECOMMEND_MAX_K: Upper bound on k (default: 100)
  - RECOMMEND_TARGET_USERS: Comma-separated user ids evaluated by the background service
  - RECOMMEND_EVALUATE_ON_STARTUP: Evaluate the targets once the model is fitted (default: false)
  - RECOMMEND_EVALUATE_INTERVAL: Periodic evaluation interval, 0 disables (default: 0)
  - RECOMMEND_SKIP_FAILED_TARGETS: Skip targets that cannot be scored (default: true)
  - RECOMMEND_NUM_WORKERS: Similarity workers, 0 for GOMAXPROCS (default: 0)
  - RECOMMEND_FIT_TIMEOUT: Upper bound on one fit (default: 10m)

Run store:
  - STORE_PATH: BadgerDB directory (default: /data/runs)
  - STORE_IN_MEMORY: Keep runs in memory only (default: false)

HTTP server:
  - HTTP_HOST, HTTP_PORT, HTTP_TIMEOUT (defaults: 0.0.0.0, 3857, 30s)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT (defaults: 100, 1m, false)
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)

Logging:
  - LOG_LEVEL: trace, debug, info, warn or error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller file and line (default: false)

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	engine, err := recommend.NewEngine(cfg.EngineConfig(), sim, logger, observer)
*/
package config
