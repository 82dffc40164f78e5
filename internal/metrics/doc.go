// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package metrics provides Prometheus metrics collection and export for observability.

Metrics are registered with the default registry through promauto and exposed
at /metrics in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

API:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Database:
  - duckdb_query_duration_seconds{operation, table}
  - duckdb_query_errors_total{operation, table}
  - dataset_ratings

Pipeline (fed by PipelineObserver):
  - pipeline_interactions{stage}: interaction counts before and after filtering
  - pipeline_matrix_size{imputation, axis}
  - pipeline_evaluations_total{target}
  - pipeline_rmse{target}

Engine and evaluation:
  - engine_fit_duration_seconds, engine_fits_total{result}
  - engine_model_users, engine_model_movies
  - evaluation_runs_total{result}, evaluation_last_rmse
  - evaluation_skipped_users_total{kind}
  - store_runs_saved_total

# Usage

PipelineObserver plugs into the recommendation engine next to its log output:

	engine, err := recommend.NewEngine(cfg, sim, logger, metrics.NewPipelineObserver())
*/
package metrics
