// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package main is the entry point for the Cinematch server.
//
// Cinematch imports a ratings CSV (userId, movieId, rating, timestamp) into
// DuckDB, fits a user-based collaborative filtering model on it and serves
// neighbor lookups, rating predictions and top-K recommendations over HTTP.
//
// # Startup Order
//
//  1. Configuration: defaults, optional config.yaml, then environment (Koanf v2)
//  2. Logging: zerolog, bridged to slog for the supervisor
//  3. Database: DuckDB holding the ratings table
//  4. Engine: similarity function from RECOMMEND_SIMILARITY
//  5. Run store: BadgerDB for persisted evaluation runs
//  6. Supervisor tree: run store GC, evaluation pipeline, HTTP server
//
// The HTTP server starts before the first fit completes; until then
// /api/v1/health/ready reports 503 and prediction endpoints return not_fitted.
//
// # Example Usage
//
//	export DATASET_PATH=/data/ratings.csv
//	export RECOMMEND_TARGET_USERS=15,27
//	export RECOMMEND_EVALUATE_ON_STARTUP=true
//	./cinematch
//
//	curl localhost:3857/api/v1/recommendations/user/15?k=5
//
// # Signal Handling
//
// SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
// in-flight requests, then the run store and database are closed.
package main
