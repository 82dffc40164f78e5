// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package services adapts cinematch components to suture.Service.
//
//   - HTTPServerService runs an *http.Server with graceful shutdown.
//   - EvaluationService imports the ratings CSV, fits the engine and
//     evaluates the configured target users on startup and on an interval,
//     persisting one run per target.
//
// Dependencies are taken as small interfaces (HTTPServer, RatingSource,
// Engine, RunSaver) so the services are tested with fakes.
package services
