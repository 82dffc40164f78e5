// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package logging provides the zerolog-based logging used across cinematch.
//
// The global logger is configured once from main via Init and read through
// the level helpers or WithComponent. Request-scoped logging goes through
// Ctx, which adds the request ID stored by the API middleware:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logger := logging.WithComponent("engine")
//	logging.Ctx(ctx).Info().Int("user_id", id).Msg("recommendations served")
//
// SlogHandler bridges libraries that only accept *slog.Logger.
//
// Always terminate log chains with .Msg() or .Send(), and prefer structured
// fields over Msgf.
package logging
