// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package store persists evaluation runs in BadgerDB.
//
// Runs are JSON-encoded under run:<id>. Two index keys point back at the run
// id: run_time:<unix nanos>:<id> for global listing and
// run_user:<user id>:<unix nanos>:<id> for per-user lookups. Both are
// zero-padded so lexical order equals chronological order, and List walks
// them in reverse to return the newest runs first.
package store
