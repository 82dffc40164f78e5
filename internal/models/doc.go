// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package models defines the JSON payloads of the HTTP API.
//
// Every endpoint answers with an APIResponse envelope. Successful responses
// carry one of the payload types in this package (or a recommend/store type
// directly) in Data; failed ones carry an APIError.
package models
