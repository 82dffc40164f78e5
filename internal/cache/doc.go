// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package cache provides a thread-safe LRU cache with per-entry TTL.
//
// The API layer uses it to memoize recommendation and neighbor responses.
// Keys carry the engine's model version; the handler clears both caches
// the first time it sees a new version, so entries of a replaced model
// never outlive the refit.
//
// # Usage
//
//	c := cache.NewLRU[key, []recommend.Recommendation](10000, 5*time.Minute)
//	if recs, ok := c.Get(k); ok {
//	    return recs
//	}
//	c.Add(k, recs)
//
// A nil *LRU is a valid, always-empty cache.
package cache
