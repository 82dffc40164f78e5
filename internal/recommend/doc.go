// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package recommend implements user-based collaborative filtering over explicit
// movie ratings.
//
// # Pipeline
//
// The package is organized as a chain of pure functions over in-memory data:
//
//   - Filter: drops users and movies below activity thresholds
//   - BuildMatrix: pivots interactions into a dense user x movie matrix
//   - TopNSimilar: ranks the most similar users from a similarity matrix
//   - Predict: similarity-weighted prediction from the neighbor set
//   - RMSE / Evaluate: prediction accuracy against the true ratings
//
// Similarity itself is an external capability supplied as a SimilarityFunc
// (see the algorithms subpackage for cosine and Pearson implementations).
//
// # Missing Values
//
// RatingMatrix keeps an explicit presence mask next to its values, so an
// unrated cell is never confused with a rating of 0.0, even after zero
// imputation.
//
// # Prediction Formula
//
// For a target movie, the prediction is the sum of the raw ratings of the
// neighbors who rated it divided by the sum of those neighbors' similarity
// scores. The numerator is not weighted by similarity. This formula is kept
// as-is for compatibility with previously published results.
//
// # Diagnostics
//
// Core functions never print. Row/column counts, matrix shapes and RMSE
// scores are reported to an injected Observer (see LogObserver and
// metrics.PipelineObserver).
//
// # Usage
//
//	cfg := recommend.DefaultConfig()
//	engine, err := recommend.NewEngine(cfg, algorithms.Cosine(0), logger)
//	if err != nil {
//	    return err
//	}
//	if err := engine.Fit(ctx, interactions); err != nil {
//	    return err
//	}
//	eval, err := engine.Predict(ctx, userID)
//
// # Scaling
//
// Matrices are materialized densely: memory is O(users x movies) after
// filtering. This is adequate for MovieLens-sized datasets but does not scale
// to large catalogs.
//
// # Thread Safety
//
// The free functions share no state. Engine is safe for concurrent use:
// Fit acquires an exclusive lock while queries use a shared lock.
package recommend
