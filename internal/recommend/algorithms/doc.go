// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package algorithms implements the similarity metrics used by the
// collaborative filtering engine.
//
// Every metric has the signature of recommend.SimilarityFunc: it receives a
// dense matrix whose rows are entity vectors (missing cells are NaN) and
// returns a symmetric similarity matrix with a diagonal of 1.
//
// # Metrics
//
//   - Cosine: cosine of the angle between rows, missing cells read as 0
//   - Pearson: correlation over the columns both rows rated
//
// # Usage Example
//
//	sim, err := algorithms.Lookup("cosine", 8)
//	if err != nil {
//	    return err
//	}
//	engine, err := recommend.NewEngine(cfg, sim, logger, nil)
//
// # Concurrency
//
// Rows are split into contiguous chunks, one per worker. Each worker writes
// only the upper-triangle cells of its own rows, so no locking is needed.
// Workers stop at the next row boundary once the context is cancelled.
//
// Scores are clamped to [-1, 1]. A pair without enough overlap to score
// (zero norm, fewer than two co-rated columns, zero variance) gets 0.
package algorithms
