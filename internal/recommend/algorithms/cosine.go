// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Cosine returns a metric computing the cosine similarity between rows.
// Missing (NaN) cells count as 0, so only co-rated columns contribute to the
// dot product while every rated column contributes to the norms.
// numWorkers <= 0 uses GOMAXPROCS.
func Cosine(numWorkers int) func(ctx context.Context, vectors *mat.Dense) (*mat.SymDense, error) {
	return func(ctx context.Context, vectors *mat.Dense) (*mat.SymDense, error) {
		if vectors == nil || vectors.IsEmpty() {
			return nil, ErrNoVectors
		}

		vecs := rows(vectors)
		norms := make([]float64, len(vecs))
		for i, v := range vecs {
			for k, x := range v {
				if math.IsNaN(x) {
					v[k] = 0
				}
			}
			norms[i] = floats.Norm(v, 2)
		}

		return pairwise(ctx, len(vecs), numWorkers, func(i, j int) float64 {
			if norms[i] == 0 || norms[j] == 0 {
				return 0
			}
			return floats.Dot(vecs[i], vecs[j]) / (norms[i] * norms[j])
		})
	}
}
