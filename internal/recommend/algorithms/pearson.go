// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// minCoRated is the overlap needed for a correlation to be defined.
const minCoRated = 2

// Pearson returns a metric computing the Pearson correlation between rows
// over the columns both rows rated. numWorkers <= 0 uses GOMAXPROCS.
func Pearson(numWorkers int) func(ctx context.Context, vectors *mat.Dense) (*mat.SymDense, error) {
	return func(ctx context.Context, vectors *mat.Dense) (*mat.SymDense, error) {
		if vectors == nil || vectors.IsEmpty() {
			return nil, ErrNoVectors
		}

		vecs := rows(vectors)
		return pairwise(ctx, len(vecs), numWorkers, func(i, j int) float64 {
			a, b := coRated(vecs[i], vecs[j])
			if len(a) < minCoRated {
				return 0
			}
			return stat.Correlation(a, b, nil)
		})
	}
}

// coRated returns the aligned values of the columns present in both rows.
func coRated(x, y []float64) (a, b []float64) {
	for k := range x {
		if math.IsNaN(x[k]) || math.IsNaN(y[k]) {
			continue
		}
		a = append(a, x[k])
		b = append(b, y[k])
	}
	return a, b
}
