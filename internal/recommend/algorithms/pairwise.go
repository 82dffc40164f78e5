// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"errors"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// ErrNoVectors is returned when a metric is called without input rows.
var ErrNoVectors = errors.New("no vectors to compare")

// scoreFunc scores row i against row j, i < j.
type scoreFunc func(i, j int) float64

// pairwise fills a symmetric n x n matrix by scoring every pair of rows.
func pairwise(ctx context.Context, n, numWorkers int, score scoreFunc) (*mat.SymDense, error) {
	sym := mat.NewSymDense(n, nil)

	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > n {
		numWorkers = n
	}

	var wg sync.WaitGroup
	chunkSize := (n + numWorkers - 1) / numWorkers

	for w := 0; w < numWorkers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()

			for i := start; i < end; i++ {
				if ContextCancelled(ctx) {
					return
				}
				sym.SetSym(i, i, 1)
				for j := i + 1; j < n; j++ {
					sym.SetSym(i, j, clamp(score(i, j)))
				}
			}
		}(start, end)
	}

	wg.Wait()

	if ContextCancelled(ctx) {
		return nil, ctx.Err()
	}
	return sym, nil
}

// rows copies the matrix rows into slices.
func rows(vectors *mat.Dense) [][]float64 {
	r, _ := vectors.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, vectors)
	}
	return out
}

// clamp bounds a score to [-1, 1] and maps NaN and Inf to 0.
func clamp(s float64) float64 {
	switch {
	case math.IsNaN(s) || math.IsInf(s, 0):
		return 0
	case s > 1:
		return 1
	case s < -1:
		return -1
	default:
		return s
	}
}

// ContextCancelled checks if the context has been cancelled.
func ContextCancelled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
