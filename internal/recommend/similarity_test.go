// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// simFromRow builds a similarity matrix where entity 0 has the given scores
// against entities 1..len(scores); other off-diagonal entries are 0.
func simFromRow(t *testing.T, scores []float64) *SimilarityMatrix {
	t.Helper()
	n := len(scores) + 1
	sym := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		sym.SetSym(i, i, 1)
	}
	for j, s := range scores {
		sym.SetSym(0, j+1, s)
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = 100 + i
	}
	sim, err := NewSimilarityMatrix(ids, sym)
	if err != nil {
		t.Fatalf("NewSimilarityMatrix() error = %v", err)
	}
	return sim
}

func TestTopNSimilar(t *testing.T) {
	tests := []struct {
		name    string
		scores  []float64
		n       int
		wantIDs []int
	}{
		{
			name:    "exact matches override n",
			scores:  []float64{1.0, 0.5, 1.0, 0.9, 1.0},
			n:       2,
			wantIDs: []int{101, 103, 105},
		},
		{
			name:    "exact matches equal to n",
			scores:  []float64{1.0, 0.2, 1.0},
			n:       2,
			wantIDs: []int{101, 103},
		},
		{
			name:    "fewer exact matches than n fall back to top n",
			scores:  []float64{0.3, 1.0, 0.7},
			n:       2,
			wantIDs: []int{102, 103},
		},
		{
			name:    "no exact matches returns exactly n sorted",
			scores:  []float64{0.1, 0.9, 0.5, 0.3, 0.8, 0.2, 0.7, 0.4, 0.6, 0.05},
			n:       5,
			wantIDs: []int{102, 105, 107, 109, 103},
		},
		{
			name:    "ties keep matrix order",
			scores:  []float64{0.5, 0.8, 0.5, 0.5},
			n:       3,
			wantIDs: []int{102, 101, 103},
		},
		{
			name:    "n larger than candidates returns all",
			scores:  []float64{0.2, -0.4},
			n:       10,
			wantIDs: []int{101, 102},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sim := simFromRow(t, tt.scores)

			got, err := TopNSimilar(sim, 100, tt.n)
			if err != nil {
				t.Fatalf("TopNSimilar() error = %v", err)
			}
			ids := got.IDs()
			if len(ids) != len(tt.wantIDs) {
				t.Fatalf("TopNSimilar() ids = %v, want %v", ids, tt.wantIDs)
			}
			for i := range ids {
				if ids[i] != tt.wantIDs[i] {
					t.Errorf("TopNSimilar() ids = %v, want %v", ids, tt.wantIDs)
					break
				}
				if ids[i] == 100 {
					t.Error("TopNSimilar() returned the target itself")
				}
			}
			w := got.Weights()
			for i := 1; i < len(w); i++ {
				if w[i] > w[i-1] {
					t.Errorf("weights not descending: %v", w)
				}
			}
		})
	}
}

func TestTopNSimilar_Errors(t *testing.T) {
	sim := simFromRow(t, []float64{0.5, 0.2})

	if _, err := TopNSimilar(sim, 999, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("TopNSimilar(unknown) error = %v, want ErrNotFound", err)
	}
	if _, err := TopNSimilar(sim, 100, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("TopNSimilar(n=0) error = %v, want ErrInvalidArgument", err)
	}
}

func TestNewSimilarityMatrix_ShapeMismatch(t *testing.T) {
	sym := mat.NewSymDense(2, []float64{1, 0.5, 0.5, 1})

	_, err := NewSimilarityMatrix([]int{1, 2, 3}, sym)
	if !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("NewSimilarityMatrix() error = %v, want ErrShapeMismatch", err)
	}

	sim, err := NewSimilarityMatrix([]int{1, 2}, sym)
	if err != nil {
		t.Fatalf("NewSimilarityMatrix() error = %v", err)
	}
	if s, err := sim.Similarity(2, 1); err != nil || s != 0.5 {
		t.Errorf("Similarity(2, 1) = (%v, %v), want 0.5", s, err)
	}
	if !sim.Contains(1) || sim.Contains(3) {
		t.Error("Contains() reported wrong membership")
	}
}
