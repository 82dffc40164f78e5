// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"context"
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// Interaction is one observed (user, movie, rating) triple.
type Interaction struct {
	// UserID is the rating author.
	UserID int `json:"user_id"`

	// MovieID is the rated movie.
	MovieID int `json:"movie_id"`

	// Rating is the explicit rating value (MovieLens uses 0.5-5.0).
	Rating float64 `json:"rating"`
}

// Imputation selects how missing matrix cells are filled.
type Imputation int

const (
	// ImputeNone keeps missing cells missing.
	ImputeNone Imputation = iota
	// ImputeZero fills missing cells with 0.0.
	ImputeZero
	// ImputeMean fills missing cells with the mean of the row's present values.
	ImputeMean
)

// String returns the configuration name of the policy.
func (p Imputation) String() string {
	switch p {
	case ImputeNone:
		return "none"
	case ImputeZero:
		return "zero"
	case ImputeMean:
		return "mean"
	default:
		return "unknown"
	}
}

// ParseImputation converts a configuration name into an Imputation.
// The empty string maps to ImputeNone.
func ParseImputation(s string) (Imputation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ImputeNone, nil
	case "zero":
		return ImputeZero, nil
	case "mean":
		return ImputeMean, nil
	default:
		return ImputeNone, &InvalidArgumentError{Name: "imputation", Value: s, Reason: "must be none, zero or mean"}
	}
}

// Neighbor is a similar entity and its similarity to the query target.
type Neighbor struct {
	ID         int     `json:"id"`
	Similarity float64 `json:"similarity"`
}

// NeighborSet is ordered by descending similarity and never contains the target.
type NeighborSet []Neighbor

// IDs returns the neighbor ids in rank order.
func (s NeighborSet) IDs() []int {
	ids := make([]int, len(s))
	for i, n := range s {
		ids[i] = n.ID
	}
	return ids
}

// Weights returns the similarity scores in rank order.
func (s NeighborSet) Weights() []float64 {
	w := make([]float64, len(s))
	for i, n := range s {
		w[i] = n.Similarity
	}
	return w
}

// Prediction is the predicted rating for one movie.
type Prediction struct {
	MovieID   int     `json:"movie_id"`
	Predicted float64 `json:"predicted"`

	// Actual is the target's true rating; valid only when HasActual is set.
	Actual    float64 `json:"actual,omitempty"`
	HasActual bool    `json:"has_actual"`

	// Fallback marks predictions taken from the column mean because no
	// neighbor rated the movie.
	Fallback bool `json:"fallback"`

	// Contributors is the number of neighbors that rated the movie.
	Contributors int `json:"contributors"`
}

// PredictionResult holds predictions in the column order of the source matrix.
type PredictionResult struct {
	Predictions []Prediction `json:"predictions"`

	index map[int]int
}

func newPredictionResult(capacity int) *PredictionResult {
	return &PredictionResult{
		Predictions: make([]Prediction, 0, capacity),
		index:       make(map[int]int, capacity),
	}
}

func (r *PredictionResult) add(p Prediction) {
	r.index[p.MovieID] = len(r.Predictions)
	r.Predictions = append(r.Predictions, p)
}

// Len returns the number of predictions.
func (r *PredictionResult) Len() int {
	return len(r.Predictions)
}

// Get returns the prediction for a movie.
func (r *PredictionResult) Get(movieID int) (Prediction, bool) {
	if r.index == nil {
		r.reindex()
	}
	i, ok := r.index[movieID]
	if !ok {
		return Prediction{}, false
	}
	return r.Predictions[i], true
}

// AttachActuals pairs each prediction with the target's true rating, if any.
func (r *PredictionResult) AttachActuals(actual map[int]float64) {
	for i := range r.Predictions {
		if v, ok := actual[r.Predictions[i].MovieID]; ok {
			r.Predictions[i].Actual = v
			r.Predictions[i].HasActual = true
		}
	}
}

// Pairs returns the aligned true and predicted ratings of predictions with an actual value.
func (r *PredictionResult) Pairs() (trueRatings, predicted []float64) {
	for _, p := range r.Predictions {
		if !p.HasActual {
			continue
		}
		trueRatings = append(trueRatings, p.Actual)
		predicted = append(predicted, p.Predicted)
	}
	return trueRatings, predicted
}

// reindex rebuilds the lookup index after JSON decoding.
func (r *PredictionResult) reindex() {
	r.index = make(map[int]int, len(r.Predictions))
	for i, p := range r.Predictions {
		r.index[p.MovieID] = i
	}
}

// SimilarityFunc computes a symmetric similarity matrix between the rows of
// vectors. Missing cells are NaN.
type SimilarityFunc func(ctx context.Context, vectors *mat.Dense) (*mat.SymDense, error)

// MeanSource selects which users the fallback column means are computed over.
type MeanSource string

const (
	// MeanSourceNeighbors averages the zero-imputed neighbor rows, so a column
	// no neighbor rated falls back to 0.
	MeanSourceNeighbors MeanSource = "neighbors"
	// MeanSourceGlobal averages the observed ratings of every user in the
	// filtered dataset.
	MeanSourceGlobal MeanSource = "global"
)

// Validate checks that the mean source is known.
func (m MeanSource) Validate() error {
	switch m {
	case MeanSourceNeighbors, MeanSourceGlobal:
		return nil
	default:
		return fmt.Errorf("unknown mean source %q: %w", string(m), ErrInvalidArgument)
	}
}
