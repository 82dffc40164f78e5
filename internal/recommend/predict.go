// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

// Predict estimates a rating for every column of observed from the neighbors
// that rated it.
//
// observed holds the neighbor rows only, with row i belonging to neighbors[i].
// For each column the neighbors with an actual rating contribute:
//
//	predicted = sum(ratings) / sum(similarities)
//
// The numerator is the plain rating sum, not a similarity-weighted sum.
// A column no neighbor rated takes its value from columnMeans and is marked
// as a fallback. Predictions follow the column order of observed.
func Predict(observed *RatingMatrix, columnMeans map[int]float64, neighbors NeighborSet) (*PredictionResult, error) {
	nr, nc := observed.Shape()
	if nr != len(neighbors) {
		return nil, &ShapeMismatchError{What: "observed rows vs neighbors", Want: len(neighbors), Got: nr}
	}

	result := newPredictionResult(nc)
	for j, movieID := range observed.cols {
		var ratingSum, weightSum float64
		contributors := 0
		for i := 0; i < nr; i++ {
			if !observed.present[i*nc+j] {
				continue
			}
			ratingSum += observed.values[i*nc+j]
			weightSum += neighbors[i].Similarity
			contributors++
		}

		if contributors == 0 {
			mean, ok := columnMeans[movieID]
			if !ok {
				return nil, &NoDataError{Axis: "column", ID: movieID, Reason: "no neighbor rating and no column mean"}
			}
			result.add(Prediction{MovieID: movieID, Predicted: mean, Fallback: true})
			continue
		}

		if weightSum == 0 {
			return nil, &DivisionByZeroError{MovieID: movieID, Contributors: contributors}
		}
		result.add(Prediction{
			MovieID:      movieID,
			Predicted:    ratingSum / weightSum,
			Contributors: contributors,
		})
	}

	return result, nil
}
