// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// RMSE returns the root-mean-squared error between aligned rating slices.
func RMSE(trueRatings, predicted []float64) (float64, error) {
	if len(trueRatings) != len(predicted) {
		return 0, &ShapeMismatchError{What: "true vs predicted ratings", Want: len(trueRatings), Got: len(predicted)}
	}
	if len(trueRatings) == 0 {
		return 0, &NoDataError{Axis: "ratings", Reason: "nothing to evaluate"}
	}
	return floats.Distance(trueRatings, predicted, 2) / math.Sqrt(float64(len(trueRatings))), nil
}

// Evaluate scores the predictions that have an actual rating and reports the
// result to obs under the target label (e.g., "user").
func Evaluate(target string, result *PredictionResult, obs Observer) (float64, error) {
	obs = orNop(obs)

	trueRatings, predicted := result.Pairs()
	score, err := RMSE(trueRatings, predicted)
	if err != nil {
		return 0, fmt.Errorf("evaluate %s: %w", target, err)
	}

	obs.Evaluated(target, score)
	return score, nil
}
