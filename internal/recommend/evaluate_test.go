// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"
	"math"
	"testing"
)

func TestRMSE(t *testing.T) {
	tests := []struct {
		name      string
		trueVals  []float64
		predicted []float64
		want      float64
		wantErr   error
	}{
		{name: "identical", trueVals: []float64{3, 4, 5}, predicted: []float64{3, 4, 5}, want: 0},
		{name: "unit error", trueVals: []float64{0, 0}, predicted: []float64{1, 1}, want: 1},
		{name: "mixed", trueVals: []float64{1, 2, 3, 4}, predicted: []float64{2, 2, 3, 2}, want: math.Sqrt(5.0 / 4)},
		{name: "length mismatch", trueVals: []float64{1, 2}, predicted: []float64{1}, wantErr: ErrShapeMismatch},
		{name: "empty", trueVals: nil, predicted: nil, wantErr: ErrNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RMSE(tt.trueVals, tt.predicted)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("RMSE() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("RMSE() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("RMSE() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	result := newPredictionResult(3)
	result.add(Prediction{MovieID: 1, Predicted: 3})
	result.add(Prediction{MovieID: 2, Predicted: 5})
	result.add(Prediction{MovieID: 3, Predicted: 1})
	result.AttachActuals(map[int]float64{1: 4, 2: 4})

	obs := &recordingObserver{}
	got, err := Evaluate("user", result, obs)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if math.Abs(got-1) > 1e-12 {
		t.Errorf("Evaluate() = %v, want 1", got)
	}
	if len(obs.targets) != 1 || obs.targets[0] != "user" || obs.scores[0] != got {
		t.Errorf("Evaluated calls = %v %v, want [user] [1]", obs.targets, obs.scores)
	}
}

func TestEvaluate_NoActuals(t *testing.T) {
	result := newPredictionResult(1)
	result.add(Prediction{MovieID: 1, Predicted: 3})

	obs := &recordingObserver{}
	if _, err := Evaluate("user", result, obs); !errors.Is(err, ErrNoData) {
		t.Errorf("Evaluate() error = %v, want ErrNoData", err)
	}
	if len(obs.targets) != 0 {
		t.Error("Evaluated must not be reported on failure")
	}
}
