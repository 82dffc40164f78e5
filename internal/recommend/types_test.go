// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"
	"fmt"
	"testing"

	"github.com/goccy/go-json"
)

func TestImputation_String(t *testing.T) {
	tests := []struct {
		name     string
		policy   Imputation
		expected string
	}{
		{"none", ImputeNone, "none"},
		{"zero", ImputeZero, "zero"},
		{"mean", ImputeMean, "mean"},
		{"unknown value", Imputation(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.policy.String(); got != tt.expected {
				t.Errorf("Imputation(%d).String() = %q, want %q", tt.policy, got, tt.expected)
			}
		})
	}
}

func TestParseImputation(t *testing.T) {
	tests := []struct {
		input   string
		want    Imputation
		wantErr bool
	}{
		{"", ImputeNone, false},
		{"none", ImputeNone, false},
		{" Zero ", ImputeZero, false},
		{"MEAN", ImputeMean, false},
		{"median", ImputeNone, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseImputation(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseImputation(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidArgument) {
				t.Errorf("ParseImputation(%q) error = %v, want ErrInvalidArgument", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseImputation(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestMeanSource_Validate(t *testing.T) {
	for _, ms := range []MeanSource{MeanSourceNeighbors, MeanSourceGlobal} {
		if err := ms.Validate(); err != nil {
			t.Errorf("MeanSource(%q).Validate() error = %v", ms, err)
		}
	}
	if err := MeanSource("median").Validate(); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("MeanSource(median).Validate() error = %v, want ErrInvalidArgument", err)
	}
}

func TestPredictionResult_GetAfterDecode(t *testing.T) {
	result := newPredictionResult(2)
	result.add(Prediction{MovieID: 7, Predicted: 3.5})
	result.add(Prediction{MovieID: 9, Predicted: 4})

	data, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var decoded PredictionResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	p, ok := decoded.Get(9)
	if !ok || p.Predicted != 4 {
		t.Errorf("Get(9) = (%+v, %v), want predicted 4", p, ok)
	}
	if _, ok := decoded.Get(8); ok {
		t.Error("Get(8) found a prediction that does not exist")
	}
}

func TestPredictionResult_Pairs(t *testing.T) {
	result := newPredictionResult(3)
	result.add(Prediction{MovieID: 1, Predicted: 2})
	result.add(Prediction{MovieID: 2, Predicted: 3})
	result.add(Prediction{MovieID: 3, Predicted: 4})
	result.AttachActuals(map[int]float64{3: 5, 1: 1, 42: 2})

	trueRatings, predicted := result.Pairs()
	if len(trueRatings) != 2 || trueRatings[0] != 1 || trueRatings[1] != 5 {
		t.Errorf("Pairs() true = %v, want [1 5]", trueRatings)
	}
	if len(predicted) != 2 || predicted[0] != 2 || predicted[1] != 4 {
		t.Errorf("Pairs() predicted = %v, want [2 4]", predicted)
	}
}

func TestErrorKind(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{&NotFoundError{Kind: "user", ID: 1}, "not_found"},
		{fmt.Errorf("wrapped: %w", &NoDataError{Axis: "row", ID: 2}), "no_data"},
		{&DivisionByZeroError{MovieID: 3}, "division_by_zero"},
		{&ShapeMismatchError{What: "x", Want: 1, Got: 2}, "shape_mismatch"},
		{&InvalidArgumentError{Name: "n", Value: 0}, "invalid_argument"},
		{ErrNotFitted, "not_fitted"},
		{ErrFitInProgress, "fit_in_progress"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		if got := ErrorKind(tt.err); got != tt.want {
			t.Errorf("ErrorKind(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
