// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"github.com/rs/zerolog"
)

// Observer receives pipeline diagnostics. Implementations must not block.
type Observer interface {
	// FilterApplied reports interaction counts before and after filtering.
	FilterApplied(before, after int)

	// MatrixBuilt reports the shape of a freshly built rating matrix.
	MatrixBuilt(policy Imputation, rows, cols int)

	// Evaluated reports the RMSE of a prediction run for a labeled target axis.
	Evaluated(target string, rmse float64)
}

// NopObserver discards all diagnostics.
type NopObserver struct{}

func (NopObserver) FilterApplied(int, int) {}

func (NopObserver) MatrixBuilt(Imputation, int, int) {}

func (NopObserver) Evaluated(string, float64) {}

// orNop substitutes NopObserver for a nil observer.
func orNop(obs Observer) Observer {
	if obs == nil {
		return NopObserver{}
	}
	return obs
}

// LogObserver writes diagnostics as structured zerolog events.
type LogObserver struct {
	logger zerolog.Logger
}

// NewLogObserver creates an observer that logs through logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewLogObserver(logger zerolog.Logger) *LogObserver {
	return &LogObserver{logger: logger.With().Str("component", "pipeline").Logger()}
}

// FilterApplied logs the interaction counts around filtering.
func (o *LogObserver) FilterApplied(before, after int) {
	o.logger.Info().
		Int("before", before).
		Int("after", after).
		Int("dropped", before-after).
		Msg("filtered sparse interactions")
}

// MatrixBuilt logs the matrix shape.
func (o *LogObserver) MatrixBuilt(policy Imputation, rows, cols int) {
	o.logger.Debug().
		Str("imputation", policy.String()).
		Int("rows", rows).
		Int("cols", cols).
		Str("index", "user_id").
		Str("columns", "movie_id").
		Msg("built user-movie matrix")
}

// Evaluated logs the RMSE with the target axis embedded in the message.
func (o *LogObserver) Evaluated(target string, rmse float64) {
	o.logger.Info().
		Str("target", target).
		Float64("rmse", rmse).
		Msg("RMSE of recommendation by " + target + "-" + target + " collaborative filtering")
}

// MultiObserver fans diagnostics out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) FilterApplied(before, after int) {
	for _, o := range m {
		if o != nil {
			o.FilterApplied(before, after)
		}
	}
}

func (m MultiObserver) MatrixBuilt(policy Imputation, rows, cols int) {
	for _, o := range m {
		if o != nil {
			o.MatrixBuilt(policy, rows, cols)
		}
	}
}

func (m MultiObserver) Evaluated(target string, rmse float64) {
	for _, o := range m {
		if o != nil {
			o.Evaluated(target, rmse)
		}
	}
}

// Ensure interface compliance.
var (
	_ Observer = NopObserver{}
	_ Observer = (*LogObserver)(nil)
	_ Observer = MultiObserver(nil)
)
