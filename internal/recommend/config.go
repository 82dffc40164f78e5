// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"fmt"
	"time"
)

// Config contains the tuning parameters of the collaborative filtering engine.
type Config struct {
	// MinMovieCount drops movies with this many interactions or fewer.
	// Default: 10.
	MinMovieCount int `json:"min_movie_count"`

	// MinUserCount drops users with this many interactions or fewer.
	// Default: 10.
	MinUserCount int `json:"min_user_count"`

	// Neighbors is the number of similar users used for prediction.
	// Default: 30.
	Neighbors int `json:"neighbors"`

	// Similarity names the similarity metric, for reporting.
	// Default: "cosine".
	Similarity string `json:"similarity"`

	// MeanSource selects the users the fallback column means come from.
	// Default: "global".
	MeanSource MeanSource `json:"mean_source"`

	// DefaultK is the number of recommendations returned when none is requested.
	// Default: 10.
	DefaultK int `json:"default_k"`

	// MaxK caps the number of recommendations per request.
	// Default: 100.
	MaxK int `json:"max_k"`

	// SkipFailedTargets makes EvaluateAll skip users whose prediction fails
	// instead of aborting the whole run.
	// Default: false.
	SkipFailedTargets bool `json:"skip_failed_targets"`

	// FitTimeout bounds a single Fit call.
	// Default: 10m.
	FitTimeout time.Duration `json:"fit_timeout"`
}

// DefaultConfig returns a Config with sensible defaults for MovieLens-sized data.
func DefaultConfig() *Config {
	return &Config{
		MinMovieCount:     10,
		MinUserCount:      10,
		Neighbors:         30,
		Similarity:        "cosine",
		MeanSource:        MeanSourceGlobal,
		DefaultK:          10,
		MaxK:              100,
		SkipFailedTargets: false,
		FitTimeout:        10 * time.Minute,
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.MinMovieCount < 0 {
		return fmt.Errorf("min_movie_count must be non-negative, got %d", c.MinMovieCount)
	}
	if c.MinUserCount < 0 {
		return fmt.Errorf("min_user_count must be non-negative, got %d", c.MinUserCount)
	}
	if c.Neighbors < 1 {
		return fmt.Errorf("neighbors must be positive, got %d", c.Neighbors)
	}
	if c.Similarity == "" {
		return fmt.Errorf("similarity must not be empty")
	}
	if err := c.MeanSource.Validate(); err != nil {
		return fmt.Errorf("mean_source: %w", err)
	}
	if c.DefaultK < 1 {
		return fmt.Errorf("default_k must be positive, got %d", c.DefaultK)
	}
	if c.MaxK < c.DefaultK {
		return fmt.Errorf("max_k must be >= default_k, got %d < %d", c.MaxK, c.DefaultK)
	}
	if c.FitTimeout <= 0 {
		return fmt.Errorf("fit_timeout must be positive, got %v", c.FitTimeout)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All fields are value types.
	clone := *c
	return &clone
}
