// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/cinematch/internal/validation"
)

// Validate checks that required configuration is present and valid.
// Field rules come from the validate struct tags; cross-field rules follow.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	if err := c.validateRecommend(); err != nil {
		return err
	}

	return c.validateRateLimits()
}

// validateRecommend validates the collaborative filtering settings
func (c *Config) validateRecommend() error {
	if c.Recommend.DefaultK > c.Recommend.MaxK {
		return fmt.Errorf("RECOMMEND_TOP_K (%d) must not exceed RECOMMEND_MAX_K (%d)",
			c.Recommend.DefaultK, c.Recommend.MaxK)
	}

	if _, err := c.TargetUserIDs(); err != nil {
		return fmt.Errorf("RECOMMEND_TARGET_USERS is invalid: %w", err)
	}

	if c.Recommend.EvaluateInterval > 0 && c.Recommend.EvaluateInterval < minEvaluateInterval {
		return fmt.Errorf("RECOMMEND_EVALUATE_INTERVAL must be 0 or at least %v", minEvaluateInterval)
	}

	return c.EngineConfig().Validate()
}

// minEvaluateInterval keeps periodic evaluation from running back to back.
const minEvaluateInterval = time.Minute

// Rate limit constants
const (
	minRateLimitRequests = 1           // Minimum 1 request allowed
	maxRateLimitRequests = 100000      // Maximum 100K requests per window
	minRateLimitWindow   = time.Second // Minimum 1 second window
	maxRateLimitWindow   = time.Hour   // Maximum 1 hour window
)

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Server.RateLimitDisabled {
		return nil
	}

	if c.Server.RateLimitReqs < minRateLimitRequests || c.Server.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Server.RateLimitWindow < minRateLimitWindow || c.Server.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// HasWildcardCORS reports whether any origin is allowed.
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Server.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}
