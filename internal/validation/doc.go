// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide. Besides the built-in
// tags it understands:
//
//   - similarity: the name of a registered similarity metric
//   - mean_source: neighbors or global
//   - imputation: none, zero or mean
//
// Field names in errors come from json tags (API requests) or koanf tags
// (configuration), so messages match what the caller actually wrote:
//
//	type neighborsRequest struct {
//	    UserID int `json:"user_id" validate:"gte=0"`
//	    N      int `json:"n" validate:"gte=0,lte=1000"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
