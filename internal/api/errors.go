// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/store"
)

// errorStatus maps engine error kinds to HTTP status codes.
var errorStatus = map[string]int{
	"not_found":        http.StatusNotFound,
	"invalid_argument": http.StatusBadRequest,
	"shape_mismatch":   http.StatusBadRequest,
	"no_data":          http.StatusUnprocessableEntity,
	"division_by_zero": http.StatusUnprocessableEntity,
	"not_fitted":       http.StatusServiceUnavailable,
	"fit_in_progress":  http.StatusConflict,
}

// classifyError returns the HTTP status, API error code and client message
// for an error raised while serving a request.
func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, store.ErrRunNotFound):
		return http.StatusNotFound, "RUN_NOT_FOUND", "Evaluation run not found"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "TIMEOUT", "Request timed out"
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, "CANCELED", "Request canceled"
	}

	kind := recommend.ErrorKind(err)
	if status, ok := errorStatus[kind]; ok {
		// Engine errors carry ids and counts only, safe to return verbatim.
		return status, strings.ToUpper(kind), err.Error()
	}
	return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
}
