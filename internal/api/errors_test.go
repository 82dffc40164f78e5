// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/tomtom215/cinematch/internal/recommend"
	"github.com/tomtom215/cinematch/internal/store"
)

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", &recommend.NotFoundError{Kind: "user", ID: 7}, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("predict user 7: %w", recommend.ErrNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"no data", recommend.ErrNoData, http.StatusUnprocessableEntity, "NO_DATA"},
		{"division by zero", recommend.ErrDivisionByZero, http.StatusUnprocessableEntity, "DIVISION_BY_ZERO"},
		{"shape mismatch", recommend.ErrShapeMismatch, http.StatusBadRequest, "SHAPE_MISMATCH"},
		{"invalid argument", recommend.ErrInvalidArgument, http.StatusBadRequest, "INVALID_ARGUMENT"},
		{"not fitted", recommend.ErrNotFitted, http.StatusServiceUnavailable, "NOT_FITTED"},
		{"fit in progress", recommend.ErrFitInProgress, http.StatusConflict, "FIT_IN_PROGRESS"},
		{"run not found", fmt.Errorf("get: %w", store.ErrRunNotFound), http.StatusNotFound, "RUN_NOT_FOUND"},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout, "TIMEOUT"},
		{"canceled", context.Canceled, http.StatusServiceUnavailable, "CANCELED"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status, code, message := classifyError(tt.err)
			if status != tt.wantStatus || code != tt.wantCode {
				t.Errorf("classifyError() = %d %s, want %d %s", status, code, tt.wantStatus, tt.wantCode)
			}
			if message == "" {
				t.Error("classifyError() returned an empty message")
			}
		})
	}
}

func TestClassifyError_HidesInternalDetail(t *testing.T) {
	t.Parallel()

	_, _, message := classifyError(errors.New("open /var/lib/secret.db: permission denied"))
	if message != "Internal server error" {
		t.Errorf("message = %q leaks internal error text", message)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("a\nb\x7f"); got != `a\x0ab\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
