// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package recommend

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below match these via errors.Is.
var (
	// ErrNotFound indicates an entity id is absent from a matrix index.
	ErrNotFound = errors.New("not found")

	// ErrNoData indicates a row or column has no present values to derive a value from.
	ErrNoData = errors.New("no data")

	// ErrDivisionByZero indicates the similarity weights of a prediction sum to zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrShapeMismatch indicates two inputs that must align do not.
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrInvalidArgument indicates a parameter outside its valid range.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrNotFitted indicates the engine has no fitted model yet.
	ErrNotFitted = errors.New("engine not fitted")

	// ErrFitInProgress indicates a concurrent Fit call.
	ErrFitInProgress = errors.New("fit already in progress")
)

// NotFoundError reports an id missing from an index.
type NotFoundError struct {
	// Kind is the index that was searched (e.g., "user", "movie").
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

// Is reports whether target is ErrNotFound.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NoDataError reports a row or column without present values.
type NoDataError struct {
	// Axis is "row" or "column".
	Axis string
	ID   int
	// Reason describes what could not be computed.
	Reason string
}

func (e *NoDataError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s %d has no present values", e.Axis, e.ID)
	}
	return fmt.Sprintf("%s %d has no present values: %s", e.Axis, e.ID, e.Reason)
}

// Is reports whether target is ErrNoData.
func (e *NoDataError) Is(target error) bool {
	return target == ErrNoData
}

// DivisionByZeroError reports a zero similarity-weight denominator for a column.
type DivisionByZeroError struct {
	MovieID int
	// Contributors is the number of neighbors that rated the movie.
	Contributors int
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("movie %d: similarity weights of %d contributing neighbors sum to zero",
		e.MovieID, e.Contributors)
}

// Is reports whether target is ErrDivisionByZero.
func (e *DivisionByZeroError) Is(target error) bool {
	return target == ErrDivisionByZero
}

// ShapeMismatchError reports inputs whose lengths or dimensions disagree.
type ShapeMismatchError struct {
	What string
	Want int
	Got  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("%s: want %d, got %d", e.What, e.Want, e.Got)
}

// Is reports whether target is ErrShapeMismatch.
func (e *ShapeMismatchError) Is(target error) bool {
	return target == ErrShapeMismatch
}

// InvalidArgumentError reports a parameter outside its valid range.
type InvalidArgumentError struct {
	Name   string
	Value  interface{}
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Name, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidArgument.
func (e *InvalidArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// ErrorKind returns a short, stable label for the error family of err.
// Used as a metrics label and in API error codes.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoData):
		return "no_data"
	case errors.Is(err, ErrDivisionByZero):
		return "division_by_zero"
	case errors.Is(err, ErrShapeMismatch):
		return "shape_mismatch"
	case errors.Is(err, ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, ErrNotFitted):
		return "not_fitted"
	case errors.Is(err, ErrFitInProgress):
		return "fit_in_progress"
	default:
		return "internal"
	}
}
