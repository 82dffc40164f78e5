// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package algorithms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// ErrUnknownMetric is returned by Lookup for an unregistered metric name.
var ErrUnknownMetric = errors.New("unknown similarity metric")

type factory func(numWorkers int) func(ctx context.Context, vectors *mat.Dense) (*mat.SymDense, error)

var registry = map[string]factory{
	"cosine":  Cosine,
	"pearson": Pearson,
}

// Lookup returns the metric registered under name (case-insensitive).
func Lookup(name string, numWorkers int) (func(ctx context.Context, vectors *mat.Dense) (*mat.SymDense, error), error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrUnknownMetric, name, strings.Join(Names(), ", "))
	}
	return f(numWorkers), nil
}

// Names returns the registered metric names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
