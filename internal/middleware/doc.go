// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package middleware provides chi-compatible HTTP middleware.

Key Components:

  - RequestID: assigns X-Request-ID and stores it in the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge per route pattern
  - Compression: gzip for clients sending Accept-Encoding: gzip

All three have the func(http.Handler) http.Handler shape expected by
chi.Router.Use:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(middleware.PrometheusMetrics)
	    r.Use(middleware.Compression)
	    r.Get("/status", handler.Status)
	})

PrometheusMetrics reads the route pattern after the wrapped handler returns,
so it must be installed on the router (or a sub-router) that does the routing.
Requests that match no route are labelled "unmatched".
*/
package middleware
