// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

/*
Package api serves the collaborative filtering engine over HTTP.

Routes (chi):

	GET  /api/v1/health/live                       liveness check
	GET  /api/v1/health/ready                      503 until the DB answers and a model is fitted
	GET  /api/v1/status                            engine status and dataset statistics
	GET  /api/v1/recommendations/user/{userID}?k=  top-k unrated movies
	GET  /api/v1/neighbors/user/{userID}?n=        most similar users
	POST /api/v1/evaluations/user/{userID}         predict, score and persist a run
	GET  /api/v1/evaluations?user_id=&limit=       stored runs, newest first
	GET  /api/v1/evaluations/{runID}               one stored run
	GET  /metrics                                  Prometheus metrics

Every JSON response uses the models.APIResponse envelope. Engine errors map to
status codes by kind:

	not_found                       404
	invalid_argument, shape_mismatch 400
	no_data, division_by_zero        422
	fit_in_progress                  409
	not_fitted                       503

Everything under /api/v1 except the health checks is rate limited per client
IP with go-chi/httprate and instrumented by middleware.PrometheusMetrics.
*/
package api
