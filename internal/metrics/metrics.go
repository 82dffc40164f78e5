// Cinematch - User-Based Collaborative Filtering for Movie Ratings
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/cinematch/internal/recommend"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	DatasetRatings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_ratings",
			Help: "Number of ratings in the last imported dataset",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Pipeline Metrics
	PipelineInteractions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_interactions",
			Help: "Interactions seen by the last filter run",
		},
		[]string{"stage"}, // "before", "after"
	)

	PipelineMatrixSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "pipeline_matrix_size",
			Help: "Dimensions of the last rating matrix built per imputation policy",
		},
		[]string{"imputation", "axis"}, // axis: "users", "movies"
	)

	PipelineEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_evaluations_total",
			Help: "Total number of RMSE evaluations",
		},
		[]string{"target"},
	)

	PipelineRMSE = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_rmse",
			Help:    "Distribution of RMSE values per evaluation",
			Buckets: []float64{0.25, 0.5, 0.75, 1, 1.25, 1.5, 2, 3, 5},
		},
		[]string{"target"},
	)

	// Engine Metrics
	FitDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "engine_fit_duration_seconds",
			Help:    "Duration of model fits in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	FitTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_fits_total",
			Help: "Total number of model fits by outcome",
		},
		[]string{"result"}, // "success" or an error kind
	)

	ModelUsers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_model_users",
			Help: "Users in the fitted model",
		},
	)

	ModelMovies = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "engine_model_movies",
			Help: "Movies in the fitted model",
		},
	)

	EvaluationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_runs_total",
			Help: "Total number of evaluation runs by outcome",
		},
		[]string{"result"},
	)

	EvaluationLastRMSE = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "evaluation_last_rmse",
			Help: "Pooled RMSE of the last successful evaluation run",
		},
	)

	EvaluationSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "evaluation_skipped_users_total",
			Help: "Users skipped during evaluation runs by error kind",
		},
		[]string{"kind"},
	)

	RunsStored = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "store_runs_saved_total",
			Help: "Total number of evaluation runs persisted",
		},
	)

	// Cache Metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_lookups_total",
			Help: "Response cache lookups by cache and result (hit, miss)",
		},
		[]string{"cache", "result"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records a response cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordFit records a model fit and, on success, the fitted model size.
func RecordFit(duration time.Duration, status recommend.Status, err error) {
	FitDuration.Observe(duration.Seconds())
	if err != nil {
		FitTotal.WithLabelValues(recommend.ErrorKind(err)).Inc()
		return
	}
	FitTotal.WithLabelValues("success").Inc()
	ModelUsers.Set(float64(status.Users))
	ModelMovies.Set(float64(status.Movies))
}

// RecordEvaluationRun records the outcome of an EvaluateAll run.
func RecordEvaluationRun(summary *recommend.EvaluationSummary, err error) {
	if err != nil {
		EvaluationRuns.WithLabelValues(recommend.ErrorKind(err)).Inc()
		return
	}
	EvaluationRuns.WithLabelValues("success").Inc()
	EvaluationLastRMSE.Set(summary.RMSE)
	for kind, n := range summary.Skipped {
		EvaluationSkipped.WithLabelValues(kind).Add(float64(n))
	}
}

// PipelineObserver exports pipeline diagnostics as Prometheus metrics.
type PipelineObserver struct{}

// NewPipelineObserver creates a PipelineObserver.
func NewPipelineObserver() *PipelineObserver {
	return &PipelineObserver{}
}

// FilterApplied records the interaction counts around filtering.
func (*PipelineObserver) FilterApplied(before, after int) {
	PipelineInteractions.WithLabelValues("before").Set(float64(before))
	PipelineInteractions.WithLabelValues("after").Set(float64(after))
}

// MatrixBuilt records the matrix dimensions.
func (*PipelineObserver) MatrixBuilt(policy recommend.Imputation, rows, cols int) {
	PipelineMatrixSize.WithLabelValues(policy.String(), "users").Set(float64(rows))
	PipelineMatrixSize.WithLabelValues(policy.String(), "movies").Set(float64(cols))
}

// Evaluated records one RMSE observation.
func (*PipelineObserver) Evaluated(target string, rmse float64) {
	PipelineEvaluations.WithLabelValues(target).Inc()
	PipelineRMSE.WithLabelValues(target).Observe(rmse)
}

var _ recommend.Observer = (*PipelineObserver)(nil)
