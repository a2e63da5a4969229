// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

// Package metrics provides Prometheus instrumentation for the learning
// engine, its storage backends, and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Learning Engine Metrics
	ObservationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viral_observations_total",
			Help: "Total number of content performance observations processed",
		},
	)

	PatternsLearnedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viral_patterns_learned_total",
			Help: "Total number of patterns extracted, by dimension and outcome",
		},
		[]string{"dimension", "outcome"}, // outcome: "new", "updated"
	)

	PatternsStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "viral_patterns_stored",
			Help: "Current number of patterns in the store",
		},
	)

	PatternEvictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viral_pattern_evictions_total",
			Help: "Total number of patterns evicted at store capacity",
		},
	)

	SweepRemovedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viral_sweep_removed_total",
			Help: "Total number of patterns removed by the retention sweep",
		},
	)

	PredictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "viral_predictions_total",
			Help: "Total number of viral potential predictions served",
		},
	)

	// Storage Metrics
	SnapshotErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viral_snapshot_errors_total",
			Help: "Total number of snapshot failures, by operation",
		},
		[]string{"operation"}, // "save", "load"
	)

	// API Metrics
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
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
