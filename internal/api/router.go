// ViralForge - Viral Content Pattern Learning and Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/viralforge

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/viralforge/internal/middleware"
)

// RouterConfig carries the HTTP-surface tunables the router needs.
type RouterConfig struct {
	// RateLimitReqs is the per-IP request budget per RateLimitWindow.
	// Zero disables rate limiting.
	RateLimitReqs int

	// RateLimitWindow is the rate limit accounting window.
	RateLimitWindow time.Duration
}

// NewRouter assembles the full HTTP handler: global middleware, the API
// routes, and the operational endpoints.
func NewRouter(handler *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.RateLimitReqs > 0 {
			r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		}

		r.Post("/learn", handler.Learn)
		r.Post("/predict", handler.Predict)
		r.Post("/optimize", handler.Optimize)
		r.Post("/predictions/outcome", handler.PredictionOutcome)

		r.Get("/insights", handler.Insights)
		r.Get("/status", handler.Status)

		r.Route("/patterns", func(r chi.Router) {
			r.Get("/", handler.Patterns)
			r.Post("/export", handler.ExportPatterns)
			r.Post("/import", handler.ImportPatterns)
		})
	})

	// Operational endpoints sit outside the rate-limited API tree so
	// monitoring never gets throttled.
	r.Get("/healthz", handler.Healthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}
