// LikeMinds - Find Your Circle on Bluesky
// Copyright 2026 LikeMinds contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/compmotifs/likeminds

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/compmotifs/likeminds/internal/config"
	"github.com/compmotifs/likeminds/internal/middleware"
)

// NewRouter builds the HTTP handler tree.
func NewRouter(handler *Handler, cfg *config.APIConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		MaxAge:         86400,
	}))
	r.Use(middleware.AccessLog)

	// Health endpoints get permissive rate limiting so monitors can poll
	// frequently without tripping limits.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, cfg.RateLimitWindow))
		r.Get("/live", handler.HealthLive)
		r.Get("/ready", handler.HealthReady)
	})

	// Recommendation endpoints carry the full crawl cost per request, so
	// the configured limit applies.
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(httprate.LimitByIP(cfg.RateLimitReqs, cfg.RateLimitWindow))
		r.Use(middleware.Prometheus)
		r.Post("/", handler.Recommendations)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
