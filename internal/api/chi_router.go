// Fuze - Semantic Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/Ujjwaljain16/Fuze-sub001

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ujjwaljain16/Fuze-sub001/internal/middleware"
)

// NewRouter configures all HTTP routes.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // must be global to answer OPTIONS preflight
	r.Use(middleware.PrometheusMetrics)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	// ========================
	// Operational Endpoints
	// ========================
	r.With(mw.RateLimitHealth()).Get("/health", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	// ========================
	// API v1
	// ========================
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())

		r.Post("/recommendations", h.Recommendations)
		r.Post("/invalidations", h.Invalidate)

		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/dashboard", h.Dashboard)
			r.Get("/quota", h.Quota)

			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimitWrite())
				r.Post("/items", h.IngestItem)
				r.Put("/credential", h.PutCredential)
				r.Delete("/credential", h.DeleteCredential)
			})
			r.Get("/credential", h.GetCredential)
		})
	})

	return r
}
