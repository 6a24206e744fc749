// StreamCompare - Streaming Service Comparison and Bundle Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamcompare

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/streamcompare/internal/middleware"
)

// Router wires handlers and middleware into a Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	maxBodyBytes  int64
}

// NewRouter creates a router. maxBodyBytes <= 0 disables the body limit.
func NewRouter(handler *Handler, mw *ChiMiddleware, maxBodyBytes int64) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: mw,
		maxBodyBytes:  maxBodyBytes,
	}
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).MethodNotAllowed()
	})

	// Health probes skip rate limiting so orchestrators can poll freely
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.Compression))
		if router.maxBodyBytes > 0 {
			r.Use(chiMiddleware(middleware.MaxBodySize(router.maxBodyBytes)))
		}

		r.Post("/recommendations", router.handler.Recommendations)
		r.Post("/recommendations/services", router.handler.ServiceRecommendations)
		r.Post("/recommendations/bundles", router.handler.BundleRecommendations)

		r.Get("/services", router.handler.ListServices)
		r.Get("/services/{id}", router.handler.GetService)
		r.Get("/channels", router.handler.ListChannels)
		r.Get("/channels/categories", router.handler.ListCategories)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
