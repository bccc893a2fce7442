// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// cardforge API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cardforge/internal/handlers"
	"cardforge/internal/metrics"
	"cardforge/internal/middleware"
)

// Handlers groups the API handler sets.
type Handlers struct {
	Editor    *handlers.Editor
	Assets    *handlers.Assets
	Fonts     *handlers.Fonts
	Greetings *handlers.Greetings
}

// Options configures cross-cutting middleware.
type Options struct {
	// Metrics receives per-route request counts. May be nil.
	Metrics *metrics.Metrics

	// SecureCookies marks the CSRF cookie Secure (behind TLS).
	SecureCookies bool

	// Limiter throttles uploads, exports and generation. May be nil.
	Limiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router.
func New(h Handlers, opts Options) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.NewLogger(opts.Metrics))
	r.Use(middleware.SecureHeaders)

	// Health and metrics: no CSRF.
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	limited := func(next http.Handler) http.Handler { return next }
	if opts.Limiter != nil {
		limited = opts.Limiter.Middleware
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewCSRF(opts.SecureCookies))
		r.NotFound(notFoundHandler)

		r.Route("/editor", func(r chi.Router) {
			r.Get("/", h.Editor.State)
			r.Post("/session", h.Editor.CreateSession)
			r.Delete("/session", h.Editor.DeleteSession)
			r.Post("/commands", h.Editor.Command)
			r.Post("/orientation", h.Editor.Orientation)
			r.With(limited).Post("/background", h.Editor.Background)
			r.Delete("/background/pending", h.Editor.CancelBackground)
			r.Get("/validate", h.Editor.Validate)
			r.With(limited).Post("/export", h.Editor.Export)
		})

		r.Route("/templates/assets", func(r chi.Router) {
			r.Get("/", h.Assets.List)
			r.With(limited).Post("/", h.Assets.Upload)
			r.Get("/{id}", h.Assets.Get)
			r.Delete("/{id}", h.Assets.Delete)
		})

		r.Route("/fonts", func(r chi.Router) {
			r.Get("/", h.Fonts.List)
			r.Get("/stylesheet", h.Fonts.Stylesheet)
			r.Post("/refresh", h.Fonts.Refresh)
		})

		r.Route("/greetings", func(r chi.Router) {
			r.With(limited).Post("/single", h.Greetings.Single)
			r.With(limited).Post("/bulk", h.Greetings.Bulk)
			r.Get("/providers", h.Greetings.Providers)
			r.Put("/providers/active", h.Greetings.SetProvider)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// notFoundHandler answers unknown API paths with a JSON 404.
func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":"Not Found"}`))
}
