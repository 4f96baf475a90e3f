// Package api provides the REST server for the job sync service.
package api

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	v0 "github.com/eskoubar95-tech/findjobabroad/internal/api/v0"
	"github.com/eskoubar95-tech/findjobabroad/internal/logger"
)

// SyncSecretHeader carries the shared secret on sync trigger requests.
const SyncSecretHeader = "X-Sync-Secret"

// ServerOption configures the API server
type ServerOption func(*serverConfig)

// serverConfig holds the server configuration
type serverConfig struct {
	middlewares []func(http.Handler) http.Handler
}

// WithMiddlewares adds middleware to the server
func WithMiddlewares(mw ...func(http.Handler) http.Handler) ServerOption {
	return func(cfg *serverConfig) {
		cfg.middlewares = append(cfg.middlewares, mw...)
	}
}

// NewServer creates and configures the HTTP router. syncSecret guards the
// sync trigger and audit endpoints; an empty secret rejects every trigger.
func NewServer(routes *v0.Routes, syncSecret string, opts ...ServerOption) *chi.Mux {
	cfg := &serverConfig{
		middlewares: []func(http.Handler) http.Handler{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	r := chi.NewRouter()
	for _, mw := range cfg.middlewares {
		r.Use(mw)
	}

	// Health and version endpoints at root
	r.Mount("/", v0.HealthRouter(routes))

	// Public apply redirect
	r.Get("/jobs/{slug}/apply", routes.ApplyRedirect)

	// Secret-guarded sync endpoints
	r.Group(func(r chi.Router) {
		r.Use(SyncSecretMiddleware(syncSecret))
		r.Mount("/api/v0", v0.Router(routes))
	})

	return r
}

// SyncSecretMiddleware rejects requests whose shared-secret header does not
// match. A server with no secret configured rejects everything rather than
// running open.
func SyncSecretMiddleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get(SyncSecretHeader)
			if secret == "" ||
				subtle.ConstantTimeCompare([]byte(supplied), []byte(secret)) != 1 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"unauthorized"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		logger.Debugf("HTTP %s %s %d %s %s",
			r.Method,
			r.URL.Path,
			ww.Status(),
			time.Since(start),
			middleware.GetReqID(r.Context()),
		)
	})
}
