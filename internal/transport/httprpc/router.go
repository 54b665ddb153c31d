package httprpc

import (
	"net/http"
	"time"

	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
)

// Route is one RPC registration: a method-prefixed pattern (Go 1.22
// net/http.ServeMux syntax, e.g. "POST /v1/start_upload") and its handler.
type Route struct {
	Pattern string
	Handler http.HandlerFunc
}

// NewMux builds a ServeMux from routes, wrapping every handler with a
// request-scoped logger and Prometheus instrumentation. health and metrics endpoints are
// registered unwrapped since they're not RPCs.
func NewMux(routes []Route, healthHandler, readyHandler, metricsHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", healthHandler)
	mux.Handle("GET /health/ready", readyHandler)
	mux.Handle("GET /metrics", metricsHandler)

	for _, route := range routes {
		mux.HandleFunc(route.Pattern, instrument(route.Pattern, route.Handler))
	}

	return mux
}

// instrument wraps a handler with the request-scoped logger, a request ID,
// and the shared HTTP metrics, following the same normalize-path-then-record
// shape the rest of this codebase uses for its HTTP surface.
func instrument(pattern string, next http.HandlerFunc) http.HandlerFunc {
	method, path := splitPattern(pattern)
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := logger.WithRequestID(r.Context(), requestIDFromHeader(r))
		r = r.WithContext(ctx)

		metrics.HTTPRequestsInFlight.WithLabelValues(method).Inc()
		defer metrics.HTTPRequestsInFlight.WithLabelValues(method).Dec()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		status := http.StatusText(rec.status)
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(method, path, status).Observe(time.Since(start).Seconds())
	}
}

func splitPattern(pattern string) (method, path string) {
	for i := range pattern {
		if pattern[i] == ' ' {
			return pattern[:i], metrics.NormalizePath(pattern[i+1:])
		}
	}
	return "", metrics.NormalizePath(pattern)
}

func requestIDFromHeader(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return ""
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
