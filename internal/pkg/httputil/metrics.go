package httputil

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dkotenko/stock-sentry/internal/pkg/metrics"
	"github.com/go-chi/chi/v5"
)

// MetricsMiddleware records HTTP request metrics.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap ResponseWriter to capture status code
		wrapped := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		// Get route pattern (not actual path) to avoid cardinality explosion
		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unknown"
		}

		duration := time.Since(start).Seconds()

		metrics.HTTPRequestDuration.WithLabelValues(
			r.Method,
			routePattern,
			strconv.Itoa(wrapped.statusCode),
		).Observe(duration)
	})
}

type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap returns the underlying ResponseWriter for middleware compatibility.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
