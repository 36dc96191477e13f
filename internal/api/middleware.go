package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"flowpro/pkg/logger"
	"flowpro/pkg/metrics"
)

// requestLogger logs every request and records its metrics after completion
func requestLogger(log logger.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			duration := time.Since(start)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			log.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", duration.Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
			if m != nil {
				m.RecordHTTPRequest(r.Method, routePattern(r), strconv.Itoa(status), duration)
			}
		})
	}
}

// routePattern returns the chi route template so metrics label cardinality
// stays bounded
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}

// rateLimit applies a process-wide token bucket. A zero limit disables it.
func rateLimit(log logger.Logger, limit float64, burst int) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	limiter := rate.NewLimiter(rate.Limit(limit), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				respondJSON(w, log, http.StatusTooManyRequests, errorResponse{
					Error: errorBody{
						Type:    "rate_limited",
						Code:    "rate_limited",
						Message: "rate limit exceeded",
					},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
