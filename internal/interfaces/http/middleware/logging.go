package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
)

// LoggingMiddleware logs each request and records HTTP metrics.
type LoggingMiddleware struct {
	log       logging.Logger
	metrics   *prometheus.AppMetrics
	skipPaths map[string]bool
}

// NewLoggingMiddleware wires the logger; metrics may be nil.  Health and
// metrics endpoints are skipped to keep the logs readable.
func NewLoggingMiddleware(log logging.Logger, metrics *prometheus.AppMetrics) *LoggingMiddleware {
	return &LoggingMiddleware{
		log:     log,
		metrics: metrics,
		skipPaths: map[string]bool{
			"/healthz": true,
			"/readyz":  true,
			"/metrics": true,
		},
	}
}

// Handler wraps the response writer to capture status and duration.
func (m *LoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.skipPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		if m.metrics != nil {
			inflight := m.metrics.HTTPActiveRequests.WithLabelValues(r.Method)
			inflight.Inc()
			defer inflight.Dec()
		}

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		if reqID := chimw.GetReqID(r.Context()); reqID != "" {
			ww.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(ww, r)

		duration := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		fields := []logging.Field{
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.Int("bytes", ww.BytesWritten()),
			logging.String("request_id", chimw.GetReqID(r.Context())),
			logging.String("remote", r.RemoteAddr),
		}
		switch {
		case status >= 500:
			m.log.Error("http request", fields...)
		case status >= 400:
			m.log.Warn("http request", fields...)
		default:
			m.log.Info("http request", fields...)
		}

		if m.metrics != nil {
			m.metrics.RecordHTTPRequest(r.Method, routePattern(r), status, duration)
		}
	})
}

// routePattern prefers the chi route template over the raw path so metric
// cardinality stays bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
