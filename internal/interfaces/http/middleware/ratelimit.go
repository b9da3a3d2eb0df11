package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/infrastructure/database/redis"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// RateLimitMiddleware throttles requests per authenticated user, falling back
// to the client IP for anonymous endpoints.
type RateLimitMiddleware struct {
	limiter *redis.RateLimiter
	log     logging.Logger
}

// NewRateLimitMiddleware wires the shared Redis limiter.
func NewRateLimitMiddleware(limiter *redis.RateLimiter, log logging.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{limiter: limiter, log: log}
}

// Handler rejects over-limit requests with 429.  Limiter errors are logged
// and the request allowed through; throttling is not worth an outage.
func (m *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r)
		allowed, err := m.limiter.Allow(r.Context(), key)
		if err != nil {
			m.log.Warn("rate limiter unavailable", logging.Err(err))
		}
		if !allowed {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"code":"` + string(errors.ErrCodeTooManyRequests) + `","message":"rate limit exceeded"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientKey prefers the authenticated user so NAT'd clients are not lumped
// together.
func clientKey(r *http.Request) string {
	if id := ContextGetUserID(r.Context()); id != uuid.Nil {
		return "user:" + id.String()
	}
	return "ip:" + r.RemoteAddr
}
