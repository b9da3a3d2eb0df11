// Package middleware contains the HTTP middleware chain: authentication,
// CORS, request logging, and rate limiting.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/domain/user"
	"github.com/adsforge/adsforge/internal/infrastructure/auth/jwt"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/pkg/errors"
)

// contextKey is unexported to prevent collisions with other packages.
type contextKey int

const (
	userIDContextKey contextKey = iota
	claimsContextKey
)

// AuthMiddleware authenticates requests with Bearer access tokens.
type AuthMiddleware struct {
	tokens *jwt.Manager
	log    logging.Logger
}

// NewAuthMiddleware wires the token manager.
func NewAuthMiddleware(tokens *jwt.Manager, log logging.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, log: log}
}

// Handler rejects requests without a valid access token and injects the
// authenticated user into the request context.
func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthorized(w)
			return
		}

		claims, err := m.tokens.Validate(token, jwt.KindAccess)
		if err != nil {
			unauthorized(w)
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			unauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, userID)
		ctx = context.WithValue(ctx, claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole wraps a handler to additionally require a role.
func (m *AuthMiddleware) RequireRole(role user.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ContextGetClaims(r.Context())
			if claims == nil || claims.Role != role {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"code":"` + string(errors.ErrCodeForbidden) + `","message":"forbidden"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"code":"` + string(errors.ErrCodeUnauthorized) + `","message":"unauthorized"}`))
}

// ContextGetUserID returns the authenticated user's ID, or uuid.Nil.
func ContextGetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(userIDContextKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// ContextGetClaims returns the token claims, or nil.
func ContextGetClaims(ctx context.Context) *jwt.Claims {
	if c, ok := ctx.Value(claimsContextKey).(*jwt.Claims); ok {
		return c
	}
	return nil
}
