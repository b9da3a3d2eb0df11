// Package jwt issues and validates the platform's access and refresh tokens.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/config"
	"github.com/adsforge/adsforge/internal/domain/user"
	"github.com/adsforge/adsforge/pkg/errors"
)

// TokenKind separates access tokens from refresh tokens so one cannot be
// replayed as the other.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the JWT claim set carried by every token.
type Claims struct {
	jwt.RegisteredClaims
	Kind  TokenKind `json:"kind"`
	Email string    `json:"email"`
	Role  user.Role `json:"role"`
}

// TokenPair is what a successful login returns.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Manager signs and verifies tokens with an HMAC secret.
type Manager struct {
	secret     []byte
	issuer     string
	tokenTTL   time.Duration
	refreshTTL time.Duration
}

// NewManager builds a Manager from auth config.
func NewManager(cfg config.AuthConfig) *Manager {
	return &Manager{
		secret:     []byte(cfg.JWTSecret),
		issuer:     cfg.Issuer,
		tokenTTL:   cfg.TokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
	}
}

// Issue creates an access/refresh token pair for u.
func (m *Manager) Issue(u *user.User) (*TokenPair, error) {
	now := time.Now().UTC()
	accessExpiry := now.Add(m.tokenTTL)

	access, err := m.sign(u, KindAccess, now, accessExpiry)
	if err != nil {
		return nil, err
	}
	refresh, err := m.sign(u, KindRefresh, now, now.Add(m.refreshTTL))
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh, ExpiresAt: accessExpiry}, nil
}

func (m *Manager) sign(u *user.User, kind TokenKind, issuedAt, expiresAt time.Time) (string, error) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   u.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
		Kind:  kind,
		Email: u.Email,
		Role:  u.Role,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternal, "failed to sign token")
	}
	return token, nil
}

// Validate parses tokenString and checks signature, expiry, issuer, and kind.
func (m *Manager) Validate(tokenString string, kind TokenKind) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.Unauthorized("unexpected signing method")
			}
			return m.secret, nil
		},
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUnauthorized, "invalid token")
	}
	if !token.Valid {
		return nil, errors.Unauthorized("invalid token")
	}
	if claims.Kind != kind {
		return nil, errors.Unauthorized("wrong token kind")
	}
	return claims, nil
}

// UserID extracts the subject as a UUID.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, errors.Unauthorized("malformed token subject")
	}
	return id, nil
}
