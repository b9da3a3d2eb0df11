// Package accounts implements registration, login, and token refresh.
package accounts

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/adsforge/adsforge/internal/domain/user"
	"github.com/adsforge/adsforge/internal/infrastructure/auth/jwt"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/prometheus"
	"github.com/adsforge/adsforge/pkg/errors"
)

// RegisterInput creates a new account.
type RegisterInput struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// LoginInput authenticates an existing account.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is returned from login and refresh.
type AuthResult struct {
	User   *user.User     `json:"user"`
	Tokens *jwt.TokenPair `json:"tokens"`
}

// Service handles account lifecycle and authentication.
type Service struct {
	users   user.Repository
	tokens  *jwt.Manager
	hasher  *jwt.Hasher
	metrics *prometheus.AppMetrics
	log     logging.Logger
}

// NewService wires the account dependencies.  metrics may be nil.
func NewService(users user.Repository, tokens *jwt.Manager, hasher *jwt.Hasher, metrics *prometheus.AppMetrics, log logging.Logger) *Service {
	return &Service{users: users, tokens: tokens, hasher: hasher, metrics: metrics, log: log}
}

// Register creates a member account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, errors.InvalidParam("a valid email is required")
	}
	if len(in.Password) < 8 {
		return nil, errors.InvalidParam("password must be at least 8 characters")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		DisplayName:  strings.TrimSpace(in.DisplayName),
		PasswordHash: hash,
		Role:         user.RoleMember,
		Status:       user.StatusActive,
	}
	if u.DisplayName == "" {
		u.DisplayName = email
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("account registered", logging.String("user_id", u.ID.String()))
	return u, nil
}

// Login verifies credentials and issues tokens.
func (s *Service) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		s.countAuth(false)
		// Same response for unknown email and wrong password.
		return nil, errors.Unauthorized("invalid credentials")
	}
	if !u.Active() {
		s.countAuth(false)
		return nil, errors.Unauthorized("account disabled")
	}
	if err := s.hasher.Compare(u.PasswordHash, in.Password); err != nil {
		s.countAuth(false)
		return nil, errors.Unauthorized("invalid credentials")
	}

	pair, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	if err := s.users.RecordLogin(ctx, u.ID); err != nil {
		s.log.Warn("failed to record login", logging.Err(err))
	}

	s.countAuth(true)
	return &AuthResult{User: u, Tokens: pair}, nil
}

// Refresh exchanges a refresh token for a new token pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	claims, err := s.tokens.Validate(refreshToken, jwt.KindRefresh)
	if err != nil {
		return nil, err
	}
	id, err := claims.UserID()
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, errors.Unauthorized("account no longer exists")
	}
	if !u.Active() {
		return nil, errors.Unauthorized("account disabled")
	}

	pair, err := s.tokens.Issue(u)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Tokens: pair}, nil
}

func (s *Service) countAuth(success bool) {
	if s.metrics == nil {
		return
	}
	result := "success"
	if !success {
		result = "failure"
	}
	s.metrics.AuthAttemptsTotal.WithLabelValues(result).Inc()
}
