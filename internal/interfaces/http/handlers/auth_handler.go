package handlers

import (
	"net/http"

	"github.com/adsforge/adsforge/internal/application/accounts"
	"github.com/adsforge/adsforge/internal/infrastructure/monitoring/logging"
)

// AuthHandler exposes registration, login, and token refresh.
type AuthHandler struct {
	accounts *accounts.Service
	log      logging.Logger
}

// NewAuthHandler wires the accounts service.
func NewAuthHandler(accounts *accounts.Service, log logging.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, log: log}
}

// Register handles POST /api/v1/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in accounts.RegisterInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	u, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in accounts.LoginInput
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	res, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Logout handles POST /api/v1/auth/logout.  Tokens are stateless and simply
// expire; the endpoint gives clients a uniform place to end a session and
// lets the access log record it.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNoContent, nil)
}

// Refresh handles POST /api/v1/auth/refresh.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeBody(r, &in); err != nil {
		writeError(w, h.log, err)
		return
	}
	if in.RefreshToken == "" {
		writeBadRequest(w, "refresh_token is required")
		return
	}
	res, err := h.accounts.Refresh(r.Context(), in.RefreshToken)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
