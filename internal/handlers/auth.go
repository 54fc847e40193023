// internal/handlers/auth.go
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/davalosm/papeleria-pos/internal/core/domain"
	"github.com/davalosm/papeleria-pos/internal/core/ports"
	"github.com/davalosm/papeleria-pos/internal/handlers/middleware"
)

// AuthHandler handles login and session introspection. Successful logins
// receive a signed session token both in the response body and as an
// HttpOnly cookie.
type AuthHandler struct {
	branches   ports.BranchService
	logger     *slog.Logger
	secret     []byte
	expiration time.Duration
	cookieName string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(branches ports.BranchService, secret string, expiration time.Duration, cookieName string, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		branches:   branches,
		logger:     logger.With(slog.String("handler", "auth")),
		secret:     []byte(secret),
		expiration: expiration,
		cookieName: cookieName,
	}
}

// LoginRequest represents the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and its identity.
type LoginResponse struct {
	Token    string          `json:"token"`
	Identity domain.Identity `json:"identity"`
}

// Login handles POST /api/v1/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}

	identity, err := h.branches.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		h.logger.ErrorContext(ctx, "authentication failed",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Authentication unavailable")
		return
	}
	if identity == nil {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := h.issueToken(identity)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to sign session token",
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, "Authentication unavailable")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.cookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(h.expiration),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	h.logger.InfoContext(ctx, "session issued",
		slog.String("identity_id", identity.ID),
		slog.String("role", string(identity.Role)))

	respondJSON(w, http.StatusOK, LoginResponse{Token: token, Identity: *identity})
}

// Session handles GET /api/v1/auth/session and echoes the authenticated
// identity placed in the context by the session middleware.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFrom(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "No active session")
		return
	}
	respondJSON(w, http.StatusOK, identity)
}

func (h *AuthHandler) issueToken(identity *domain.Identity) (string, error) {
	now := time.Now()
	claims := middleware.SessionClaims{
		Name: identity.Name,
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(h.expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.secret)
}
