// internal/api/handler/auth.go
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"medalbank/internal/api/types"
	"medalbank/internal/domain"
	"medalbank/internal/service"
	"medalbank/internal/util"
)

// AuthHandler handles HTTP requests for the placeholder identity layer.
type AuthHandler struct {
	base
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc service.AuthService, logger *slog.Logger, development bool) *AuthHandler {
	return &AuthHandler{
		base:    base{logger: logger, development: development},
		service: svc,
	}
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username   string `json:"username" validate:"required,max=100"`
	RememberMe bool   `json:"remember_me"`
	DeviceInfo string `json:"device_info" validate:"max=255"`
}

// Login handles the username-only login request.
// POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	if problems := util.ValidateStruct(req); problems != nil {
		h.respondWithFieldProblems(w, problems)
		return
	}

	session, err := h.service.Login(r.Context(), service.LoginInput{
		Username:   req.Username,
		RememberMe: req.RememberMe,
		DeviceInfo: req.DeviceInfo,
		IPAddress:  r.RemoteAddr,
	})
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"message":     "Login successful",
		"user":        session.User,
		"token":       session.Token,
		"session_id":  session.SessionID,
		"expires_at":  session.ExpiresAt,
		"login_count": session.LoginCount,
	})
}

// Logout acknowledges a logout. Tokens are stateless, so there is nothing to
// revoke server-side.
// POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "Logged out",
	})
}

// Me handles the token introspection request.
// GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, err := h.service.WhoAmI(r.Context(), bearerToken(r))
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	h.respondWithJSON(w, http.StatusOK, identity)
}

// LoginHistory handles the login audit trail request.
// GET /api/auth/login-history/{userID}?limit=
func (h *AuthHandler) LoginHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(chi.URLParam(r, "userID"))
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		h.respondWithError(w, util.ErrInvalidInput)
		return
	}

	records, err := h.service.LoginHistory(r.Context(), userID, limit)
	if err != nil {
		h.respondWithError(w, err)
		return
	}

	if limit == 0 {
		limit = service.DefaultLoginHistoryLimit
	}
	h.respondWithJSON(w, http.StatusOK, types.PaginatedResponse[domain.LoginRecord]{
		Data:       records,
		Limit:      limit,
		TotalCount: int64(len(records)),
	})
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
