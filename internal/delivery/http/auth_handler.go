package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/frontandrew/fleet/internal/delivery/http/middleware"
	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/logger"
	"github.com/frontandrew/fleet/internal/usecase/auth"
)

// AuthService определяет интерфейс для сервиса аутентификации
type AuthService interface {
	Login(ctx context.Context, req *auth.LoginRequest) (*auth.LoginResponse, error)
}

// AuthHandler обрабатывает запросы аутентификации
type AuthHandler struct {
	authService AuthService
	logger      logger.Logger
}

// NewAuthHandler создает новый handler
func NewAuthHandler(authService AuthService, logger logger.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login обрабатывает вход оператора
// POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req auth.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	response, err := h.authService.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			respondError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		h.logger.Error("Failed to login", map[string]interface{}{
			"error": err.Error(),
		})
		respondError(w, http.StatusInternalServerError, "Failed to login")
		return
	}

	respondSuccess(w, http.StatusOK, response)
}

// Verify подтверждает, что токен действителен
// GET /api/v1/auth/verify
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetClaims(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	data := map[string]interface{}{
		"subject": claims.Subject,
		"role":    claims.Role,
	}
	if claims.ExpiresAt != nil {
		data["expires_at"] = claims.ExpiresAt.Time
	}

	respondSuccess(w, http.StatusOK, data)
}
