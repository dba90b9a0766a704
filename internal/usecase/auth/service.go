package auth

import (
	"context"
	"fmt"

	"github.com/frontandrew/fleet/internal/domain"
	"github.com/frontandrew/fleet/internal/pkg/hash"
	"github.com/frontandrew/fleet/internal/pkg/jwt"
	"github.com/frontandrew/fleet/internal/pkg/logger"
)

const (
	// AdminSubject - субъект токена единственного оператора
	AdminSubject = "admin"
	// AdminRole - роль оператора
	AdminRole = "admin"
)

// LoginRequest - запрос на вход
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse - ответ на вход
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   string `json:"expires_at"`
}

// Service содержит бизнес-логику аутентификации оператора
type Service struct {
	passwordHash string
	tokenService *jwt.TokenService
	logger       logger.Logger
}

// NewService создает новый экземпляр auth.Service. passwordHash - bcrypt-хеш пароля оператора.
func NewService(passwordHash string, tokenService *jwt.TokenService, logger logger.Logger) *Service {
	return &Service{
		passwordHash: passwordHash,
		tokenService: tokenService,
		logger:       logger,
	}
}

// ResolvePasswordHash возвращает готовый хеш или хеширует пароль в открытом виде
func ResolvePasswordHash(password, passwordHash string) (string, error) {
	if passwordHash != "" {
		return passwordHash, nil
	}
	return hash.HashPassword(password)
}

// Login проверяет пароль оператора и выдает токен доступа
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if req.Password == "" || !hash.CheckPassword(s.passwordHash, req.Password) {
		s.logger.Warn("Failed login attempt")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokenService.GenerateToken(AdminSubject, AdminRole)
	if err != nil {
		s.logger.Error("Failed to generate token", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.Info("Operator logged in")

	return &LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt.Format("2006-01-02T15:04:05Z07:00"),
	}, nil
}

// ValidateToken проверяет токен доступа
func (s *Service) ValidateToken(tokenString string) (*jwt.Claims, error) {
	return s.tokenService.ValidateToken(tokenString)
}
