package auth

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/rs/zerolog/log"
)

// Service authenticates the single desk operator configured through
// ADMIN_EMAIL and ADMIN_PASSWORD.
type Service struct {
	adminEmail    string
	adminPassword string
	jwtService    *JWTService
}

// NewService creates a new auth service. Without a JWT secret a random one
// is generated, so tokens do not survive a restart.
func NewService(adminEmail, adminPassword, jwtSecret string) *Service {
	if jwtSecret == "" {
		buf := make([]byte, 32)
		_, _ = rand.Read(buf)
		jwtSecret = hex.EncodeToString(buf)
		log.Warn().Msg("⚠️ JWT_SECRET is empty, using an ephemeral secret")
	}
	if adminEmail == "" || adminPassword == "" {
		log.Warn().Msg("⚠️ ADMIN_EMAIL or ADMIN_PASSWORD not set, admin login is disabled")
	}

	return &Service{
		adminEmail:    strings.TrimSpace(adminEmail),
		adminPassword: adminPassword,
		jwtService:    NewJWTService(jwtSecret),
	}
}

// Login checks the credentials and issues an admin token
func (s *Service) Login(req *LoginRequest) (*LoginResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, apperr.Validation("email and password are required")
	}

	if s.adminEmail == "" ||
		!strings.EqualFold(strings.TrimSpace(req.Email), s.adminEmail) ||
		!MatchConfiguredPassword(s.adminPassword, req.Password) {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	token, expiresIn, err := s.jwtService.GenerateAccessToken(&TokenClaims{Email: s.adminEmail, Role: RoleAdmin})
	if err != nil {
		return nil, apperr.Internal("failed to issue token", err)
	}

	return &LoginResponse{Success: true, Token: token, ExpiresIn: expiresIn}, nil
}

// ValidateToken validates a JWT token
func (s *Service) ValidateToken(token string) (*TokenClaims, error) {
	return s.jwtService.ValidateAccessToken(token)
}
