package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AdminTokenTTL is the lifetime of an admin session token
const AdminTokenTTL = 2 * time.Hour

type JWTService struct {
	secretKey           string
	accessTokenDuration time.Duration
}

// NewJWTService creates a new JWT service
func NewJWTService(secretKey string) *JWTService {
	return &JWTService{
		secretKey:           secretKey,
		accessTokenDuration: AdminTokenTTL,
	}
}

// GenerateAccessToken generates a new access token
func (s *JWTService) GenerateAccessToken(claims *TokenClaims) (string, int64, error) {
	now := time.Now()
	expiresAt := now.Add(s.accessTokenDuration)

	jwtClaims := jwt.MapClaims{
		"sub":   claims.Email,
		"email": claims.Email,
		"role":  claims.Role,
		"exp":   expiresAt.Unix(),
		"iat":   now.Unix(),
		"nbf":   now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", 0, fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, int64(s.accessTokenDuration.Seconds()), nil
}

// ValidateAccessToken validates an access token and returns claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.secretKey), nil
	}, jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}

	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &TokenClaims{
		Email: email,
		Role:  role,
	}, nil
}
