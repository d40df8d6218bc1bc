package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret")

	token, expiresIn, err := svc.GenerateAccessToken(&TokenClaims{Email: "ops@desk.test", Role: RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, int64(AdminTokenTTL.Seconds()), expiresIn)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, "ops@desk.test", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = NewJWTService("other").ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_RejectsExpiredAndUnsigned(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "ops@desk.test",
		"role":  RoleAdmin,
		"exp":   time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := expired.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret").ValidateAccessToken(signed)
	assert.Error(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": RoleAdmin})
	signed, err = noExp.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewJWTService("secret").ValidateAccessToken(signed)
	assert.Error(t, err)
}

func TestMatchConfiguredPassword(t *testing.T) {
	assert.True(t, MatchConfiguredPassword("hunter2", "hunter2"))
	assert.False(t, MatchConfiguredPassword("hunter2", "hunter3"))
	assert.False(t, MatchConfiguredPassword("", ""))

	hash, err := bcrypt.GenerateFromPassword([]byte("hunter2"), bcrypt.MinCost)
	require.NoError(t, err)
	assert.True(t, MatchConfiguredPassword(string(hash), "hunter2"))
	assert.False(t, MatchConfiguredPassword(string(hash), string(hash)))
}

func TestService_Login(t *testing.T) {
	svc := NewService("Ops@Desk.test", "hunter2", "secret")

	resp, err := svc.Login(&LoginRequest{Email: "ops@desk.test", Password: "hunter2"})
	require.NoError(t, err)
	assert.True(t, resp.Success)

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, claims.Role)

	_, err = svc.Login(&LoginRequest{Email: "ops@desk.test", Password: "wrong"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = svc.Login(&LoginRequest{Email: "", Password: "hunter2"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = NewService("", "", "").Login(&LoginRequest{Email: "a@b.test", Password: "x"})
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func newTestApp(svc *Service) *fiber.App {
	app := fiber.New()
	app.Post("/api/admin/auth", NewHandler(svc).Login)
	admin := app.Group("/api/admin", AuthMiddleware(svc), RequireRole(RoleAdmin))
	admin.Get("/ping", func(c *fiber.Ctx) error { return c.SendString("pong") })
	return app
}

func TestHandler_LoginAndProtectedRoute(t *testing.T) {
	svc := NewService("ops@desk.test", "hunter2", "secret")
	app := newTestApp(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth", strings.NewReader(`{"email":"ops@desk.test","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	text, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "pong", string(text))
}

func TestHandler_Rejections(t *testing.T) {
	app := newTestApp(NewService("ops@desk.test", "hunter2", "secret"))

	req := httptest.NewRequest(http.MethodPost, "/api/admin/auth", strings.NewReader(`{"email":"ops@desk.test","password":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
