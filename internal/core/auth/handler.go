package auth

import (
	"errors"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	authService *Service
}

// NewHandler creates a new auth handler
func NewHandler(authService *Service) *Handler {
	return &Handler{authService: authService}
}

// Login godoc
// @Summary Admin login
// @Description Authenticate the desk operator and return a 2 hour JWT
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/admin/auth [post]
func (h *Handler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		status, message := fiber.StatusInternalServerError, "Internal server error"
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			status, message = appErr.Status(), appErr.Message
		}
		log.Warn().Err(err).Str("email", req.Email).Msg("🔒 Admin login rejected")
		return c.Status(status).JSON(fiber.Map{
			"success": false,
			"error":   message,
		})
	}

	return c.JSON(resp)
}
