package handlers

import (
	"errors"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// respondError writes the JSON error body for err. Unclassified errors are
// reported as 500 without their details.
func respondError(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		appErr = apperr.Internal("internal server error", err)
	}

	status := appErr.Status()
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("❌ Request failed")
	}

	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   appErr.Message,
		"code":    appErr.Kind,
	})
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id")
	}
	return id, nil
}
