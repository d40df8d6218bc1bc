package handlers

import (
	"context"
	"database/sql"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

type HealthHandler struct {
	db       *sql.DB
	provider string
}

func NewHealthHandler(db *sql.DB, llmProvider string) *HealthHandler {
	return &HealthHandler{db: db, provider: llmProvider}
}

// GetHealth godoc
// @Summary Service health check
// @Description Check if API and database are alive
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) GetHealth(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		log.Error().Err(err).Msg("❌ Health check: database unreachable")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "degraded",
			"service":  "quote-desk",
			"database": "down",
		})
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "quote-desk",
		"database": "up",
		"provider": h.provider,
	})
}
