package handlers

import (
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/services"
	"github.com/gofiber/fiber/v2"
)

type StatsHandler struct {
	statsService *services.StatsService
}

func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// GetStats godoc
// @Summary Dashboard statistics
// @Description Totals, the 5 latest companies and the issue breakdown by service and device type
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} services.Stats
// @Router /api/admin/stats [get]
func (h *StatsHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.statsService.Overview(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(stats)
}
