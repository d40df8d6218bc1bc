package handlers

import (
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/gofiber/fiber/v2"
)

type AuditHandler struct {
	auditService *audit.Service
}

func NewAuditHandler(auditService *audit.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListAuditLogs godoc
// @Summary Admin audit trail
// @Description Company changes made through the admin API, newest first
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param action query string false "create, update or delete"
// @Param entity_id query string false "Company ID"
// @Param page query int false "Page" default(1)
// @Param page_size query int false "Page size" default(50)
// @Success 200 {object} audit.Page
// @Router /api/admin/audit-logs [get]
func (h *AuditHandler) ListAuditLogs(c *fiber.Ctx) error {
	page, err := h.auditService.List(c.UserContext(), audit.Filter{
		Actor:    c.Query("actor"),
		Action:   c.Query("action"),
		Entity:   c.Query("entity"),
		EntityID: c.Query("entity_id"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 50),
	})
	if err != nil {
		return respondError(c, apperr.Internal("failed to list audit logs", err))
	}

	return c.JSON(page)
}
