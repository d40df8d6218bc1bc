package handlers

import (
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/audit"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/services"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/gofiber/fiber/v2"
)

type CompanyHandler struct {
	companyService *services.CompanyService
	auditService   *audit.Service
}

// NewCompanyHandler wires the company endpoints. auditService may be nil.
func NewCompanyHandler(companyService *services.CompanyService, auditService *audit.Service) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, auditService: auditService}
}

func (h *CompanyHandler) record(c *fiber.Ctx, action, entityID string, payload interface{}) {
	actor, _ := c.Locals("email").(string)
	h.auditService.RecordChange(c.UserContext(), actor, c.IP(), action, "company", entityID, payload)
}

// Register godoc
// @Summary Register a company
// @Description Public signup. Returns the generated API key.
// @Tags Company
// @Accept json
// @Produce json
// @Param request body services.RegisterCompanyRequest true "Company"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/company/register [post]
func (h *CompanyHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterCompanyRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	company, err := h.companyService.Register(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Company registered successfully",
		"company": fiber.Map{
			"id":     company.ID,
			"name":   company.Name,
			"domain": company.Domain,
			"apiKey": company.APIKey,
		},
	})
}

// ListCompanies godoc
// @Summary List companies
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/companies [get]
func (h *CompanyHandler) ListCompanies(c *fiber.Ctx) error {
	companies, err := h.companyService.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"companies": companies,
		"count":     len(companies),
	})
}

// CreateCompany godoc
// @Summary Create a company
// @Description Create a company with its pricing, prompt and quote template
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CompanyInput true "Company"
// @Success 201 {object} models.Company
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/admin/companies [post]
func (h *CompanyHandler) CreateCompany(c *fiber.Ctx) error {
	var in services.CompanyInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	company, err := h.companyService.Create(c.UserContext(), &in)
	if err != nil {
		return respondError(c, err)
	}
	h.record(c, audit.ActionCreate, company.ID.String(), in)

	return c.Status(fiber.StatusCreated).JSON(company)
}

// GetCompany godoc
// @Summary Company detail
// @Description Company with its 50 latest quotes and 100 latest issue stats
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Success 200 {object} services.CompanyDetail
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/companies/{id} [get]
func (h *CompanyHandler) GetCompany(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	detail, err := h.companyService.Detail(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(detail)
}

// UpdateCompany godoc
// @Summary Update a company
// @Description Partial update. Omitted fields are left unchanged.
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Param request body services.CompanyInput true "Fields to change"
// @Success 200 {object} models.Company
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /api/admin/companies/{id} [put]
func (h *CompanyHandler) UpdateCompany(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	var in services.CompanyInput
	if err := c.BodyParser(&in); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	company, err := h.companyService.Update(c.UserContext(), id, &in)
	if err != nil {
		return respondError(c, err)
	}
	h.record(c, audit.ActionUpdate, company.ID.String(), in)

	return c.JSON(company)
}

// DeleteCompany godoc
// @Summary Delete a company
// @Description Deletes the company with its conversations, summaries, issue stats and quotes
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/companies/{id} [delete]
func (h *CompanyHandler) DeleteCompany(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.companyService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	h.record(c, audit.ActionDelete, id.String(), nil)

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Company deleted successfully",
	})
}

// ExportQuotes godoc
// @Summary Export a company's quotes
// @Tags Admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce application/pdf
// @Produce text/csv
// @Security BearerAuth
// @Param id path string true "Company ID"
// @Param format query string false "xlsx, pdf or csv" default(xlsx)
// @Success 200 {file} binary
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/companies/{id}/quotes/export [get]
func (h *CompanyHandler) ExportQuotes(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return respondError(c, err)
	}

	file, err := h.companyService.ExportQuotes(c.UserContext(), id, c.Query("format"))
	if err != nil {
		return respondError(c, err)
	}

	c.Attachment(file.Filename)
	c.Set(fiber.HeaderContentType, file.ContentType)
	return c.Send(file.Body)
}
