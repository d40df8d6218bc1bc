package handlers

import (
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/services"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/gofiber/fiber/v2"
)

type QuoteHandler struct {
	quoteService *services.QuoteService
}

func NewQuoteHandler(quoteService *services.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// RequestQuote godoc
// @Summary Request a quote
// @Description Price and render a quote for a diagnosed conversation and email it to the company and the customer
// @Tags Widget
// @Accept json
// @Produce json
// @Param request body services.QuoteRequest true "Customer details"
// @Success 200 {object} services.QuoteResponse
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/quote [post]
func (h *QuoteHandler) RequestQuote(c *fiber.Ctx) error {
	var req services.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	resp, err := h.quoteService.RequestQuote(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(resp)
}

// PaymentQR godoc
// @Summary Payment link QR code
// @Description PNG QR code of the travel fee payment link of a quote
// @Tags Widget
// @Produce png
// @Param id path string true "Quote ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]interface{}
// @Router /api/quotes/{id}/payment-qr [get]
func (h *QuoteHandler) PaymentQR(c *fiber.Ctx) error {
	png, err := h.quoteService.PaymentQR(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	return c.Send(png)
}
