package handlers

import (
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/auth"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth    *auth.Handler
	Chat    *ChatHandler
	Quote   *QuoteHandler
	Company *CompanyHandler
	Stats   *StatsHandler
	Audit   *AuditHandler
	Health  *HealthHandler
}

// RegisterRoutes mounts the widget, signup and admin routes. The admin group
// requires a valid operator token.
func RegisterRoutes(app *fiber.App, h Handlers, authService *auth.Service) {
	app.Get("/health", h.Health.GetHealth)

	api := app.Group("/api")

	// Widget
	api.Post("/chat", h.Chat.Chat)
	api.Post("/quote", h.Quote.RequestQuote)
	api.Get("/quotes/:id/payment-qr", h.Quote.PaymentQR)

	api.Post("/company/register", h.Company.Register)

	// Admin
	api.Post("/admin/auth", h.Auth.Login)

	admin := api.Group("/admin", auth.AuthMiddleware(authService), auth.RequireRole(auth.RoleAdmin))
	admin.Get("/companies", h.Company.ListCompanies)
	admin.Post("/companies", h.Company.CreateCompany)
	admin.Get("/companies/:id", h.Company.GetCompany)
	admin.Put("/companies/:id", h.Company.UpdateCompany)
	admin.Delete("/companies/:id", h.Company.DeleteCompany)
	admin.Get("/companies/:id/quotes/export", h.Company.ExportQuotes)
	admin.Get("/stats", h.Stats.GetStats)
	admin.Get("/audit-logs", h.Audit.ListAuditLogs)
}
