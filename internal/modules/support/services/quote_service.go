package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/notification"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/payment"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/pipeline"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/repositories"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type QuoteService struct {
	resolver      *CompanyResolver
	conversations repositories.ConversationRepo
	summaries     repositories.SummaryRepo
	quotes        repositories.QuoteRepo
	notifier      QuoteNotifier
	publisher     events.Publisher
}

func NewQuoteService(
	resolver *CompanyResolver,
	conversations repositories.ConversationRepo,
	summaries repositories.SummaryRepo,
	quotes repositories.QuoteRepo,
	notifier QuoteNotifier,
	publisher events.Publisher,
) *QuoteService {
	return &QuoteService{
		resolver:      resolver,
		conversations: conversations,
		summaries:     summaries,
		quotes:        quotes,
		notifier:      notifier,
		publisher:     publisher,
	}
}

type QuoteRequest struct {
	Domain         string `json:"domain"`
	ConversationID string `json:"conversationId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
}

type QuoteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	QuoteID string `json:"quoteId"`
}

// RequestQuote prices and renders a quote for a diagnosed conversation,
// stores it and emails both parties. Only the lookups and the quote insert
// can fail the request.
func (s *QuoteService) RequestQuote(ctx context.Context, req *QuoteRequest) (*QuoteResponse, error) {
	if strings.TrimSpace(req.ConversationID) == "" || strings.TrimSpace(req.Domain) == "" {
		return nil, apperr.Validation("conversationId and domain are required")
	}

	company, err := s.resolver.Resolve(ctx, req.Domain)
	if errors.Is(err, tenant.ErrUnknownDomain) {
		return nil, apperr.Unauthorized("invalid domain")
	}
	if err != nil {
		return nil, apperr.Internal("failed to resolve company", err)
	}

	conversationID, err := uuid.Parse(strings.TrimSpace(req.ConversationID))
	if err != nil {
		return nil, apperr.NotFound("conversation not found")
	}
	conversation, err := s.conversations.GetByID(ctx, conversationID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && conversation.CompanyID != company.ID) {
		return nil, apperr.NotFound("conversation not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load conversation", err)
	}

	diagnostic := s.loadDiagnostic(ctx, conversationID)

	cfg, err := pipeline.ParsePricing(company.PricingInfo)
	if err != nil {
		log.Warn().Err(err).Str("company", company.Name).Msg("⚠️ Pricing configuration unreadable, using empty configuration")
	}

	customer := pipeline.QuoteRequest{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Phone:   strings.TrimSpace(req.Phone),
		Address: strings.TrimSpace(req.Address),
	}
	resolved := pipeline.ResolvePricing(cfg, diagnostic, customer)

	quote := &models.Quote{
		CompanyID:      company.ID,
		ConversationID: &conversationID,
		Name:           customer.Name,
		Email:          customer.Email,
		Phone:          customer.Phone,
		Address:        customer.Address,
		PaymentLink:    resolved.TravelLink,
		TravelFee:      resolved.TravelFee.String(),
	}
	if err := s.quotes.Create(ctx, quote); err != nil {
		return nil, apperr.Internal("failed to create quote", err)
	}
	metrics.QuotesCreated.Inc()

	message, err := pipeline.RenderQuote(company.QuoteTemplate, pipeline.TemplateValues(cfg, resolved, diagnostic, customer))
	if err != nil {
		log.Error().Err(err).Str("company", company.Name).Msg("❌ Quote template failed, sending acknowledgement")
	}

	s.finalize(ctx, quote, diagnostic, message)
	s.notify(ctx, company, customer, diagnostic, message, resolved.TravelLink)

	env := events.NewEnvelope(EventQuoteCreated, conversationID.String(), QuoteCreatedEvent{
		CompanyID:      company.ID.String(),
		ConversationID: conversationID.String(),
		QuoteID:        quote.ID.String(),
		TravelFee:      quote.TravelFee,
		Local:          resolved.Local,
	})
	if err := s.publisher.Publish(ctx, EventQuoteCreated, env); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to publish quote event")
	}

	log.Info().
		Str("company", company.Name).
		Str("quote_id", quote.ID.String()).
		Bool("local", resolved.Local).
		Msg("🧾 Quote created")

	return &QuoteResponse{
		Success: true,
		Message: message,
		QuoteID: quote.ID.String(),
	}, nil
}

// PaymentQR renders the payment link of a quote as a PNG.
func (s *QuoteService) PaymentQR(ctx context.Context, rawID string) ([]byte, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperr.NotFound("quote not found")
	}

	quote, err := s.quotes.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("quote not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load quote", err)
	}

	png, err := payment.LinkQR(quote.PaymentLink, payment.QRSize)
	if errors.Is(err, payment.ErrNoPaymentLink) {
		return nil, apperr.NotFound("quote has no payment link")
	}
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	return png, nil
}

// loadDiagnostic returns nil when the conversation was never diagnosed or
// its summary cannot be read.
func (s *QuoteService) loadDiagnostic(ctx context.Context, conversationID uuid.UUID) *pipeline.Diagnostic {
	summary, err := s.summaries.GetByConversationID(ctx, conversationID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID.String()).Msg("❌ Failed to load summary")
		return nil
	}

	doc, err := pipeline.DecodeSummary(summary.Summary)
	if err != nil {
		log.Warn().Err(err).Str("conversation_id", conversationID.String()).Msg("⚠️ Stored summary unreadable")
		return nil
	}
	return doc.Diagnostic
}

// finalize stores the rendered text on the quote and the summary and marks
// the conversation quoted. Failures are logged only.
func (s *QuoteService) finalize(ctx context.Context, quote *models.Quote, d *pipeline.Diagnostic, message string) {
	if err := s.quotes.UpdateMessage(ctx, quote.ID, message); err != nil {
		log.Error().Err(err).Str("quote_id", quote.ID.String()).Msg("❌ Failed to store quote message")
	} else {
		quote.QuoteMessage = message
	}

	raw, err := pipeline.SummaryDocument{Diagnostic: d, QuoteMessage: message}.Marshal()
	if err == nil {
		err = s.summaries.Upsert(ctx, *quote.ConversationID, raw, time.Now().UnixNano())
	}
	if err != nil {
		log.Error().Err(err).Str("quote_id", quote.ID.String()).Msg("❌ Failed to update summary")
	}

	if err := s.conversations.AdvanceStatus(ctx, *quote.ConversationID, models.StatusQuoted); err != nil {
		log.Error().Err(err).Str("quote_id", quote.ID.String()).Msg("❌ Failed to advance conversation status")
	}
}

func (s *QuoteService) notify(ctx context.Context, company *models.Company, customer pipeline.QuoteRequest, d *pipeline.Diagnostic, message, paymentLink string) {
	result := s.notifier.NotifyQuote(ctx, notification.QuoteNotice{
		CompanyName:       company.Name,
		CompanyEmail:      company.Email,
		CustomerName:      customer.Name,
		CustomerEmail:     customer.Email,
		CustomerPhone:     customer.Phone,
		CustomerAddress:   customer.Address,
		DiagnosticSummary: pipeline.DiagnosticSummary(d),
		QuoteMessage:      message,
		PaymentLink:       paymentLink,
	})

	if result.CompanyErr != nil {
		metrics.EmailFailures.WithLabelValues(metrics.RecipientCompany).Inc()
	}
	if result.CustomerErr != nil {
		metrics.EmailFailures.WithLabelValues(metrics.RecipientCustomer).Inc()
	}
	if result.SuperAdminErr != nil {
		metrics.EmailFailures.WithLabelValues(metrics.RecipientSuperAdmin).Inc()
	}
}
