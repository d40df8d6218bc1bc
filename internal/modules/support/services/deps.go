package services

import (
	"context"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/notification"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
)

// CompanyResolver maps widget domains to companies.
type CompanyResolver = tenant.Resolver[models.Company]

// QuoteNotifier delivers the quote emails.
type QuoteNotifier interface {
	NotifyQuote(ctx context.Context, n notification.QuoteNotice) notification.Result
}

// Domain events published on the support exchange.
const (
	EventConversationDiagnosed = "support.conversation.diagnosed.v1"
	EventQuoteCreated          = "support.quote.created.v1"
)

type ConversationDiagnosedEvent struct {
	CompanyID      string      `json:"companyId"`
	ConversationID string      `json:"conversationId"`
	Diagnostic     interface{} `json:"diagnostic"`
}

type QuoteCreatedEvent struct {
	CompanyID      string `json:"companyId"`
	ConversationID string `json:"conversationId"`
	QuoteID        string `json:"quoteId"`
	TravelFee      string `json:"travelFee"`
	Local          bool   `json:"local"`
}
