package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/metrics"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/pipeline"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/repositories"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/apperr"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type ChatService struct {
	resolver      *CompanyResolver
	extractor     *pipeline.Extractor
	conversations repositories.ConversationRepo
	summaries     repositories.SummaryRepo
	issueStats    repositories.IssueStatRepo
	publisher     events.Publisher
}

func NewChatService(
	resolver *CompanyResolver,
	extractor *pipeline.Extractor,
	conversations repositories.ConversationRepo,
	summaries repositories.SummaryRepo,
	issueStats repositories.IssueStatRepo,
	publisher events.Publisher,
) *ChatService {
	return &ChatService{
		resolver:      resolver,
		extractor:     extractor,
		conversations: conversations,
		summaries:     summaries,
		issueStats:    issueStats,
		publisher:     publisher,
	}
}

// ChatRequest is one widget turn. Messages is the history as the widget
// knows it, ending with the newest customer message.
type ChatRequest struct {
	Domain         string        `json:"domain"`
	Messages       []models.Turn `json:"messages"`
	ConversationID string        `json:"conversationId,omitempty"`
}

type ChatResponse struct {
	Reply          string               `json:"reply"`
	Company        string               `json:"company"`
	ConversationID string               `json:"conversationId"`
	Diagnostic     *pipeline.Diagnostic `json:"diagnostic"`
	ReadyForQuote  bool                 `json:"readyForQuote"`
}

// Chat answers one customer turn. The conversation row is written only
// after the completion succeeded, so a failed turn leaves no trace.
func (s *ChatService) Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if strings.TrimSpace(req.Domain) == "" {
		return nil, apperr.Validation("domain is required")
	}
	submitted := sanitizeTurns(req.Messages)
	if len(submitted) == 0 {
		return nil, apperr.Validation("messages are required")
	}

	company, err := s.resolver.Resolve(ctx, req.Domain)
	if errors.Is(err, tenant.ErrUnknownDomain) {
		return nil, apperr.NotFound("no company registered for this domain")
	}
	if err != nil {
		return nil, apperr.Internal("failed to resolve company", err)
	}

	conversation, err := s.loadConversation(ctx, company.ID, req.ConversationID)
	if err != nil {
		return nil, err
	}

	turns := mergeTurns(conversation.Messages, submitted)

	start := time.Now()
	extraction, err := s.extractor.Extract(ctx, company.AIPrompt, toLLMMessages(turns))
	metrics.LLMLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues("llm").Inc()
		return nil, apperr.Upstream("completion service failed", err)
	}

	turns = append(turns, models.Turn{Role: llm.RoleAssistant, Content: extraction.Reply})
	if err := s.saveTurns(ctx, conversation, turns); err != nil {
		return nil, apperr.Internal("failed to save conversation", err)
	}

	if extraction.ParseErr != nil {
		metrics.Diagnostics.WithLabelValues(metrics.OutcomeFailed).Inc()
		log.Warn().Err(extraction.ParseErr).Str("conversation_id", conversation.ID.String()).Msg("⚠️ Diagnostic block could not be parsed")
	}
	if extraction.Diagnostic != nil {
		metrics.Diagnostics.WithLabelValues(metrics.OutcomeParsed).Inc()
		s.recordDiagnostic(ctx, company, conversation.ID, extraction.Diagnostic)
	}
	metrics.ChatTurns.Inc()

	return &ChatResponse{
		Reply:          extraction.Reply,
		Company:        company.Name,
		ConversationID: conversation.ID.String(),
		Diagnostic:     extraction.Diagnostic,
		ReadyForQuote:  extraction.ReadyForQuote,
	}, nil
}

// loadConversation returns the stored conversation, or an unsaved one with a
// fresh id when the widget did not send an id. A conversation of another
// company is reported as not found.
func (s *ChatService) loadConversation(ctx context.Context, companyID uuid.UUID, rawID string) (*models.Conversation, error) {
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return &models.Conversation{CompanyID: companyID}, nil
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperr.NotFound("conversation not found")
	}

	conversation, err := s.conversations.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("conversation not found")
	}
	if err != nil {
		return nil, apperr.Internal("failed to load conversation", err)
	}
	if conversation.CompanyID != companyID {
		return nil, apperr.NotFound("conversation not found")
	}
	return conversation, nil
}

func (s *ChatService) saveTurns(ctx context.Context, conversation *models.Conversation, turns []models.Turn) error {
	if conversation.ID == uuid.Nil {
		conversation.Messages = turns
		return s.conversations.Create(ctx, conversation)
	}
	conversation.Messages = turns
	return s.conversations.UpdateMessages(ctx, conversation.ID, turns)
}

// recordDiagnostic persists the side effects of a parsed diagnostic. Every
// step is best-effort and only logged.
func (s *ChatService) recordDiagnostic(ctx context.Context, company *models.Company, conversationID uuid.UUID, d *pipeline.Diagnostic) {
	stat := &models.DeviceIssueStat{
		CompanyID:          company.ID,
		ConversationID:     conversationID,
		DeviceBrand:        d.DeviceBrand,
		DeviceModel:        d.DeviceModel,
		ProblemDescription: d.ProblemDescription,
	}
	if d.ServiceType != nil {
		v := string(*d.ServiceType)
		stat.ServiceType = &v
	}
	if d.DeviceType != nil {
		v := string(*d.DeviceType)
		stat.DeviceType = &v
	}
	if err := s.issueStats.Create(ctx, stat); err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID.String()).Msg("❌ Failed to record issue stat")
	}

	doc := pipeline.SummaryDocument{Diagnostic: d}
	if existing, err := s.summaries.GetByConversationID(ctx, conversationID); err == nil {
		if prev, err := pipeline.DecodeSummary(existing.Summary); err == nil {
			doc.QuoteMessage = prev.QuoteMessage
		}
	}
	if raw, err := doc.Marshal(); err != nil {
		log.Error().Err(err).Msg("❌ Failed to encode summary")
	} else if err := s.summaries.Upsert(ctx, conversationID, raw, time.Now().UnixNano()); err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID.String()).Msg("❌ Failed to upsert summary")
	}

	if err := s.conversations.AdvanceStatus(ctx, conversationID, models.StatusDiagnosed); err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID.String()).Msg("❌ Failed to advance conversation status")
	}

	env := events.NewEnvelope(EventConversationDiagnosed, conversationID.String(), ConversationDiagnosedEvent{
		CompanyID:      company.ID.String(),
		ConversationID: conversationID.String(),
		Diagnostic:     d,
	})
	if err := s.publisher.Publish(ctx, EventConversationDiagnosed, env); err != nil {
		log.Warn().Err(err).Msg("⚠️ Failed to publish diagnosed event")
	}

	log.Info().
		Str("company", company.Name).
		Str("conversation_id", conversationID.String()).
		Msg("🩺 Diagnostic recorded")
}

// sanitizeTurns drops empty turns and folds every non-assistant role into
// user.
func sanitizeTurns(in []models.Turn) []models.Turn {
	out := make([]models.Turn, 0, len(in))
	for _, t := range in {
		content := strings.TrimSpace(t.Content)
		if content == "" {
			continue
		}
		role := llm.RoleUser
		if strings.EqualFold(strings.TrimSpace(t.Role), llm.RoleAssistant) {
			role = llm.RoleAssistant
		}
		out = append(out, models.Turn{Role: role, Content: content})
	}
	return out
}

// mergeTurns appends what the widget sent beyond the stored history. A widget
// that lost its history still gets its newest message appended.
func mergeTurns(stored, submitted []models.Turn) []models.Turn {
	merged := make([]models.Turn, 0, len(stored)+len(submitted)+1)
	merged = append(merged, stored...)

	if len(submitted) > len(stored) {
		return append(merged, submitted[len(stored):]...)
	}

	last := submitted[len(submitted)-1]
	if len(merged) > 0 && merged[len(merged)-1] == last {
		return merged
	}
	return append(merged, last)
}

func toLLMMessages(turns []models.Turn) []llm.Message {
	out := make([]llm.Message, len(turns))
	for i, t := range turns {
		out[i] = llm.Message{Role: t.Role, Content: t.Content}
	}
	return out
}
