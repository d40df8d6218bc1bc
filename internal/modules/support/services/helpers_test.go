package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/events"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/llm"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/notification"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/tenant"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/models"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/pipeline"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/modules/support/repositories"
	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/database"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm/logger"
)

// ==========================================
// Test doubles
// ==========================================

type stubCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	calls   int
	history []llm.Message
	prompt  string
}

func (s *stubCompleter) Complete(ctx context.Context, systemPrompt string, history []llm.Message) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompt = systemPrompt
	s.history = history
	return s.reply, s.err
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *recordingMailer) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *recordingMailer) recipients() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.sent))
	for i, s := range m.sent {
		out[i] = s.To
	}
	return out
}

// ==========================================
// Environment
// ==========================================

type testEnv struct {
	db            *database.DB
	companies     repositories.CompanyRepo
	conversations repositories.ConversationRepo
	summaries     repositories.SummaryRepo
	issueStats    repositories.IssueStatRepo
	quotes        repositories.QuoteRepo

	completer *stubCompleter
	mailer    *recordingMailer

	chat    *ChatService
	quote   *QuoteService
	company *CompanyService
	stats   *StatsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := database.Open(database.DriverSQLite, dsn, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.GORM.AutoMigrate(models.All()...))

	env := &testEnv{
		db:            db,
		companies:     repositories.NewCompanyRepo(db.GORM),
		conversations: repositories.NewConversationRepo(db.GORM),
		summaries:     repositories.NewSummaryRepo(db.GORM),
		issueStats:    repositories.NewIssueStatRepo(db.GORM),
		quotes:        repositories.NewQuoteRepo(db.GORM),
		completer:     &stubCompleter{},
		mailer:        &recordingMailer{},
	}

	resolver := tenant.NewResolver[models.Company](env.companies, nil)
	publisher := events.NewFallback()

	env.chat = NewChatService(resolver, pipeline.NewExtractor(env.completer), env.conversations, env.summaries, env.issueStats, publisher)
	env.quote = NewQuoteService(resolver, env.conversations, env.summaries, env.quotes, notification.NewService(env.mailer, ""), publisher)
	env.company = NewCompanyService(env.companies, env.quotes, env.issueStats, resolver)
	env.stats = NewStatsService(env.companies, env.conversations, env.quotes, analytics.NewAggregator(db.GORM))

	return env
}

func (e *testEnv) seedCompany(t *testing.T, domain, pricing, template string) *models.Company {
	t.Helper()

	company := &models.Company{
		Name:          "Acme Repairs",
		Email:         "ops@" + domain,
		Domain:        domain,
		APIKey:        "key-" + domain,
		PricingInfo:   datatypes.JSON(pricing),
		QuoteTemplate: template,
	}
	require.NoError(t, e.companies.Create(context.Background(), company))
	return company
}

func (e *testEnv) seedConversation(t *testing.T, company *models.Company) *models.Conversation {
	t.Helper()

	conversation := &models.Conversation{
		CompanyID: company.ID,
		Messages:  []models.Turn{{Role: "user", Content: "My printer jams"}},
	}
	require.NoError(t, e.conversations.Create(context.Background(), conversation))
	return conversation
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()

	var n int64
	require.NoError(t, e.db.GORM.Model(model).Count(&n).Error)
	return n
}

const diagnosedReply = `Got it, a technician can look at your Brother printer.
<diagnostic>
{"serviceType":"printer_repair","deviceType":"laser_printer","deviceBrand":"Brother","deviceModel":"HL-L2350DW","problemDescription":"Paper jams on every page","location":"Montreal","urgency":null,"extraData":{}}
</diagnostic>
<ready_for_quote>`

const acmePricing = `{
  "address": "100 Rue Peel, Montreal",
  "hours": "9-5",
  "dropOffFee": 25,
  "diagnosticFee": "40",
  "hourlyRate": {"regularPrinter": 80, "laser_printer": 95},
  "travelFee": {"montreal": 50, "outside": 100},
  "paymentLinks": {"travelMontreal": "https://pay.example.com/mtl", "travelOutside": "https://pay.example.com/out"},
  "serviceRules": {"laser_printer": "onsite_or_dropoff", "computer": "remote_or_dropoff"}
}`
