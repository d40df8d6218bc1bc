package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail map[string]error
}

func (m *recordingMailer) SendEmail(ctx context.Context, to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fail[to]; err != nil {
		return err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func (m *recordingMailer) byRecipient(to string) (sentMail, bool) {
	for _, s := range m.sent {
		if s.to == to {
			return s, true
		}
	}
	return sentMail{}, false
}

func notice() QuoteNotice {
	return QuoteNotice{
		CompanyName:       "Acme Repair",
		CompanyEmail:      "ops@acme.test",
		CustomerName:      "Ana <script>",
		CustomerEmail:     "ana@test",
		CustomerPhone:     "514-555-0100",
		CustomerAddress:   "123 Rue St, Montreal",
		DiagnosticSummary: "Brand: HP\nIssue: No power",
		QuoteMessage:      "Travel fee: $50\nThanks",
		PaymentLink:       "https://pay.test/mtl",
	}
}

func TestNotifyQuote_SendsBothEmails(t *testing.T) {
	mailer := &recordingMailer{}
	res := NewService(mailer, "").NotifyQuote(context.Background(), notice())

	assert.NoError(t, res.CompanyErr)
	assert.NoError(t, res.CustomerErr)
	require.Len(t, mailer.sent, 2)

	company, ok := mailer.byRecipient("ops@acme.test")
	require.True(t, ok)
	assert.Equal(t, "New Quote from Ana <script>", company.subject)
	assert.Contains(t, company.body, "Ana &lt;script&gt;")
	assert.Contains(t, company.body, "Travel fee: $50<br>Thanks")

	customer, ok := mailer.byRecipient("ana@test")
	require.True(t, ok)
	assert.Equal(t, "Your Acme Repair Quote", customer.subject)
	assert.Contains(t, customer.body, "https://pay.test/mtl")
	assert.Contains(t, customer.body, "Brand: HP")
}

func TestNotifyQuote_FailureDoesNotStopOtherEmail(t *testing.T) {
	mailer := &recordingMailer{fail: map[string]error{"ops@acme.test": errors.New("relay down")}}
	res := NewService(mailer, "").NotifyQuote(context.Background(), notice())

	assert.Error(t, res.CompanyErr)
	assert.NoError(t, res.CustomerErr)
	_, ok := mailer.byRecipient("ana@test")
	assert.True(t, ok)
}

func TestNotifyQuote_SkipsMissingAddressAndCopiesSuperAdmin(t *testing.T) {
	mailer := &recordingMailer{}
	n := notice()
	n.CustomerEmail = ""
	n.PaymentLink = ""

	res := NewService(mailer, "root@desk.test").NotifyQuote(context.Background(), n)

	assert.NoError(t, res.CustomerErr)
	assert.NoError(t, res.SuperAdminErr)
	require.Len(t, mailer.sent, 2)

	copyMail, ok := mailer.byRecipient("root@desk.test")
	require.True(t, ok)
	assert.Equal(t, "[Tenant: Acme Repair] New Quote from Ana <script>", copyMail.subject)
}

func TestCustomerContent_NoPaymentLink(t *testing.T) {
	n := notice()
	n.PaymentLink = ""
	assert.NotContains(t, customerContent(n), "pay the travel fee")
}
