package notification

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/jobs"
	"github.com/rs/zerolog/log"
)

// Mailer sends one HTML email.
type Mailer interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
}

// QuoteNotice carries everything both quote emails need.
type QuoteNotice struct {
	CompanyName       string
	CompanyEmail      string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	CustomerAddress   string
	DiagnosticSummary string
	QuoteMessage      string
	PaymentLink       string
}

// Result reports per-recipient delivery errors. Nil means delivered (or
// skipped because no address was given).
type Result struct {
	CompanyErr    error
	CustomerErr   error
	SuperAdminErr error
}

// RetryQueue stores an email that could not be sent for a later attempt.
type RetryQueue interface {
	Enqueue(ctx context.Context, jobType string, payload interface{}, opts jobs.EnqueueOptions) (*jobs.Job, error)
}

// Service sends quote notifications by email.
type Service struct {
	mailer          Mailer
	superAdminEmail string // optional copy of every company email
	retries         RetryQueue
}

// NewService creates a new notification service
func NewService(mailer Mailer, superAdminEmail string) *Service {
	return &Service{
		mailer:          mailer,
		superAdminEmail: superAdminEmail,
	}
}

// WithRetryQueue makes failed sends retry in the background.
func (s *Service) WithRetryQueue(q RetryQueue) *Service {
	s.retries = q
	return s
}

// NotifyQuote emails the company and the customer concurrently. Failures
// are logged and returned in the result, never as an error.
func (s *Service) NotifyQuote(ctx context.Context, n QuoteNotice) Result {
	var (
		res Result
		wg  sync.WaitGroup
	)

	companySubject := fmt.Sprintf("New Quote from %s", n.CustomerName)
	companyBody := formatEmailBody(companySubject, companyContent(n))

	wg.Add(2)
	go func() {
		defer wg.Done()
		res.CompanyErr = s.send(ctx, n.CompanyEmail, companySubject, companyBody, "company")
	}()
	go func() {
		defer wg.Done()
		subject := fmt.Sprintf("Your %s Quote", n.CompanyName)
		res.CustomerErr = s.send(ctx, n.CustomerEmail, subject, formatEmailBody(subject, customerContent(n)), "customer")
	}()

	if s.superAdminEmail != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			subject := fmt.Sprintf("[Tenant: %s] %s", n.CompanyName, companySubject)
			res.SuperAdminErr = s.send(ctx, s.superAdminEmail, subject, companyBody, "super_admin")
		}()
	}

	wg.Wait()
	return res
}

func (s *Service) send(ctx context.Context, to, subject, body, recipient string) error {
	if strings.TrimSpace(to) == "" {
		log.Warn().Str("recipient", recipient).Msg("⚠️ Skipping quote email: no address")
		return nil
	}

	if err := s.mailer.SendEmail(ctx, to, subject, body); err != nil {
		log.Error().Err(err).Str("recipient", recipient).Str("to", to).Msg("❌ Failed to send quote email")
		s.scheduleRetry(ctx, EmailPayload{To: to, Subject: subject, Body: body, Recipient: recipient})
		return err
	}

	log.Info().Str("recipient", recipient).Str("to", to).Msg("✅ Quote email sent")
	return nil
}

func companyContent(n QuoteNotice) string {
	var sb strings.Builder
	sb.WriteString(`<h3>Customer Information</h3><ul>`)
	fmt.Fprintf(&sb, `<li><strong>Name:</strong> %s</li>`, html.EscapeString(n.CustomerName))
	fmt.Fprintf(&sb, `<li><strong>Email:</strong> %s</li>`, html.EscapeString(n.CustomerEmail))
	fmt.Fprintf(&sb, `<li><strong>Phone:</strong> %s</li>`, html.EscapeString(n.CustomerPhone))
	fmt.Fprintf(&sb, `<li><strong>Address:</strong> %s</li>`, html.EscapeString(n.CustomerAddress))
	sb.WriteString(`</ul>`)
	fmt.Fprintf(&sb, `<h3>Diagnostic Summary</h3><pre>%s</pre>`, html.EscapeString(n.DiagnosticSummary))
	fmt.Fprintf(&sb, `<h3>Quote Message</h3><p>%s</p>`, textToHTML(n.QuoteMessage))
	return sb.String()
}

func customerContent(n QuoteNotice) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<p>Your request has been received by <strong>%s</strong>.</p>`, html.EscapeString(n.CompanyName))
	fmt.Fprintf(&sb, `<h3>Diagnostic Summary:</h3><pre>%s</pre>`, html.EscapeString(n.DiagnosticSummary))
	sb.WriteString(`<p>Once payment is completed, a technician will contact you.</p>`)
	if n.PaymentLink != "" {
		fmt.Fprintf(&sb, `<p><a href="%s" target="_blank">Click here to pay the travel fee</a></p>`, html.EscapeString(n.PaymentLink))
	}
	return sb.String()
}

func textToHTML(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>")
}

// formatEmailBody wraps content in the shared email layout
func formatEmailBody(title, content string) string {
	return `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #2196F3; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
        .content { padding: 20px; background: #f9f9f9; border: 1px solid #ddd; border-top: none; }
        pre { white-space: pre-wrap; font-family: Arial, sans-serif; background: white; padding: 10px; }
        .footer { padding: 15px; text-align: center; font-size: 12px; color: #666; background: #f0f0f0; border-radius: 0 0 5px 5px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h2>` + html.EscapeString(title) + `</h2>
        </div>
        <div class="content">` + content + `
        </div>
        <div class="footer">
            <p>Automated quote notification</p>
        </div>
    </div>
</body>
</html>`
}
