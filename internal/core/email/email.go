package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/config"
	"github.com/rs/zerolog/log"
)

// Provider defines the interface for email providers
type Provider interface {
	SendEmail(ctx context.Context, to, subject, htmlBody string) error
	GetProviderName() string
}

// Service wraps the email provider. A Service without a provider accepts
// every message and only logs it.
type Service struct {
	provider Provider
}

// NewService creates a new email service with the specified provider
func NewService(provider Provider) *Service {
	return &Service{
		provider: provider,
	}
}

// NewServiceFromConfig picks the provider named by EMAIL_PROVIDER, or the
// first one with credentials when unset.
func NewServiceFromConfig(ctx context.Context, cfg *config.Config) (*Service, error) {
	name := strings.ToLower(strings.TrimSpace(cfg.EmailProvider))
	if name == "" {
		switch {
		case cfg.SMTPHost != "":
			name = "smtp"
		case cfg.ResendAPIKey != "":
			name = "resend"
		case cfg.BrevoAPIKey != "":
			name = "brevo"
		}
	}

	var provider Provider
	switch name {
	case "":
		log.Warn().Msg("⚠️ No email provider configured, emails will only be logged")
	case "smtp":
		if cfg.SMTPHost == "" {
			return nil, fmt.Errorf("SMTP_HOST is required for the smtp provider")
		}
		provider = NewSMTPProvider(SMTPConfig{
			Host:      cfg.SMTPHost,
			Port:      cfg.SMTPPort,
			Username:  cfg.SMTPUser,
			Password:  cfg.SMTPPass,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
	case "resend":
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is required for the resend provider")
		}
		provider = NewResendProvider(cfg.ResendAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	case "brevo":
		if cfg.BrevoAPIKey == "" {
			return nil, fmt.Errorf("BREVO_API_KEY is required for the brevo provider")
		}
		provider = NewBrevoProvider(cfg.BrevoAPIKey, cfg.EmailFrom, cfg.EmailFromName)
	case "ses":
		ses, err := NewSESProvider(ctx, cfg.AWSRegion, cfg.EmailFrom, cfg.EmailFromName)
		if err != nil {
			return nil, err
		}
		provider = ses
	default:
		return nil, fmt.Errorf("unknown email provider: %s", name)
	}

	if provider != nil {
		log.Info().Str("provider", provider.GetProviderName()).Msg("📧 Email provider ready")
	}
	return NewService(provider), nil
}

// SendEmail sends an HTML email
func (s *Service) SendEmail(ctx context.Context, to, subject, htmlBody string) error {
	if s.provider == nil {
		log.Warn().Str("to", to).Str("subject", subject).Msg("📭 Email not sent: no provider configured")
		return nil
	}
	if strings.TrimSpace(to) == "" {
		return fmt.Errorf("missing recipient")
	}
	return s.provider.SendEmail(ctx, to, subject, htmlBody)
}

// Configured reports whether messages actually leave the process.
func (s *Service) Configured() bool {
	return s.provider != nil
}

// GetProviderName returns the name of the current provider
func (s *Service) GetProviderName() string {
	if s.provider == nil {
		return "none"
	}
	return s.provider.GetProviderName()
}

func formatFrom(email, name string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}
