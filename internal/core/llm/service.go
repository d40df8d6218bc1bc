package llm

import (
	"context"
	"fmt"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/config"
	"github.com/rs/zerolog/log"
)

// Service wraps LLM provider untuk dependency injection
type Service struct {
	provider Provider
}

// NewService creates the LLM service for the provider named in the config.
func NewService(appCfg *config.Config) (*Service, error) {
	cfg := ProviderConfigFrom(appCfg)

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM provider: %w", err)
	}

	log.Info().Str("provider", provider.GetProviderName()).Str("model", cfg.Model).Msg("🤖 LLM provider ready")

	return &Service{provider: provider}, nil
}

// NewServiceWithProvider creates service with custom provider (for testing)
func NewServiceWithProvider(provider Provider) *Service {
	return &Service{provider: provider}
}

// Complete sends the system prompt and history and returns the raw reply.
// The call is bounded by the provider request timeout.
func (s *Service) Complete(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	return s.provider.Chat(ctx, systemPrompt, history)
}

// GetProviderName returns current provider name
func (s *Service) GetProviderName() string {
	return s.provider.GetProviderName()
}
