package llm

import (
	"context"
	"fmt"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/config"
)

// Provider is a chat completion backend.
type Provider interface {
	Chat(ctx context.Context, systemPrompt string, history []Message) (string, error)
	GetProviderName() string
}

// ProviderType untuk factory
type ProviderType string

const (
	ProviderOpenAI   ProviderType = "openai"
	ProviderGemini   ProviderType = "gemini"
	ProviderGroq     ProviderType = "groq"
	ProviderDeepSeek ProviderType = "deepseek"
	ProviderClaude   ProviderType = "claude"
)

// ProviderConfig untuk create provider
type ProviderConfig struct {
	Type ProviderType

	// API Keys
	OpenAIKey   string
	GeminiKey   string
	GroqKey     string
	DeepSeekKey string
	ClaudeKey   string

	// Model configs
	Model       string
	Temperature float32
	MaxTokens   int
}

// NewProvider factory untuk create LLM provider
func NewProvider(cfg *ProviderConfig) (Provider, error) {
	switch cfg.Type {
	case ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required")
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderGemini:
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		return NewGeminiProvider(cfg.GeminiKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderGroq:
		if cfg.GroqKey == "" {
			return nil, fmt.Errorf("GROQ_API_KEY is required")
		}
		return NewGroqProvider(cfg.GroqKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderDeepSeek:
		if cfg.DeepSeekKey == "" {
			return nil, fmt.Errorf("DEEPSEEK_API_KEY is required")
		}
		return NewDeepSeekProvider(cfg.DeepSeekKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	case ProviderClaude:
		if cfg.ClaudeKey == "" {
			return nil, fmt.Errorf("CLAUDE_API_KEY is required")
		}
		return NewClaudeProvider(cfg.ClaudeKey, cfg.Model, cfg.Temperature, cfg.MaxTokens), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}

// ProviderConfigFrom builds the provider config from the app config,
// filling the model with a provider default when LLM_MODEL is unset.
func ProviderConfigFrom(appCfg *config.Config) *ProviderConfig {
	cfg := &ProviderConfig{
		Type:        ProviderType(appCfg.LLMProvider),
		OpenAIKey:   appCfg.OpenAIKey,
		GeminiKey:   appCfg.GeminiKey,
		GroqKey:     appCfg.GroqKey,
		DeepSeekKey: appCfg.DeepSeekKey,
		ClaudeKey:   appCfg.ClaudeKey,
		Model:       appCfg.LLMModel,
		Temperature: 0.4,
		MaxTokens:   1024,
	}
	if cfg.Type == "" {
		cfg.Type = ProviderOpenAI
	}

	if cfg.Model == "" {
		switch cfg.Type {
		case ProviderOpenAI:
			cfg.Model = "gpt-4o-mini"
		case ProviderGemini:
			cfg.Model = "gemini-2.5-flash"
		case ProviderGroq:
			cfg.Model = "llama-3.1-70b-versatile"
		case ProviderDeepSeek:
			cfg.Model = "deepseek-chat"
		case ProviderClaude:
			cfg.Model = "claude-3-5-sonnet-20241022"
		}
	}

	return cfg
}
