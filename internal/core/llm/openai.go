package llm

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const (
	requestTimeout  = 60 * time.Second
	groqBaseURL     = "https://api.groq.com/openai/v1"
	deepSeekBaseURL = "https://api.deepseek.com"
)

// OpenAIProvider talks to OpenAI or any OpenAI-compatible endpoint
// (Groq, DeepSeek).
type OpenAIProvider struct {
	client      *openai.Client
	name        string
	model       string
	temperature float32
	maxTokens   int
}

func NewOpenAIProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return newOpenAICompatible("OpenAI", openai.DefaultConfig(apiKey), model, temperature, maxTokens)
}

func NewGroqProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	if model == "" {
		model = "llama-3.1-8b-instant"
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = groqBaseURL
	return newOpenAICompatible("Groq", config, model, temperature, maxTokens)
}

func NewDeepSeekProvider(apiKey string, model string, temperature float32, maxTokens int) *OpenAIProvider {
	if model == "" {
		model = "deepseek-chat"
	}
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = deepSeekBaseURL
	return newOpenAICompatible("DeepSeek", config, model, temperature, maxTokens)
}

func newOpenAICompatible(name string, config openai.ClientConfig, model string, temperature float32, maxTokens int) *OpenAIProvider {
	if temperature == 0 {
		temperature = 0.7
	}
	if maxTokens == 0 {
		maxTokens = 1024
	}
	config.HTTPClient = &http.Client{Timeout: requestTimeout}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		name:        name,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

func (p *OpenAIProvider) GetProviderName() string {
	return p.name
}

func (p *OpenAIProvider) Chat(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		Messages:    toOpenAIMessages(systemPrompt, history),
		Temperature: p.temperature,
		MaxTokens:   p.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s error: %w", p.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from %s", p.name)
	}

	return resp.Choices[0].Message.Content, nil
}

func toOpenAIMessages(systemPrompt string, history []Message) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if systemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: systemPrompt})
	}
	for _, m := range history {
		role := openai.ChatMessageRoleUser
		if normalizeRole(m.Role) == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}
	return messages
}
