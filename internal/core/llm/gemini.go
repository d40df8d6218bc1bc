package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const geminiBaseURL = "https://generativelanguage.googleapis.com/v1"

type GeminiProvider struct {
	apiKey      string
	model       string
	temperature float32
	maxTokens   int
	baseURL     string
	client      *http.Client
}

func NewGeminiProvider(apiKey string, model string, temperature float32, maxTokens int) *GeminiProvider {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if temperature == 0 {
		temperature = 0.7
	}
	if maxTokens == 0 {
		maxTokens = 2048
	}

	return &GeminiProvider{
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		baseURL:     geminiBaseURL,
		client:      &http.Client{Timeout: requestTimeout},
	}
}

func (p *GeminiProvider) GetProviderName() string {
	return "Google Gemini"
}

// Gemini REST API request/response structures
type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature     float32 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// buildGeminiContents maps history onto Gemini roles. The v1 endpoint has no
// system instruction, so the system prompt leads the first user turn.
func buildGeminiContents(systemPrompt string, history []Message) []geminiContent {
	contents := make([]geminiContent, 0, len(history)+1)
	pending := systemPrompt
	for _, m := range history {
		role := "user"
		text := m.Content
		if normalizeRole(m.Role) == RoleAssistant {
			role = "model"
		} else if pending != "" {
			text = pending + "\n\n" + text
			pending = ""
		}
		contents = append(contents, geminiContent{Parts: []geminiPart{{Text: text}}, Role: role})
	}
	if pending != "" {
		contents = append([]geminiContent{{Parts: []geminiPart{{Text: pending}}, Role: "user"}}, contents...)
	}
	return contents
}

func (p *GeminiProvider) Chat(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, p.model, p.apiKey)

	reqBody := geminiRequest{
		Contents: buildGeminiContents(systemPrompt, history),
		GenerationConfig: geminiGenerationConfig{
			Temperature:     p.temperature,
			MaxOutputTokens: p.maxTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini error (model: %s, status: %d): %s", p.model, resp.StatusCode, string(body))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no response from Gemini (candidates: %d)", len(geminiResp.Candidates))
	}

	return geminiResp.Candidates[0].Content.Parts[0].Text, nil
}
