package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/shared/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	system  string
	history []Message
	reply   string
	err     error
}

func (s *stubProvider) Chat(ctx context.Context, systemPrompt string, history []Message) (string, error) {
	s.system = systemPrompt
	s.history = history
	return s.reply, s.err
}

func (s *stubProvider) GetProviderName() string { return "stub" }

func TestService_CompleteDelegatesToProvider(t *testing.T) {
	stub := &stubProvider{reply: "hello"}
	svc := NewServiceWithProvider(stub)

	history := []Message{{Role: RoleUser, Content: "my printer jams"}}
	reply, err := svc.Complete(context.Background(), "be brief", history)

	require.NoError(t, err)
	assert.Equal(t, "hello", reply)
	assert.Equal(t, "be brief", stub.system)
	assert.Equal(t, history, stub.history)
	assert.Equal(t, "stub", svc.GetProviderName())
}

func TestNewProvider_RequiresKey(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Type: ProviderOpenAI})
	assert.Error(t, err)

	_, err = NewProvider(&ProviderConfig{Type: "unknown"})
	assert.Error(t, err)

	p, err := NewProvider(&ProviderConfig{Type: ProviderGroq, GroqKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, "Groq", p.GetProviderName())
}

func TestProviderConfigFrom_DefaultModel(t *testing.T) {
	cfg := ProviderConfigFrom(&config.Config{LLMProvider: "deepseek"})
	assert.Equal(t, ProviderDeepSeek, cfg.Type)
	assert.Equal(t, "deepseek-chat", cfg.Model)

	cfg = ProviderConfigFrom(&config.Config{LLMModel: "gpt-4.1"})
	assert.Equal(t, ProviderOpenAI, cfg.Type)
	assert.Equal(t, "gpt-4.1", cfg.Model)
}

func TestToOpenAIMessages_MapsRoles(t *testing.T) {
	msgs := toOpenAIMessages("sys", []Message{
		{Role: "user", Content: "a"},
		{Role: "assistant", Content: "b"},
		{Role: "system", Content: "c"},
	})

	require.Len(t, msgs, 4)
	assert.Equal(t, "system", msgs[0].Role)
	assert.Equal(t, "user", msgs[1].Role)
	assert.Equal(t, "assistant", msgs[2].Role)
	assert.Equal(t, "user", msgs[3].Role)
}

func TestBuildGeminiContents_PrefixesFirstUserTurn(t *testing.T) {
	contents := buildGeminiContents("sys", []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: "broken"},
	})

	require.Len(t, contents, 3)
	assert.Equal(t, "sys\n\nhi", contents[0].Parts[0].Text)
	assert.Equal(t, "model", contents[1].Role)
	assert.Equal(t, "broken", contents[2].Parts[0].Text)
}

func TestClaudeProvider_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))

		var req claudeRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "sys", req.System)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "assistant", req.Messages[1].Role)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"text":"diagnosed"}]}`))
	}))
	defer server.Close()

	p := NewClaudeProvider("test-key", "", 0, 0)
	p.url = server.URL

	reply, err := p.Chat(context.Background(), "sys", []Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "what brand?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "diagnosed", reply)
}

func TestClaudeProvider_ChatErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	p := NewClaudeProvider("k", "", 0, 0)
	p.url = server.URL

	_, err := p.Chat(context.Background(), "", []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
