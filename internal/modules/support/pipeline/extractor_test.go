package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/MuhamadAgungGumelar/quote-desk-be/internal/core/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, systemPrompt string, history []llm.Message) (string, error) {
	args := m.Called(ctx, systemPrompt, history)
	return args.String(0), args.Error(1)
}

const completionWithBlock = `Thanks! Your Brother laser printer jams on every page, a technician can help.
<diagnostic>
{"serviceType":"printer_repair","deviceType":"laser_printer","deviceBrand":"Brother","deviceModel":"HL-L2350DW","problemDescription":"Jams","location":null,"urgency":null,"extraData":{}}
</diagnostic>
<ready_for_quote>`

func TestParseCompletion_WithDiagnostic(t *testing.T) {
	out := ParseCompletion(completionWithBlock)

	require.NotNil(t, out.Diagnostic)
	assert.NoError(t, out.ParseErr)
	assert.True(t, out.ReadyForQuote)
	assert.Equal(t, "Brother", *out.Diagnostic.DeviceBrand)
	assert.Equal(t, "Thanks! Your Brother laser printer jams on every page, a technician can help.", out.Reply)
}

func TestParseCompletion_InvalidJSONKeepsReply(t *testing.T) {
	out := ParseCompletion("Here is your summary.\n<diagnostic>{\"deviceBrand\": \"HP\",,}</diagnostic>\n<ready_for_quote>")

	assert.Nil(t, out.Diagnostic)
	assert.Error(t, out.ParseErr)
	assert.Equal(t, "Here is your summary.", out.Reply)
	assert.NotContains(t, out.Reply, "<diagnostic>")
	assert.NotContains(t, out.Reply, readyMarker)
}

func TestParseCompletion_NoBlock(t *testing.T) {
	out := ParseCompletion("  Which model is it?  ")

	assert.Nil(t, out.Diagnostic)
	assert.NoError(t, out.ParseErr)
	assert.False(t, out.ReadyForQuote)
	assert.Equal(t, "Which model is it?", out.Reply)
}

func TestParseCompletion_OnlyBlockFallsBack(t *testing.T) {
	out := ParseCompletion("<diagnostic>{}</diagnostic><ready_for_quote>")

	require.NotNil(t, out.Diagnostic)
	assert.Equal(t, FallbackReply, out.Reply)
}

func TestSystemPrompt(t *testing.T) {
	assert.Equal(t, BasePrompt, SystemPrompt("   "))
	assert.True(t, strings.HasPrefix(SystemPrompt("You work for Acme."), "You work for Acme.\n\n"))
	assert.True(t, strings.HasSuffix(SystemPrompt("You work for Acme."), BasePrompt))
}

func TestExtractor_Extract(t *testing.T) {
	history := []llm.Message{{Role: "user", Content: "My printer jams"}}
	completer := new(mockCompleter)
	completer.On("Complete", mock.Anything, "Be polite.\n\n"+BasePrompt, history).Return(completionWithBlock, nil)

	out, err := NewExtractor(completer).Extract(context.Background(), "Be polite.", history)

	require.NoError(t, err)
	require.NotNil(t, out.Diagnostic)
	assert.Equal(t, DeviceLaserPrinter, *out.Diagnostic.DeviceType)
	completer.AssertExpectations(t)
}

func TestExtractor_CompletionError(t *testing.T) {
	completer := new(mockCompleter)
	completer.On("Complete", mock.Anything, BasePrompt, mock.Anything).Return("", errors.New("timeout"))

	out, err := NewExtractor(completer).Extract(context.Background(), "", nil)

	assert.Error(t, err)
	assert.Nil(t, out)
}
