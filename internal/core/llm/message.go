package llm

import "strings"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a chat history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// normalizeRole keeps history to user/assistant turns. Anything else coming
// from the widget (including "system") is treated as user text.
func normalizeRole(role string) string {
	if strings.EqualFold(strings.TrimSpace(role), RoleAssistant) {
		return RoleAssistant
	}
	return RoleUser
}
