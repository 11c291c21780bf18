package tips

import "context"

const (
	ChatRoleSystem    = "system"
	ChatRoleUser      = "user"
	ChatRoleAssistant = "assistant"
)

// ChatMessage is one turn of a tip conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// LLMClient produces a completion for a conversation.
type LLMClient interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}
