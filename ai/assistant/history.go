package assistant

import (
	"strings"

	"github.com/feeleurope/luxeagent/ai/core/llm"
)

// MaxHistory is how many past messages are sent to the model.
const MaxHistory = 12

// IncomingMessage is a chat message as sent by a client. Content is left
// untyped because clients are not trusted to send strings.
type IncomingMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// NormalizeMessages keeps user and assistant messages with non-empty string
// content, trimmed.
func NormalizeMessages(in []IncomingMessage) []llm.Message {
	out := make([]llm.Message, 0, len(in))
	for _, m := range in {
		if m.Role != "user" && m.Role != "assistant" {
			continue
		}
		s, ok := m.Content.(string)
		if !ok {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, llm.Message{Role: m.Role, Content: s})
		}
	}
	return out
}

// PickRecent returns the last n messages.
func PickRecent(messages []llm.Message, n int) []llm.Message {
	if n <= 0 || len(messages) == 0 {
		return nil
	}
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}

// LastUserContent returns the content of the most recent user message.
func LastUserContent(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	return ""
}
