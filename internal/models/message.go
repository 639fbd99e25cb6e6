package models

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

// ChatMessage is a single conversation entry. Entries are only ever appended;
// their order is the order replayed to the backend on every turn.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: User, Content: content}
}

func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: Assistant, Content: content}
}
