package models

// Role of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationMessage is one turn of the assistant transcript.
type ConversationMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Language is a supported assistant/speech language.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}
