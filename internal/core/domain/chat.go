package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ConversationTurn is one prior message handed to the pipeline. The sequence
// is caller-supplied and read-only to the pipeline.
type ConversationTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Region       string    `json:"region"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ChatSession struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	UserID      string    `json:"user_id"`
	LastMessage string    `json:"last_message"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Message struct {
	ID            string          `json:"id"`
	Content       string          `json:"content"`
	Sender        string          `json:"sender"`
	ChatSessionID string          `json:"chat_session_id"`
	Metadata      *AnswerMetadata `json:"metadata,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AnswerMetadata is stored alongside an assistant message so the client can
// render confidence and citations.
type AnswerMetadata struct {
	Confidence   float64      `json:"confidence"`
	ResponseType ResponseType `json:"response_type"`
	Sources      []Source     `json:"sources"`
}
