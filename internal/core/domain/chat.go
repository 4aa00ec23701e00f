package domain

import "time"

// Chat is one ongoing conversation between one user and one persona. The
// persona binding is fixed for the chat's lifetime.
type Chat struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	PersonaID string    `json:"role_id"`
	Title     string    `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SenderType identifies which side of the conversation authored a message.
type SenderType string

const (
	SenderUser SenderType = "user"
	SenderAI   SenderType = "ai"
)

// Message is one entry in a chat's append-only ledger. Within a chat,
// OrderInChat values form a contiguous sequence starting at 0, assigned at
// append time. Messages are never edited or deleted.
type Message struct {
	ID          string     `json:"id"`
	ChatID      string     `json:"chat_id"`
	SenderType  SenderType `json:"sender_type"`
	Content     string     `json:"content"`
	Timestamp   time.Time  `json:"timestamp"`
	OrderInChat int        `json:"order_in_chat"`
}
