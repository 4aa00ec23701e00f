package ports

import (
	"context"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

// CreateChatInput carries the parameters for starting a new chat session.
type CreateChatInput struct {
	UserID    string
	PersonaID string
	// Title is optional; empty defaults to the persona name.
	Title string
}

// ChatService defines use-case operations for chat sessions and the
// message turn orchestration.
type ChatService interface {
	CreateChat(ctx context.Context, input CreateChatInput) (*domain.Chat, error)
	ListChats(ctx context.Context, userID string) ([]*domain.Chat, error)
	GetMessages(ctx context.Context, chatID, userID string) ([]*domain.Message, error)
	// SendMessage persists the user's turn, obtains the AI reply, persists
	// it at the next order, and returns the persisted AI message.
	SendMessage(ctx context.Context, chatID, userID, content string) (*domain.Message, error)
}
