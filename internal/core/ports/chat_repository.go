package ports

import (
	"context"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

// ChatRepository defines persistence operations for chat sessions.
type ChatRepository interface {
	Insert(ctx context.Context, chat *domain.Chat) (*domain.Chat, error)
	// FindByIDForUser enforces ownership in the query itself: a chat owned
	// by another user is indistinguishable from a missing one
	// (domain.ErrChatNotFound either way).
	FindByIDForUser(ctx context.Context, chatID, userID string) (*domain.Chat, error)
	// ListByUser returns the user's chats newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Chat, error)
	// Delete removes a chat document. Used to compensate a failed greeting
	// append, so a chat is never observable without its first message.
	Delete(ctx context.Context, chatID string) error
}

// MessageRepository defines persistence operations for the per-chat message
// ledger. CountByChat followed by Insert is only safe under the per-chat
// serialization the service layer provides.
type MessageRepository interface {
	CountByChat(ctx context.Context, chatID string) (int64, error)
	Insert(ctx context.Context, msg *domain.Message) (*domain.Message, error)
	// ListByChat returns messages ordered by order_in_chat ascending.
	ListByChat(ctx context.Context, chatID string) ([]*domain.Message, error)
}
