package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/plumon/roleplay-chat/internal/core/domain"
	"github.com/plumon/roleplay-chat/internal/core/ports"
	"github.com/plumon/roleplay-chat/internal/core/prompt"
	"github.com/plumon/roleplay-chat/internal/metrics"
)

// ChatLocker serializes message appends per chat (Redis-backed in
// production). order_in_chat is assigned count-then-write, which is only
// correct while no two appends for the same chat run concurrently.
type ChatLocker interface {
	// Lock blocks until the chat's lock is held or ctx expires. The
	// returned function releases the lock.
	Lock(ctx context.Context, chatID string) (func(), error)
}

// ChatService orchestrates chat sessions and message turns.
type ChatService struct {
	chats      ports.ChatRepository
	messages   ports.MessageRepository
	personas   ports.PersonaRepository
	completion ports.CompletionGateway
	locker     ChatLocker
	logger     zerolog.Logger
}

func NewChatService(
	chats ports.ChatRepository,
	messages ports.MessageRepository,
	personas ports.PersonaRepository,
	completion ports.CompletionGateway,
	locker ChatLocker,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{
		chats:      chats,
		messages:   messages,
		personas:   personas,
		completion: completion,
		locker:     locker,
		logger:     logger,
	}
}

// CreateChat starts a session against an active persona and writes the
// synthesized AI greeting at order 0. A chat without its greeting must never
// be observable: when the lock or the greeting append fails, the freshly
// inserted chat is deleted again before the error is returned.
func (s *ChatService) CreateChat(ctx context.Context, input ports.CreateChatInput) (*domain.Chat, error) {
	persona, err := s.personas.FindActiveByID(ctx, input.PersonaID)
	if err != nil {
		return nil, err
	}

	title := input.Title
	if title == "" {
		title = persona.Name
	}

	now := time.Now().UTC()
	chat, err := s.chats.Insert(ctx, &domain.Chat{
		UserID:    input.UserID,
		PersonaID: persona.ID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	unlock, err := s.locker.Lock(ctx, chat.ID)
	if err != nil {
		s.discardChat(ctx, chat.ID)
		return nil, fmt.Errorf("create chat: lock: %w", err)
	}
	defer unlock()

	if _, err := s.append(ctx, chat.ID, domain.SenderAI, greeting(persona)); err != nil {
		s.discardChat(ctx, chat.ID)
		return nil, fmt.Errorf("create chat: greeting: %w", err)
	}

	metrics.ChatsCreatedTotal.WithLabelValues(persona.Name).Inc()
	s.logger.Info().Str("chat_id", chat.ID).Str("persona", persona.Name).Str("user_id", input.UserID).Msg("chat created")

	return chat, nil
}

// discardChat removes a chat whose greeting could not be written. Runs
// detached from the request context so a cancelled request still cleans up.
func (s *ChatService) discardChat(ctx context.Context, chatID string) {
	if err := s.chats.Delete(context.WithoutCancel(ctx), chatID); err != nil {
		s.logger.Error().Err(err).Str("chat_id", chatID).Msg("failed to discard chat without greeting")
	}
}

func (s *ChatService) ListChats(ctx context.Context, userID string) ([]*domain.Chat, error) {
	return s.chats.ListByUser(ctx, userID)
}

func (s *ChatService) GetMessages(ctx context.Context, chatID, userID string) ([]*domain.Message, error) {
	if _, err := s.chats.FindByIDForUser(ctx, chatID, userID); err != nil {
		return nil, err
	}
	return s.messages.ListByChat(ctx, chatID)
}

// SendMessage runs one full turn: persist the user's message, rebuild the
// prompt from the persona and the complete history, obtain the AI reply,
// persist it at the next order, and return it. A completion failure never
// fails the turn: the gateway substitutes the fallback reply.
func (s *ChatService) SendMessage(ctx context.Context, chatID, userID, content string) (*domain.Message, error) {
	chat, err := s.chats.FindByIDForUser(ctx, chatID, userID)
	if err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("send message: lock: %w", err)
	}
	defer unlock()

	// The user's message is committed to the ledger before anything else
	// can fail; a turn that errors later still keeps it.
	userMsg, err := s.append(ctx, chatID, domain.SenderUser, content)
	if err != nil {
		return nil, fmt.Errorf("send message: persist user message: %w", err)
	}

	persona, err := s.personas.FindByID(ctx, chat.PersonaID)
	if err != nil {
		if errors.Is(err, domain.ErrPersonaNotFound) {
			s.logger.Error().Str("chat_id", chatID).Str("persona_id", chat.PersonaID).Msg("chat references missing persona")
			return nil, domain.ErrPersonaIntegrity
		}
		return nil, fmt.Errorf("send message: load persona: %w", err)
	}

	// Full ordered history, the just-persisted user message included.
	history, err := s.messages.ListByChat(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("send message: load history: %w", err)
	}

	turns := prompt.Assemble(persona.SystemPrompt, persona.FewShotExamples, history, content)
	reply := s.completion.Complete(ctx, turns)

	aiMsg, err := s.append(ctx, chatID, domain.SenderAI, reply)
	if err != nil {
		return nil, fmt.Errorf("send message: persist ai message: %w", err)
	}

	metrics.ChatTurnsTotal.WithLabelValues(persona.Name).Inc()
	s.logger.Info().
		Str("chat_id", chatID).
		Int("user_order", userMsg.OrderInChat).
		Int("ai_order", aiMsg.OrderInChat).
		Msg("turn completed")

	return aiMsg, nil
}

// append assigns order_in_chat as the current message count. Callers must
// hold the chat's lock.
func (s *ChatService) append(ctx context.Context, chatID string, sender domain.SenderType, content string) (*domain.Message, error) {
	count, err := s.messages.CountByChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	return s.messages.Insert(ctx, &domain.Message{
		ChatID:      chatID,
		SenderType:  sender,
		Content:     content,
		Timestamp:   time.Now().UTC(),
		OrderInChat: int(count),
	})
}

func greeting(p *domain.Persona) string {
	return fmt.Sprintf("Hi, I'm %s! %s", p.Name, p.Description)
}
