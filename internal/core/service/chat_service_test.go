package service

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"github.com/plumon/roleplay-chat/internal/core/domain"
	"github.com/plumon/roleplay-chat/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

type stubChatRepo struct {
	chats  map[string]*domain.Chat
	nextID int
}

func newStubChatRepo() *stubChatRepo {
	return &stubChatRepo{chats: make(map[string]*domain.Chat)}
}

func (r *stubChatRepo) Insert(_ context.Context, chat *domain.Chat) (*domain.Chat, error) {
	copy := *chat
	r.nextID++
	copy.ID = "chat_" + strconv.Itoa(r.nextID)
	r.chats[copy.ID] = &copy
	out := copy
	return &out, nil
}

func (r *stubChatRepo) FindByIDForUser(_ context.Context, chatID, userID string) (*domain.Chat, error) {
	if c, ok := r.chats[chatID]; ok && c.UserID == userID {
		copy := *c
		return &copy, nil
	}
	return nil, domain.ErrChatNotFound
}

func (r *stubChatRepo) ListByUser(_ context.Context, userID string) ([]*domain.Chat, error) {
	var out []*domain.Chat
	for _, c := range r.chats {
		if c.UserID == userID {
			copy := *c
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubChatRepo) Delete(_ context.Context, chatID string) error {
	if _, ok := r.chats[chatID]; !ok {
		return domain.ErrChatNotFound
	}
	delete(r.chats, chatID)
	return nil
}

type stubMessageRepo struct {
	byChat    map[string][]*domain.Message
	insertErr error
	nextID    int
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{byChat: make(map[string][]*domain.Message)}
}

func (r *stubMessageRepo) CountByChat(_ context.Context, chatID string) (int64, error) {
	return int64(len(r.byChat[chatID])), nil
}

func (r *stubMessageRepo) Insert(_ context.Context, msg *domain.Message) (*domain.Message, error) {
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	copy := *msg
	r.nextID++
	copy.ID = "msg_" + strconv.Itoa(r.nextID)
	r.byChat[copy.ChatID] = append(r.byChat[copy.ChatID], &copy)
	out := copy
	return &out, nil
}

func (r *stubMessageRepo) ListByChat(_ context.Context, chatID string) ([]*domain.Message, error) {
	msgs := r.byChat[chatID]
	out := make([]*domain.Message, len(msgs))
	for i, m := range msgs {
		copy := *m
		out[i] = &copy
	}
	return out, nil
}

type stubLocker struct {
	locks   int
	unlocks int
	lockErr error
}

func (l *stubLocker) Lock(_ context.Context, _ string) (func(), error) {
	if l.lockErr != nil {
		return nil, l.lockErr
	}
	l.locks++
	return func() { l.unlocks++ }, nil
}

type stubCompletion struct {
	reply string
	turns []*schema.Message // captured from the last call
	calls int
}

func (s *stubCompletion) Complete(_ context.Context, turns []*schema.Message) string {
	s.calls++
	s.turns = turns
	return s.reply
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

type chatFixture struct {
	svc        *ChatService
	chats      *stubChatRepo
	messages   *stubMessageRepo
	personas   *stubPersonaRepo
	locker     *stubLocker
	completion *stubCompletion
}

func newChatFixture(reply string) *chatFixture {
	f := &chatFixture{
		chats:      newStubChatRepo(),
		messages:   newStubMessageRepo(),
		personas:   newStubPersonaRepo(),
		locker:     &stubLocker{},
		completion: &stubCompletion{reply: reply},
	}
	f.svc = NewChatService(f.chats, f.messages, f.personas, f.completion, f.locker, zerolog.Nop())
	return f
}

func (f *chatFixture) seedPersona(t *testing.T, active bool) *domain.Persona {
	t.Helper()
	now := time.Now().UTC()
	p, err := f.personas.Insert(context.Background(), &domain.Persona{
		Name:         "Spider-Man",
		Description:  "Friendly neighborhood hero.",
		SystemPrompt: "You are Spider-Man.",
		FewShotExamples: []domain.FewShotExample{
			{User: "hey", AI: "hey yourself, citizen!"},
		},
		IsActive:  active,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("seed persona: %v", err)
	}
	return p
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestChatService_CreateChat_WritesGreeting(t *testing.T) {
	f := newChatFixture("ok")
	persona := f.seedPersona(t, true)

	chat, err := f.svc.CreateChat(context.Background(), ports.CreateChatInput{
		UserID:    "u1",
		PersonaID: persona.ID,
	})
	if err != nil {
		t.Fatalf("CreateChat returned error: %v", err)
	}
	if chat.Title != "Spider-Man" {
		t.Errorf("expected title defaulted to persona name, got %q", chat.Title)
	}

	msgs := f.messages.byChat[chat.ID]
	if len(msgs) != 1 {
		t.Fatalf("expected exactly one greeting message, got %d", len(msgs))
	}
	if msgs[0].SenderType != domain.SenderAI || msgs[0].OrderInChat != 0 {
		t.Errorf("greeting must be an AI message at order 0, got %s at %d", msgs[0].SenderType, msgs[0].OrderInChat)
	}
	if f.locker.locks != 1 || f.locker.unlocks != 1 {
		t.Errorf("expected greeting write under one lock/unlock, got %d/%d", f.locker.locks, f.locker.unlocks)
	}
}

func TestChatService_CreateChat_CustomTitle(t *testing.T) {
	f := newChatFixture("ok")
	persona := f.seedPersona(t, true)

	chat, err := f.svc.CreateChat(context.Background(), ports.CreateChatInput{
		UserID:    "u1",
		PersonaID: persona.ID,
		Title:     "web talk",
	})
	if err != nil {
		t.Fatalf("CreateChat returned error: %v", err)
	}
	if chat.Title != "web talk" {
		t.Errorf("expected custom title kept, got %q", chat.Title)
	}
}

func TestChatService_CreateChat_InactivePersona(t *testing.T) {
	f := newChatFixture("ok")
	persona := f.seedPersona(t, false)

	_, err := f.svc.CreateChat(context.Background(), ports.CreateChatInput{
		UserID:    "u1",
		PersonaID: persona.ID,
	})
	if !errors.Is(err, domain.ErrPersonaNotFound) {
		t.Fatalf("expected ErrPersonaNotFound, got %v", err)
	}
	if len(f.chats.chats) != 0 {
		t.Errorf("expected no chat persisted")
	}
	if len(f.messages.byChat) != 0 {
		t.Errorf("expected no message persisted")
	}
}

func TestChatService_CreateChat_GreetingFailureDiscardsChat(t *testing.T) {
	f := newChatFixture("ok")
	persona := f.seedPersona(t, true)
	f.messages.insertErr = errors.New("mongo unavailable")

	_, err := f.svc.CreateChat(context.Background(), ports.CreateChatInput{
		UserID:    "u1",
		PersonaID: persona.ID,
	})
	if err == nil {
		t.Fatalf("expected error when the greeting cannot be written")
	}
	if len(f.chats.chats) != 0 {
		t.Errorf("a chat without its greeting must not remain persisted, found %d", len(f.chats.chats))
	}
}

func TestChatService_CreateChat_LockFailureDiscardsChat(t *testing.T) {
	f := newChatFixture("ok")
	persona := f.seedPersona(t, true)
	f.locker.lockErr = errors.New("redis unreachable")

	_, err := f.svc.CreateChat(context.Background(), ports.CreateChatInput{
		UserID:    "u1",
		PersonaID: persona.ID,
	})
	if err == nil {
		t.Fatalf("expected error when the chat lock cannot be acquired")
	}
	if len(f.chats.chats) != 0 {
		t.Errorf("a chat without its greeting must not remain persisted, found %d", len(f.chats.chats))
	}
	if len(f.messages.byChat) != 0 {
		t.Errorf("expected no message persisted")
	}
}

func TestChatService_CreateChat_MissingPersona(t *testing.T) {
	f := newChatFixture("ok")

	_, err := f.svc.CreateChat(context.Background(), ports.CreateChatInput{
		UserID:    "u1",
		PersonaID: "persona_404",
	})
	if !errors.Is(err, domain.ErrPersonaNotFound) {
		t.Fatalf("expected ErrPersonaNotFound, got %v", err)
	}
}

func TestChatService_SendMessage_HappyPath(t *testing.T) {
	f := newChatFixture("thwip!")
	persona := f.seedPersona(t, true)

	chat, err := f.svc.CreateChat(context.Background(), ports.CreateChatInput{UserID: "u1", PersonaID: persona.ID})
	if err != nil {
		t.Fatalf("CreateChat: %v", err)
	}

	reply, err := f.svc.SendMessage(context.Background(), chat.ID, "u1", "hi")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if reply.SenderType != domain.SenderAI || reply.Content != "thwip!" {
		t.Fatalf("unexpected reply: %+v", reply)
	}
	if reply.OrderInChat != 2 {
		t.Errorf("expected AI reply at order 2, got %d", reply.OrderInChat)
	}

	msgs := f.messages.byChat[chat.ID]
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages (greeting, user, ai), got %d", len(msgs))
	}
	wantSenders := []domain.SenderType{domain.SenderAI, domain.SenderUser, domain.SenderAI}
	for i, m := range msgs {
		if m.OrderInChat != i {
			t.Errorf("message %d has order %d", i, m.OrderInChat)
		}
		if m.SenderType != wantSenders[i] {
			t.Errorf("message %d has sender %s, want %s", i, m.SenderType, wantSenders[i])
		}
	}
}

func TestChatService_SendMessage_PromptShape(t *testing.T) {
	f := newChatFixture("reply")
	persona := f.seedPersona(t, true)
	chat, _ := f.svc.CreateChat(context.Background(), ports.CreateChatInput{UserID: "u1", PersonaID: persona.ID})

	if _, err := f.svc.SendMessage(context.Background(), chat.ID, "u1", "hi"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	// 1 system + 2 few-shot turns + 2 history (greeting + just-persisted
	// user message) + 1 new user message.
	turns := f.completion.turns
	if len(turns) != 6 {
		t.Fatalf("expected 6 assembled turns, got %d", len(turns))
	}
	if turns[0].Role != schema.System || turns[0].Content != persona.SystemPrompt {
		t.Errorf("first turn must carry the system prompt verbatim")
	}
	last := turns[len(turns)-1]
	if last.Role != schema.User || last.Content != "hi" {
		t.Errorf("last turn must be the new user message, got {%s %q}", last.Role, last.Content)
	}
}

func TestChatService_SendMessage_OrderContiguous(t *testing.T) {
	f := newChatFixture("r")
	persona := f.seedPersona(t, true)
	chat, _ := f.svc.CreateChat(context.Background(), ports.CreateChatInput{UserID: "u1", PersonaID: persona.ID})

	for i := 0; i < 4; i++ {
		if _, err := f.svc.SendMessage(context.Background(), chat.ID, "u1", "turn "+strconv.Itoa(i)); err != nil {
			t.Fatalf("SendMessage %d: %v", i, err)
		}
	}

	msgs := f.messages.byChat[chat.ID]
	if len(msgs) != 9 { // greeting + 4×(user, ai)
		t.Fatalf("expected 9 messages, got %d", len(msgs))
	}
	for i, m := range msgs {
		if m.OrderInChat != i {
			t.Errorf("gap or duplicate at position %d: order %d", i, m.OrderInChat)
		}
	}
}

func TestChatService_SendMessage_NotOwned(t *testing.T) {
	f := newChatFixture("r")
	persona := f.seedPersona(t, true)
	chat, _ := f.svc.CreateChat(context.Background(), ports.CreateChatInput{UserID: "u1", PersonaID: persona.ID})

	before := len(f.messages.byChat[chat.ID])

	// Another user's token must see the chat as missing, not forbidden.
	_, err := f.svc.SendMessage(context.Background(), chat.ID, "u2", "hi")
	if !errors.Is(err, domain.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
	if len(f.messages.byChat[chat.ID]) != before {
		t.Errorf("expected nothing persisted for foreign sender")
	}
	if f.completion.calls != 0 {
		t.Errorf("expected no completion call")
	}
}

func TestChatService_SendMessage_MissingChat(t *testing.T) {
	f := newChatFixture("r")

	_, err := f.svc.SendMessage(context.Background(), "chat_404", "u1", "hi")
	if !errors.Is(err, domain.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound, got %v", err)
	}
}

func TestChatService_SendMessage_VanishedPersona(t *testing.T) {
	f := newChatFixture("r")
	persona := f.seedPersona(t, true)
	chat, _ := f.svc.CreateChat(context.Background(), ports.CreateChatInput{UserID: "u1", PersonaID: persona.ID})

	delete(f.personas.personas, persona.ID)

	_, err := f.svc.SendMessage(context.Background(), chat.ID, "u1", "hi")
	if !errors.Is(err, domain.ErrPersonaIntegrity) {
		t.Fatalf("expected ErrPersonaIntegrity, got %v", err)
	}

	// The user's message is committed before the persona lookup, so the
	// failed turn still keeps it in the ledger.
	msgs := f.messages.byChat[chat.ID]
	if len(msgs) != 2 {
		t.Fatalf("expected greeting plus the user message, got %d messages", len(msgs))
	}
	last := msgs[len(msgs)-1]
	if last.SenderType != domain.SenderUser || last.Content != "hi" {
		t.Errorf("expected the user message persisted last, got %s %q", last.SenderType, last.Content)
	}
	if f.completion.calls != 0 {
		t.Errorf("expected no completion call")
	}
}

func TestChatService_SendMessage_DeactivatedPersonaStillAnswers(t *testing.T) {
	f := newChatFixture("still here")
	persona := f.seedPersona(t, true)
	chat, _ := f.svc.CreateChat(context.Background(), ports.CreateChatInput{UserID: "u1", PersonaID: persona.ID})

	// Deactivation hides the persona from selection, not from history.
	f.personas.personas[persona.ID].IsActive = false

	reply, err := f.svc.SendMessage(context.Background(), chat.ID, "u1", "hi")
	if err != nil {
		t.Fatalf("SendMessage against deactivated persona failed: %v", err)
	}
	if reply.Content != "still here" {
		t.Errorf("unexpected reply: %q", reply.Content)
	}
}

func TestChatService_SendMessage_FallbackReplyPersisted(t *testing.T) {
	// The gateway never errors; a failed completion arrives here as the
	// fallback text and must be persisted like any other reply.
	f := newChatFixture(FallbackReply)
	persona := f.seedPersona(t, true)
	chat, _ := f.svc.CreateChat(context.Background(), ports.CreateChatInput{UserID: "u1", PersonaID: persona.ID})

	reply, err := f.svc.SendMessage(context.Background(), chat.ID, "u1", "hi")
	if err != nil {
		t.Fatalf("SendMessage returned error: %v", err)
	}
	if reply.Content != FallbackReply {
		t.Fatalf("expected fallback reply persisted, got %q", reply.Content)
	}

	msgs := f.messages.byChat[chat.ID]
	if msgs[len(msgs)-1].Content != FallbackReply {
		t.Errorf("fallback reply not in the ledger")
	}
}

func TestChatService_SendMessage_LockFailure(t *testing.T) {
	f := newChatFixture("r")
	persona := f.seedPersona(t, true)
	chat, _ := f.svc.CreateChat(context.Background(), ports.CreateChatInput{UserID: "u1", PersonaID: persona.ID})

	before := len(f.messages.byChat[chat.ID])
	f.locker.lockErr = errors.New("redis unreachable")

	if _, err := f.svc.SendMessage(context.Background(), chat.ID, "u1", "hi"); err == nil {
		t.Fatalf("expected error when the chat lock cannot be acquired")
	}
	if len(f.messages.byChat[chat.ID]) != before {
		t.Errorf("expected no unguarded append")
	}
}

func TestChatService_GetMessages_EnforcesOwnership(t *testing.T) {
	f := newChatFixture("r")
	persona := f.seedPersona(t, true)
	chat, _ := f.svc.CreateChat(context.Background(), ports.CreateChatInput{UserID: "u1", PersonaID: persona.ID})

	if _, err := f.svc.GetMessages(context.Background(), chat.ID, "u2"); !errors.Is(err, domain.ErrChatNotFound) {
		t.Fatalf("expected ErrChatNotFound for foreign reader, got %v", err)
	}

	msgs, err := f.svc.GetMessages(context.Background(), chat.ID, "u1")
	if err != nil {
		t.Fatalf("GetMessages: %v", err)
	}
	if len(msgs) != 1 || msgs[0].OrderInChat != 0 {
		t.Fatalf("expected the greeting at order 0, got %+v", msgs)
	}
}
