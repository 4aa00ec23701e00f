package prompt

import (
	"reflect"
	"testing"

	"github.com/cloudwego/eino/schema"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

func TestAssemble_Order(t *testing.T) {
	examples := []domain.FewShotExample{
		{User: "hey there", AI: "hello, citizen!"},
	}
	history := []*domain.Message{
		{ChatID: "c1", SenderType: domain.SenderAI, Content: "greeting", OrderInChat: 0},
		{ChatID: "c1", SenderType: domain.SenderUser, Content: "first question", OrderInChat: 1},
		{ChatID: "c1", SenderType: domain.SenderAI, Content: "first answer", OrderInChat: 2},
	}

	turns := Assemble("be the hero", examples, history, "second question")

	want := []struct {
		role    schema.RoleType
		content string
	}{
		{schema.System, "be the hero"},
		{schema.User, "hey there"},
		{schema.Assistant, "hello, citizen!"},
		{schema.Assistant, "greeting"},
		{schema.User, "first question"},
		{schema.Assistant, "first answer"},
		{schema.User, "second question"},
	}

	if len(turns) != len(want) {
		t.Fatalf("expected %d turns, got %d", len(want), len(turns))
	}
	for i, w := range want {
		if turns[i].Role != w.role || turns[i].Content != w.content {
			t.Errorf("turn %d: expected {%s %q}, got {%s %q}", i, w.role, w.content, turns[i].Role, turns[i].Content)
		}
	}
}

func TestAssemble_PartialExamples(t *testing.T) {
	examples := []domain.FewShotExample{
		{User: "only the user side"},
		{AI: "only the ai side"},
		{User: "both sides", AI: "indeed"},
	}

	turns := Assemble("sys", examples, nil, "hi")

	// 1 system + 1 + 1 + 2 example turns + 1 user message
	if len(turns) != 6 {
		t.Fatalf("expected 6 turns, got %d", len(turns))
	}
	if turns[1].Role != schema.User || turns[2].Role != schema.Assistant {
		t.Errorf("partial examples mapped to wrong roles: %s, %s", turns[1].Role, turns[2].Role)
	}
	// both-sides example emits user before assistant
	if turns[3].Role != schema.User || turns[4].Role != schema.Assistant {
		t.Errorf("expected user turn before assistant turn, got %s then %s", turns[3].Role, turns[4].Role)
	}
}

func TestAssemble_TurnCount(t *testing.T) {
	history := make([]*domain.Message, 9)
	for i := range history {
		sender := domain.SenderUser
		if i%2 == 0 {
			sender = domain.SenderAI
		}
		history[i] = &domain.Message{SenderType: sender, Content: "m", OrderInChat: i}
	}
	examples := []domain.FewShotExample{
		{User: "u1", AI: "a1"},
		{User: "u2", AI: "a2"},
	}

	turns := Assemble("sys", examples, history, "next")

	// 1 system + 2×2 examples + 9 history + 1 new message
	if len(turns) != 15 {
		t.Fatalf("expected 15 turns, got %d", len(turns))
	}
	last := turns[len(turns)-1]
	if last.Role != schema.User || last.Content != "next" {
		t.Errorf("last turn must be the new user message, got {%s %q}", last.Role, last.Content)
	}
}

func TestAssemble_Deterministic(t *testing.T) {
	examples := []domain.FewShotExample{{User: "q", AI: "a"}}
	history := []*domain.Message{{SenderType: domain.SenderAI, Content: "hello", OrderInChat: 0}}

	first := Assemble("sys", examples, history, "msg")
	second := Assemble("sys", examples, history, "msg")

	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different turn sequences")
	}
}

func TestAssemble_EmptyHistoryAndExamples(t *testing.T) {
	turns := Assemble("sys", nil, nil, "hi")
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != schema.System || turns[1].Role != schema.User {
		t.Errorf("unexpected roles: %s, %s", turns[0].Role, turns[1].Role)
	}
}
