// Package prompt turns a persona definition and a chat's persisted history
// into the ordered, role-tagged turn sequence sent to the completion model.
package prompt

import (
	"github.com/cloudwego/eino/schema"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

// Assemble builds the full prompt for one completion call:
//
//	1. the system prompt, verbatim
//	2. the few-shot examples in stored order, user side before ai side
//	3. the chat history in ascending order_in_chat
//	4. the new user message
//
// The function is pure: no truncation, no deduplication, no token budgeting.
// The full history is resent on every turn.
func Assemble(systemPrompt string, examples []domain.FewShotExample, history []*domain.Message, userMessage string) []*schema.Message {
	turns := make([]*schema.Message, 0, 2+2*len(examples)+len(history))

	turns = append(turns, &schema.Message{Role: schema.System, Content: systemPrompt})

	for _, ex := range examples {
		if ex.User != "" {
			turns = append(turns, &schema.Message{Role: schema.User, Content: ex.User})
		}
		if ex.AI != "" {
			turns = append(turns, &schema.Message{Role: schema.Assistant, Content: ex.AI})
		}
	}

	for _, msg := range history {
		role := schema.Assistant
		if msg.SenderType == domain.SenderUser {
			role = schema.User
		}
		turns = append(turns, &schema.Message{Role: role, Content: msg.Content})
	}

	return append(turns, &schema.Message{Role: schema.User, Content: userMessage})
}
