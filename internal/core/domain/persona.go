package domain

import "time"

// FewShotExample is one worked sample exchange injected into the prompt to
// steer the model's style. Either side may be absent, never both.
type FewShotExample struct {
	User string `json:"user,omitempty" bson:"user,omitempty"`
	AI   string `json:"ai,omitempty" bson:"ai,omitempty"`
}

// Valid reports whether the example carries at least one side of the exchange.
func (e FewShotExample) Valid() bool {
	return e.User != "" || e.AI != ""
}

// Persona is a named, reusable AI character definition: a system prompt plus
// optional few-shot dialogue. Personas are shared across chats and read-only
// from a chat's perspective; deactivation hides them from listing and
// selection without touching existing history.
type Persona struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	SystemPrompt    string           `json:"system_prompt"`
	FewShotExamples []FewShotExample `json:"few_shot_examples,omitempty"`
	IsActive        bool             `json:"is_active"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
}
