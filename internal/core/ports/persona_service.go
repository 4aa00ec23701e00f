package ports

import (
	"context"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

// CreatePersonaInput carries all data needed to define a new persona.
type CreatePersonaInput struct {
	Name            string
	Description     string
	SystemPrompt    string
	FewShotExamples []domain.FewShotExample
	IsActive        bool
}

// PersonaService defines use-case operations for the persona registry.
type PersonaService interface {
	// SeedDefaults inserts each built-in persona unless one of the same
	// name already exists. Idempotent across restarts.
	SeedDefaults(ctx context.Context) error
	Create(ctx context.Context, input CreatePersonaInput, actor *domain.User) (*domain.Persona, error)
	GetActive(ctx context.Context, id string) (*domain.Persona, error)
	ListActive(ctx context.Context) ([]*domain.Persona, error)
}
