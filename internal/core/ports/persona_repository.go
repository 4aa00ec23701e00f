package ports

import (
	"context"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

// PersonaRepository defines persistence operations for personas.
type PersonaRepository interface {
	Insert(ctx context.Context, p *domain.Persona) (*domain.Persona, error)
	// FindByName matches active and inactive personas alike; seeding keys
	// on name, not id.
	FindByName(ctx context.Context, name string) (*domain.Persona, error)
	// FindByID ignores the active flag. Used for integrity lookups only.
	FindByID(ctx context.Context, id string) (*domain.Persona, error)
	// FindActiveByID returns domain.ErrPersonaNotFound for inactive or
	// missing personas alike.
	FindActiveByID(ctx context.Context, id string) (*domain.Persona, error)
	ListActive(ctx context.Context) ([]*domain.Persona, error)
}
