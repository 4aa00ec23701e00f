package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/plumon/roleplay-chat/internal/core/domain"
	"github.com/plumon/roleplay-chat/internal/core/ports"
)

// PersonaService implements the persona registry.
type PersonaService struct {
	repo ports.PersonaRepository
	// adminOnly gates persona creation to admin users when set.
	adminOnly bool
	logger    zerolog.Logger
}

func NewPersonaService(repo ports.PersonaRepository, adminOnly bool, logger zerolog.Logger) *PersonaService {
	return &PersonaService{repo: repo, adminOnly: adminOnly, logger: logger}
}

// SeedDefaults inserts every built-in persona whose name is not yet taken.
// Matching is by name, active or not, so a restart never duplicates entries.
func (s *PersonaService) SeedDefaults(ctx context.Context) error {
	for _, def := range defaultPersonas {
		_, err := s.repo.FindByName(ctx, def.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrPersonaNotFound) {
			return fmt.Errorf("seed personas: lookup %q: %w", def.Name, err)
		}

		if _, err := s.insert(ctx, def); err != nil {
			return fmt.Errorf("seed personas: insert %q: %w", def.Name, err)
		}
		s.logger.Info().Str("persona", def.Name).Msg("seeded built-in persona")
	}
	return nil
}

func (s *PersonaService) Create(ctx context.Context, input ports.CreatePersonaInput, actor *domain.User) (*domain.Persona, error) {
	if s.adminOnly && (actor == nil || !actor.IsAdmin) {
		return nil, domain.ErrForbidden
	}
	for _, ex := range input.FewShotExamples {
		if !ex.Valid() {
			return nil, domain.ErrInvalidExample
		}
	}

	created, err := s.insert(ctx, input)
	if err != nil {
		s.logger.Error().Err(err).Str("persona", input.Name).Msg("failed to create persona")
		return nil, err
	}

	s.logger.Info().Str("persona", created.Name).Str("persona_id", created.ID).Msg("persona created")
	return created, nil
}

func (s *PersonaService) GetActive(ctx context.Context, id string) (*domain.Persona, error) {
	return s.repo.FindActiveByID(ctx, id)
}

func (s *PersonaService) ListActive(ctx context.Context) ([]*domain.Persona, error) {
	return s.repo.ListActive(ctx)
}

func (s *PersonaService) insert(ctx context.Context, input ports.CreatePersonaInput) (*domain.Persona, error) {
	now := time.Now().UTC()
	return s.repo.Insert(ctx, &domain.Persona{
		Name:            input.Name,
		Description:     input.Description,
		SystemPrompt:    input.SystemPrompt,
		FewShotExamples: input.FewShotExamples,
		IsActive:        input.IsActive,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
}
