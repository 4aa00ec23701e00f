package ports

import (
	"context"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

// UserRepository defines the interface for user account persistence.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the
	// username or email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
}
