package ports

import (
	"context"

	"github.com/plumon/roleplay-chat/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, email, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
	// Authenticate verifies a bearer token and resolves the user it names.
	// Any failure (bad signature, expired, missing claims, or a user that
	// no longer exists) surfaces as domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}
