package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// TokenAuthenticator resolves a bearer token to its user, or nil.
type TokenAuthenticator interface {
	AuthenticateWithToken(ctx context.Context, token string) (*domain.User, error)
}

// UserService is the user resource plus credential management.
// No method returns the password hash.
type UserService interface {
	CRUDService[domain.User, domain.UserInput]
	TokenAuthenticator
	AuthenticateWithPassword(ctx context.Context, email, password string) (*domain.User, error)
	SetPassword(ctx context.Context, user *domain.User, password string) (*domain.User, error)
	RegenerateToken(ctx context.Context, user *domain.User) (*domain.User, error)
}
