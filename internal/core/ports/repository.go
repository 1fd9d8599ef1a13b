package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// Repository defines persistence operations for one entity type.
// Every returned error is a classified *domain.StorageError; a missing row
// satisfies errors.Is(err, domain.ErrNotFound).
type Repository[E any] interface {
	FindAll(ctx context.Context) ([]E, error)
	FindByID(ctx context.Context, id int64) (*E, error)
	Create(ctx context.Context, e *E) error
	// Replace overwrites every column of the row identified by id.
	Replace(ctx context.Context, id int64, e *E) error
	Delete(ctx context.Context, id int64) error
}

// UserRepository adds the credential lookups and targeted column updates
// needed by authentication.
type UserRepository interface {
	Repository[domain.User]
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByToken(ctx context.Context, token string) (*domain.User, error)
	// UpdateColumns writes only the given columns on the row identified by id.
	UpdateColumns(ctx context.Context, id int64, columns map[string]any) error
}
