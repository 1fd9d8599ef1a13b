package rdb

import (
	"context"

	"gorm.io/gorm"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// UserRepository implements ports.UserRepository.
type UserRepository struct {
	*Repository[domain.User]
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Repository: NewRepository[domain.User](db), db: db}
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findBy(ctx, "email = ?", email)
}

func (r *UserRepository) FindByToken(ctx context.Context, token string) (*domain.User, error) {
	return r.findBy(ctx, "token = ?", token)
}

func (r *UserRepository) findBy(ctx context.Context, query string, arg string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		return nil, Classify(err)
	}
	return &u, nil
}
