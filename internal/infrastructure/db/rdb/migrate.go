package rdb

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&domain.Role{},
		&domain.User{},
		&domain.Category{},
		&domain.Product{},
		&domain.Order{},
		&domain.OrderItem{},
	}
}

// Migrate creates or updates the schema for every model.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
