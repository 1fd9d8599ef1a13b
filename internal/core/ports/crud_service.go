package ports

import (
	"context"

	"github.com/99minutos/catalog-api/internal/core/domain"
)

// CRUDService is the uniform contract every resource exposes.
//
// Get and Update return (nil, nil) when the row does not exist, and Delete
// returns (false, nil); storage failures come back as *domain.StorageError.
type CRUDService[E any, I any] interface {
	List(ctx context.Context) ([]E, error)
	Get(ctx context.Context, id int64) (*E, error)
	Create(ctx context.Context, in I) (*E, error)
	Update(ctx context.Context, id int64, in I) (*E, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type (
	CategoryService  = CRUDService[domain.Category, domain.CategoryInput]
	ProductService   = CRUDService[domain.Product, domain.ProductInput]
	OrderService     = CRUDService[domain.Order, domain.OrderInput]
	OrderItemService = CRUDService[domain.OrderItem, domain.OrderItemInput]
	RoleService      = CRUDService[domain.Role, domain.RoleInput]
)
