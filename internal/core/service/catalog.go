package service

import (
	"github.com/rs/zerolog"

	"github.com/99minutos/catalog-api/internal/core/domain"
	"github.com/99minutos/catalog-api/internal/core/ports"
)

func NewCategoryService(repo ports.Repository[domain.Category], logger zerolog.Logger) *CRUDService[domain.Category, domain.CategoryInput] {
	return NewCRUDService("category", repo, func(in domain.CategoryInput) domain.Category {
		return domain.Category{Name: in.Name, Description: in.Description}
	}, logger)
}

func NewProductService(repo ports.Repository[domain.Product], logger zerolog.Logger) *CRUDService[domain.Product, domain.ProductInput] {
	return NewCRUDService("product", repo, func(in domain.ProductInput) domain.Product {
		return domain.Product{
			Name:        in.Name,
			Description: in.Description,
			Price:       in.Price,
			CategoryID:  in.Category,
		}
	}, logger)
}

func NewOrderService(repo ports.Repository[domain.Order], logger zerolog.Logger) *CRUDService[domain.Order, domain.OrderInput] {
	return NewCRUDService("order", repo, func(in domain.OrderInput) domain.Order {
		return domain.Order{UserID: in.User, CreatedAt: in.CreatedAt.UTC(), Paid: in.Paid}
	}, logger)
}

func NewOrderItemService(repo ports.Repository[domain.OrderItem], logger zerolog.Logger) *CRUDService[domain.OrderItem, domain.OrderItemInput] {
	return NewCRUDService("order-item", repo, func(in domain.OrderItemInput) domain.OrderItem {
		return domain.OrderItem{OrderID: in.Order, ProductID: in.Product, Price: in.Price}
	}, logger)
}

func NewRoleService(repo ports.Repository[domain.Role], logger zerolog.Logger) *CRUDService[domain.Role, domain.RoleInput] {
	return NewCRUDService("role", repo, func(in domain.RoleInput) domain.Role {
		return domain.Role{Name: in.Name}
	}, logger)
}
