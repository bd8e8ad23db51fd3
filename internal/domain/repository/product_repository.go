package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, categoryID string, limit, offset int) ([]*entity.Product, error)
	CountActiveByCategory(ctx context.Context, categoryID string) (int, error)
	DeactivateByCategories(ctx context.Context, categoryIDs []string) error
}
