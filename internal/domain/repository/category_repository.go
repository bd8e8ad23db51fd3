package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// CategoryFilter criterios de listado. ActiveOnly es el predicado compartido de soft-delete.
type CategoryFilter struct {
	ParentID   *string // nil = cualquier padre; puntero a "" = solo raíces
	ActiveOnly bool
	Limit      int
	Offset     int
}

// CategoryRepository define el puerto de persistencia para Category (DIP).
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	// GetSibling busca por slug entre los hijos de parentID ("" = raíces).
	GetSibling(ctx context.Context, parentID, slug string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, filter CategoryFilter) ([]*entity.Category, error)
	ListChildren(ctx context.Context, parentID string, activeOnly bool) ([]*entity.Category, error)
	// SetStatus cambia el estado de varias categorías a la vez.
	SetStatus(ctx context.Context, ids []string, status string) error
}
