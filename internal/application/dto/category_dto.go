package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría (ParentID vacío = raíz).
type CreateCategoryRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description" validate:"max=1000"`
	ParentID    string `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateCategoryRequest cambios parciales. ParentID = "" mueve la categoría a raíz.
type UpdateCategoryRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	ParentID    *string `json:"parent_id" validate:"omitempty,uuid"`
	MoveToRoot  bool    `json:"move_to_root"`
	Status      *string `json:"status" validate:"omitempty,oneof=active inactive"`
}

// CategoryListRequest filtros de listado.
type CategoryListRequest struct {
	PageRequest
	ParentID   string `query:"parent_id" validate:"omitempty,uuid"`
	RootOnly   bool   `query:"root_only"`
	ActiveOnly bool   `query:"active_only"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID          string    `json:"id"`
	ParentID    string    `json:"parent_id,omitempty"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Level       int       `json:"level"`
	Path        string    `json:"path"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CategoryTreeResponse nodo del árbol con sus hijos anidados.
type CategoryTreeResponse struct {
	CategoryResponse
	Children []CategoryTreeResponse `json:"children"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
