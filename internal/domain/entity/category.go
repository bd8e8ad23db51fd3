package entity

import (
	"time"

	"github.com/gosimple/slug"
)

// Estados de una categoría (soft-delete).
const (
	CategoryStatusActive   = "active"
	CategoryStatusInactive = "inactive"
)

// PathSeparator separa los nombres de ancestros en Category.Path.
const PathSeparator = " / "

// Category nodo del árbol de categorías. Los nodos se referencian por ID, nunca por puntero.
type Category struct {
	ID          string
	ParentID    string // vacío si es raíz
	Name        string
	Slug        string
	Description string
	Level       int    // 0 = raíz
	Path        string // nombres de ancestros unidos por PathSeparator
	Status      string // active, inactive
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive es el único predicado de actividad para categorías.
func (c *Category) IsActive() bool {
	return c != nil && c.Status == CategoryStatusActive
}

// IsRoot indica si la categoría no tiene padre.
func (c *Category) IsRoot() bool {
	return c.ParentID == ""
}

// Place recalcula Level, Path y Slug a partir del padre (nil = raíz).
func (c *Category) Place(parent *Category) {
	c.Slug = slug.Make(c.Name)
	if parent == nil {
		c.ParentID = ""
		c.Level = 0
		c.Path = c.Name
		return
	}
	c.ParentID = parent.ID
	c.Level = parent.Level + 1
	c.Path = parent.Path + PathSeparator + c.Name
}

// CategorySlug normaliza un nombre para comparar hermanos ("Acero" y "acero " colisionan).
func CategorySlug(name string) string {
	return slug.Make(name)
}
