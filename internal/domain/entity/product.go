package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de producto.
const (
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
)

// Product representa un producto o SKU que se compra e inventaría.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	CategoryID  string // vacío si no está categorizado
	UnitPrice   decimal.Decimal
	UnitMeasure string
	Status      string // active, inactive
	Attributes  json.RawMessage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsActive indica si el producto puede usarse en nuevas órdenes.
func (p *Product) IsActive() bool {
	return p != nil && p.Status == ProductStatusActive
}
