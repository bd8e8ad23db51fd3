package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory existencias de un producto en una ubicación (par único producto-ubicación).
type Inventory struct {
	ID               string
	ProductID        string
	LocationID       string
	QuantityOnHand   int64
	QuantityReserved int64
	ReorderPoint     int64
	ReorderQuantity  int64
	AverageCost      decimal.Decimal // costo promedio ponderado de las entradas
	LastCountedAt    *time.Time
	LastMovementAt   *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Available cantidad disponible (en mano menos reservada).
func (i *Inventory) Available() int64 {
	return i.QuantityOnHand - i.QuantityReserved
}

// IsLowStock único predicado de stock bajo: en mano <= punto de reorden.
func (i *Inventory) IsLowStock() bool {
	return i.QuantityOnHand <= i.ReorderPoint
}

// CrossedReorderPoint indica si la existencia pasó de estar sobre el punto de reorden
// (previous) a estar en o bajo él.
func (i *Inventory) CrossedReorderPoint(previous int64) bool {
	return previous > i.ReorderPoint && i.IsLowStock()
}

// Tipos de ajuste de inventario.
const (
	AdjustmentReceipt    = "receipt"
	AdjustmentIssue      = "issue"
	AdjustmentAdjustment = "adjustment"
	AdjustmentReturn     = "return"
	AdjustmentDamage     = "damage"
)

// InventoryAdjustment registro inmutable de un cambio de existencias.
type InventoryAdjustment struct {
	ID               string
	InventoryID      string
	Type             string
	Quantity         int64 // magnitud informada (firmada solo para "adjustment")
	Delta            int64 // cambio aplicado a QuantityOnHand
	PreviousQuantity int64
	NewQuantity      int64
	UnitCost         decimal.Decimal
	Reference        string
	Notes            string
	AdjustedBy       string
	CreatedAt        time.Time
}

// InventoryCount registro de un conteo físico.
type InventoryCount struct {
	ID              string
	InventoryID     string
	SystemQuantity  int64
	CountedQuantity int64
	Difference      int64 // counted - system
	CountedBy       string
	Notes           string
	CreatedAt       time.Time
}
