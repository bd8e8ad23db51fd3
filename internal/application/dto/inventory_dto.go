package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInventoryRequest alta de un registro producto-ubicación.
type CreateInventoryRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	LocationID      string `json:"location_id" validate:"required,uuid"`
	QuantityOnHand  int64  `json:"quantity_on_hand" validate:"min=0"`
	ReorderPoint    int64  `json:"reorder_point" validate:"min=0"`
	ReorderQuantity int64  `json:"reorder_quantity" validate:"min=0"`
}

// AdjustInventoryRequest body para POST /api/inventory/:id/adjustments.
// Quantity es positiva salvo para type=adjustment, donde el signo indica la dirección.
type AdjustInventoryRequest struct {
	Type      string           `json:"type" validate:"required,oneof=receipt issue adjustment return damage"`
	Quantity  int64            `json:"quantity" validate:"required"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference string           `json:"reference" validate:"max=100"`
	Notes     string           `json:"notes" validate:"max=1000"`
}

// PhysicalCountRequest body para POST /api/inventory/:id/counts.
type PhysicalCountRequest struct {
	CountedQuantity int64  `json:"counted_quantity" validate:"min=0"`
	Notes           string `json:"notes" validate:"max=1000"`
}

// ReservationRequest reserva o liberación de cantidad.
type ReservationRequest struct {
	Quantity int64 `json:"quantity" validate:"required,gt=0"`
}

// InventoryListRequest filtros de listado.
type InventoryListRequest struct {
	PageRequest
	LocationID string `query:"location_id" validate:"omitempty,uuid"`
	ProductID  string `query:"product_id" validate:"omitempty,uuid"`
	LowStock   bool   `query:"low_stock"`
}

// InventoryResponse salida de un registro de inventario.
type InventoryResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	LocationID        string          `json:"location_id"`
	QuantityOnHand    int64           `json:"quantity_on_hand"`
	QuantityReserved  int64           `json:"quantity_reserved"`
	QuantityAvailable int64           `json:"quantity_available"`
	ReorderPoint      int64           `json:"reorder_point"`
	ReorderQuantity   int64           `json:"reorder_quantity"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	LowStock          bool            `json:"low_stock"`
	LastCountedAt     *time.Time      `json:"last_counted_at,omitempty"`
	LastMovementAt    *time.Time      `json:"last_movement_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InventoryListResponse lista paginada de inventario.
type InventoryListResponse struct {
	Items []InventoryResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}

// AdjustmentResponse salida de un ajuste.
type AdjustmentResponse struct {
	ID               string          `json:"id"`
	InventoryID      string          `json:"inventory_id"`
	Type             string          `json:"type"`
	Quantity         int64           `json:"quantity"`
	Delta            int64           `json:"delta"`
	PreviousQuantity int64           `json:"previous_quantity"`
	NewQuantity      int64           `json:"new_quantity"`
	UnitCost         decimal.Decimal `json:"unit_cost"`
	Reference        string          `json:"reference,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	AdjustedBy       string          `json:"adjusted_by"`
	CreatedAt        time.Time       `json:"created_at"`
}

// CountResponse salida de un conteo físico.
type CountResponse struct {
	ID              string    `json:"id"`
	InventoryID     string    `json:"inventory_id"`
	SystemQuantity  int64     `json:"system_quantity"`
	CountedQuantity int64     `json:"counted_quantity"`
	Difference      int64     `json:"difference"`
	CountedBy       string    `json:"counted_by"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// PhysicalCountResponse inventario resultante más el registro de auditoría.
type PhysicalCountResponse struct {
	Inventory InventoryResponse `json:"inventory"`
	Count     CountResponse     `json:"count"`
}

// LocationStockDTO agregado de inventario por ubicación.
type LocationStockDTO struct {
	LocationID       string          `json:"location_id"`
	Items            int             `json:"items"`
	QuantityOnHand   int64           `json:"quantity_on_hand"`
	QuantityReserved int64           `json:"quantity_reserved"`
	LowStockItems    int             `json:"low_stock_items"`
	OutOfStockItems  int             `json:"out_of_stock_items"`
	StockValue       decimal.Decimal `json:"stock_value"`
}

// InventoryAnalyticsResponse vista agregada de solo lectura.
type InventoryAnalyticsResponse struct {
	TotalItems      int                `json:"total_items"`
	TotalOnHand     int64              `json:"total_on_hand"`
	TotalReserved   int64              `json:"total_reserved"`
	LowStockItems   int                `json:"low_stock_items"`
	OutOfStockItems int                `json:"out_of_stock_items"`
	TotalStockValue decimal.Decimal    `json:"total_stock_value"`
	ByLocation      []LocationStockDTO `json:"by_location"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un registro bajo su punto de reorden.
type ReplenishmentSuggestionDTO struct {
	InventoryID        string          `json:"inventory_id"`
	ProductID          string          `json:"product_id"`
	SKU                string          `json:"sku"`
	ProductName        string          `json:"product_name"`
	LocationID         string          `json:"location_id"`
	QuantityOnHand     int64           `json:"quantity_on_hand"`
	ReorderPoint       int64           `json:"reorder_point"`
	SuggestedOrderQty  int64           `json:"suggested_order_qty"`
	UnitCost           decimal.Decimal `json:"unit_cost"`            // costo promedio ponderado
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"` // SuggestedOrderQty * UnitCost
	Priority           int             `json:"priority"`             // 1 = más urgente
}
