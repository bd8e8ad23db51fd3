package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// InventoryFilter criterios de listado. LowStock aplica QuantityOnHand <= ReorderPoint.
// Limit 0 devuelve todas las filas.
type InventoryFilter struct {
	LocationID string
	ProductID  string
	LowStock   bool
	Limit      int
	Offset     int
}

// LocationStock agregado por ubicación para analítica.
type LocationStock struct {
	LocationID       string
	Items            int
	QuantityOnHand   int64
	QuantityReserved int64
	LowStockItems    int
	OutOfStockItems  int
	StockValue       decimal.Decimal // Σ QuantityOnHand * AverageCost
}

// InventoryRepository define el puerto de persistencia del libro de inventario.
type InventoryRepository interface {
	Create(ctx context.Context, inv *entity.Inventory) error
	GetByID(ctx context.Context, id string) (*entity.Inventory, error)
	// GetForUpdate bloquea la fila (SELECT ... FOR UPDATE) para ajustes concurrentes.
	GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error)
	// GetByProductLocationForUpdate bloquea la fila del par producto-ubicación (nil si no existe).
	GetByProductLocationForUpdate(ctx context.Context, productID, locationID string) (*entity.Inventory, error)
	Update(ctx context.Context, inv *entity.Inventory) error
	List(ctx context.Context, filter InventoryFilter) ([]*entity.Inventory, error)
	StockByLocation(ctx context.Context) ([]LocationStock, error)

	AddAdjustment(ctx context.Context, adj *entity.InventoryAdjustment) error
	ListAdjustments(ctx context.Context, inventoryID string, limit, offset int) ([]*entity.InventoryAdjustment, error)
	AddCount(ctx context.Context, count *entity.InventoryCount) error
	ListCounts(ctx context.Context, inventoryID string, limit, offset int) ([]*entity.InventoryCount, error)
}
