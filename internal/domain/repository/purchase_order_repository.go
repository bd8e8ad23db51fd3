package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// PurchaseOrderFilter criterios de listado de órdenes.
type PurchaseOrderFilter struct {
	Status     entity.PurchaseOrderStatus
	SupplierID string
	Limit      int
	Offset     int
}

// PurchaseOrderRepository define el puerto de persistencia del agregado PurchaseOrder.
// GetByID y GetForUpdate cargan líneas y aprobaciones.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera de la orden hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// Update persiste cabecera y cantidades recibidas de las líneas.
	Update(ctx context.Context, po *entity.PurchaseOrder) error
	// ReplaceItems sustituye todas las líneas de la orden.
	ReplaceItems(ctx context.Context, poID string, items []entity.PurchaseOrderItem) error
	AddApproval(ctx context.Context, approval *entity.PurchaseOrderApproval) error
	ListApprovals(ctx context.Context, poID string) ([]entity.PurchaseOrderApproval, error)
	List(ctx context.Context, filter PurchaseOrderFilter) ([]*entity.PurchaseOrder, error)
}
