package repository

import (
	"context"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// ShipmentFilter criterios de listado de envíos.
type ShipmentFilter struct {
	Status          entity.ShipmentStatus
	PurchaseOrderID string
	Limit           int
	Offset          int
}

// ShipmentRepository define el puerto de persistencia para Shipment (con sus líneas).
type ShipmentRepository interface {
	Create(ctx context.Context, shipment *entity.Shipment) error
	GetByID(ctx context.Context, id string) (*entity.Shipment, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error)
	GetByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Shipment, error)
	// Update persiste estado, fechas e historial (las líneas son inmutables).
	Update(ctx context.Context, shipment *entity.Shipment) error
	List(ctx context.Context, filter ShipmentFilter) ([]*entity.Shipment, error)
}
