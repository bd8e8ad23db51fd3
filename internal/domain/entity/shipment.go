package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transporte.
const (
	ShipmentTypeAir        = "air"
	ShipmentTypeSea        = "sea"
	ShipmentTypeLand       = "land"
	ShipmentTypeRail       = "rail"
	ShipmentTypeMultimodal = "multimodal"
)

// ShipmentStatus estado de un envío.
type ShipmentStatus string

const (
	ShipmentStatusPending            ShipmentStatus = "pending"
	ShipmentStatusInTransit          ShipmentStatus = "in_transit"
	ShipmentStatusDelivered          ShipmentStatus = "delivered"
	ShipmentStatusPartiallyDelivered ShipmentStatus = "partially_delivered"
	ShipmentStatusCancelled          ShipmentStatus = "cancelled"
	ShipmentStatusException          ShipmentStatus = "exception"
)

// IsValid indica si s es un estado conocido.
func (s ShipmentStatus) IsValid() bool {
	switch s {
	case ShipmentStatusPending, ShipmentStatusInTransit, ShipmentStatusDelivered,
		ShipmentStatusPartiallyDelivered, ShipmentStatusCancelled, ShipmentStatusException:
		return true
	}
	return false
}

// IsTerminal delivered y cancelled cierran el envío.
func (s ShipmentStatus) IsTerminal() bool {
	return s == ShipmentStatusDelivered || s == ShipmentStatusCancelled
}

// shipmentTransitions avance permitido entre estados. exception puede retomar el tránsito.
var shipmentTransitions = map[ShipmentStatus][]ShipmentStatus{
	ShipmentStatusPending: {
		ShipmentStatusInTransit, ShipmentStatusDelivered, ShipmentStatusCancelled, ShipmentStatusException,
	},
	ShipmentStatusInTransit: {
		ShipmentStatusPartiallyDelivered, ShipmentStatusDelivered, ShipmentStatusCancelled, ShipmentStatusException,
	},
	ShipmentStatusPartiallyDelivered: {
		ShipmentStatusDelivered, ShipmentStatusCancelled, ShipmentStatusException,
	},
	ShipmentStatusException: {
		ShipmentStatusInTransit, ShipmentStatusPartiallyDelivered, ShipmentStatusDelivered, ShipmentStatusCancelled,
	},
}

// CanTransitionTo indica si el envío puede pasar de s a target. Repetir el estado actual
// no es una transición.
func (s ShipmentStatus) CanTransitionTo(target ShipmentStatus) bool {
	for _, next := range shipmentTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Shipment envío asociado a una orden de compra.
type Shipment struct {
	ID                   string
	ShipmentNumber       string
	PurchaseOrderID      string
	LocationID           string // bodega destino de la recepción
	Carrier              string
	TrackingNumber       string
	ShipmentType         string
	Status               ShipmentStatus
	ShippedDate          *time.Time
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	ShippingCost         decimal.Decimal
	Currency             string
	Notes                string
	StatusHistory        []ShipmentStatusChange
	Items                []ShipmentItem
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// ShipmentItem cantidad de una línea de la orden incluida en el envío.
type ShipmentItem struct {
	ID                  string
	ShipmentID          string
	PurchaseOrderItemID string
	Quantity            int64
	UnitPrice           decimal.Decimal
	TotalPrice          decimal.Decimal
}

// ShipmentStatusChange entrada del historial de estados.
type ShipmentStatusChange struct {
	Status    ShipmentStatus `json:"status"`
	Note      string         `json:"note,omitempty"`
	ChangedBy string         `json:"changed_by,omitempty"`
	ChangedAt time.Time      `json:"changed_at"`
}
