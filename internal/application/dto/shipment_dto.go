package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShipmentItemRequest cantidad de una línea de la orden incluida en el envío.
type ShipmentItemRequest struct {
	PurchaseOrderItemID string `json:"purchase_order_item_id" validate:"required,uuid"`
	Quantity            int64  `json:"quantity" validate:"required,gt=0"`
}

// CreateShipmentRequest entrada para registrar un envío.
type CreateShipmentRequest struct {
	PurchaseOrderID      string                `json:"purchase_order_id" validate:"required,uuid"`
	LocationID           string                `json:"location_id" validate:"required,uuid"`
	Carrier              string                `json:"carrier" validate:"max=100"`
	TrackingNumber       string                `json:"tracking_number" validate:"max=100"`
	ShipmentType         string                `json:"shipment_type" validate:"omitempty,oneof=air sea land rail multimodal"`
	ShippedDate          *time.Time            `json:"shipped_date"`
	ExpectedDeliveryDate *time.Time            `json:"expected_delivery_date"`
	ShippingCost         decimal.Decimal       `json:"shipping_cost"`
	Currency             string                `json:"currency" validate:"omitempty,len=3"`
	Notes                string                `json:"notes"`
	Items                []ShipmentItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateShipmentStatusRequest cambio de estado de un envío.
type UpdateShipmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending in_transit delivered partially_delivered cancelled exception"`
	Note   string `json:"note" validate:"max=500"`
}

// ShipmentListRequest filtros de listado.
type ShipmentListRequest struct {
	PageRequest
	Status          string `query:"status" validate:"omitempty,oneof=pending in_transit delivered partially_delivered cancelled exception"`
	PurchaseOrderID string `query:"purchase_order_id" validate:"omitempty,uuid"`
}

// ShipmentItemResponse salida de una línea del envío.
type ShipmentItemResponse struct {
	ID                  string          `json:"id"`
	PurchaseOrderItemID string          `json:"purchase_order_item_id"`
	Quantity            int64           `json:"quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	TotalPrice          decimal.Decimal `json:"total_price"`
}

// ShipmentStatusChangeResponse entrada del historial.
type ShipmentStatusChangeResponse struct {
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	ChangedBy string    `json:"changed_by,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}

// ShipmentResponse salida de un envío.
type ShipmentResponse struct {
	ID                   string                         `json:"id"`
	ShipmentNumber       string                         `json:"shipment_number"`
	PurchaseOrderID      string                         `json:"purchase_order_id"`
	LocationID           string                         `json:"location_id"`
	Carrier              string                         `json:"carrier,omitempty"`
	TrackingNumber       string                         `json:"tracking_number,omitempty"`
	ShipmentType         string                         `json:"shipment_type"`
	Status               string                         `json:"status"`
	ShippedDate          *time.Time                     `json:"shipped_date,omitempty"`
	ExpectedDeliveryDate *time.Time                     `json:"expected_delivery_date,omitempty"`
	ActualDeliveryDate   *time.Time                     `json:"actual_delivery_date,omitempty"`
	ShippingCost         decimal.Decimal                `json:"shipping_cost"`
	Currency             string                         `json:"currency"`
	Notes                string                         `json:"notes,omitempty"`
	StatusHistory        []ShipmentStatusChangeResponse `json:"status_history"`
	Items                []ShipmentItemResponse         `json:"items"`
	CreatedAt            time.Time                      `json:"created_at"`
	UpdatedAt            time.Time                      `json:"updated_at"`
}

// ShipmentListResponse lista paginada de envíos.
type ShipmentListResponse struct {
	Items []ShipmentResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
