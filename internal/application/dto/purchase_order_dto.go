package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderItemRequest línea de una orden.
type PurchaseOrderItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Notes     string          `json:"notes" validate:"max=500"`
}

// CreatePurchaseOrderRequest entrada para crear una orden de compra.
type CreatePurchaseOrderRequest struct {
	SupplierID           string                     `json:"supplier_id" validate:"required,uuid"`
	OrderDate            *time.Time                 `json:"order_date"`
	ExpectedDeliveryDate *time.Time                 `json:"expected_delivery_date"`
	Currency             string                     `json:"currency" validate:"omitempty,len=3"`
	TermsAndConditions   string                     `json:"terms_and_conditions"`
	Notes                string                     `json:"notes"`
	ApprovalWorkflow     json.RawMessage            `json:"approval_workflow"`
	Items                []PurchaseOrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdatePurchaseOrderRequest cambios parciales. Items no nulo reemplaza todas las líneas.
type UpdatePurchaseOrderRequest struct {
	SupplierID           *string                    `json:"supplier_id" validate:"omitempty,uuid"`
	ExpectedDeliveryDate *time.Time                 `json:"expected_delivery_date"`
	Currency             *string                    `json:"currency" validate:"omitempty,len=3"`
	TermsAndConditions   *string                    `json:"terms_and_conditions"`
	Notes                *string                    `json:"notes"`
	ApprovalWorkflow     json.RawMessage            `json:"approval_workflow"`
	Items                []PurchaseOrderItemRequest `json:"items" validate:"omitempty,min=1,dive"`
}

// ApprovalDecisionRequest decisión de un aprobador.
type ApprovalDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Comments string `json:"comments" validate:"max=1000"`
}

// ReceiptLineRequest cantidad recibida de una línea en una ubicación.
type ReceiptLineRequest struct {
	ItemID     string `json:"item_id" validate:"required,uuid"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
	LocationID string `json:"location_id" validate:"required,uuid"`
}

// ReceiveItemsRequest recepción de mercancía de una orden.
type ReceiveItemsRequest struct {
	Lines []ReceiptLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// PurchaseOrderListRequest filtros de listado.
type PurchaseOrderListRequest struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=draft pending_approval approved ordered partially_received received cancelled"`
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
}

// PurchaseOrderItemResponse salida de una línea.
type PurchaseOrderItemResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	Quantity         int64           `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
	ReceivedQuantity int64           `json:"received_quantity"`
	Notes            string          `json:"notes,omitempty"`
}

// ApprovalResponse salida de una aprobación.
type ApprovalResponse struct {
	ID         string     `json:"id"`
	ApproverID string     `json:"approver_id"`
	Status     string     `json:"status"`
	Comments   string     `json:"comments,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// PurchaseOrderResponse salida de una orden con líneas y aprobaciones.
type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	PONumber             string                      `json:"po_number"`
	SupplierID           string                      `json:"supplier_id"`
	CreatedBy            string                      `json:"created_by"`
	Status               string                      `json:"status"`
	OrderDate            time.Time                   `json:"order_date"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	TotalAmount          decimal.Decimal             `json:"total_amount"`
	Currency             string                      `json:"currency"`
	TermsAndConditions   string                      `json:"terms_and_conditions,omitempty"`
	Notes                string                      `json:"notes,omitempty"`
	ApprovalWorkflow     json.RawMessage             `json:"approval_workflow,omitempty"`
	Items                []PurchaseOrderItemResponse `json:"items"`
	Approvals            []ApprovalResponse          `json:"approvals"`
	CreatedAt            time.Time                   `json:"created_at"`
	UpdatedAt            time.Time                   `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
