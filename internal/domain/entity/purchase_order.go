package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado del ciclo de vida de una orden de compra.
type PurchaseOrderStatus string

const (
	POStatusDraft             PurchaseOrderStatus = "draft"
	POStatusPendingApproval   PurchaseOrderStatus = "pending_approval"
	POStatusApproved          PurchaseOrderStatus = "approved"
	POStatusOrdered           PurchaseOrderStatus = "ordered"
	POStatusPartiallyReceived PurchaseOrderStatus = "partially_received"
	POStatusReceived          PurchaseOrderStatus = "received"
	POStatusCancelled         PurchaseOrderStatus = "cancelled"
)

// IsValid indica si s es un estado conocido.
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case POStatusDraft, POStatusPendingApproval, POStatusApproved, POStatusOrdered,
		POStatusPartiallyReceived, POStatusReceived, POStatusCancelled:
		return true
	}
	return false
}

func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// IsTerminal received y cancelled no admiten más transiciones.
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == POStatusReceived || s == POStatusCancelled
}

// IsEditable la orden solo se modifica mientras no ha sido aprobada.
func (s PurchaseOrderStatus) IsEditable() bool {
	return s == POStatusDraft || s == POStatusPendingApproval
}

// CanDecide indica si la orden admite una decisión de aprobación.
func (s PurchaseOrderStatus) CanDecide() bool {
	return s == POStatusDraft || s == POStatusPendingApproval
}

// CanReceive indica si se puede recibir mercancía en este estado.
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == POStatusOrdered || s == POStatusPartiallyReceived
}

// CanTransitionTo valida la máquina de estados de la orden.
func (s PurchaseOrderStatus) CanTransitionTo(target PurchaseOrderStatus) bool {
	if target == POStatusCancelled {
		return !s.IsTerminal()
	}
	switch s {
	case POStatusDraft:
		return target == POStatusPendingApproval || target == POStatusApproved
	case POStatusPendingApproval:
		return target == POStatusApproved || target == POStatusDraft
	case POStatusApproved:
		return target == POStatusOrdered
	case POStatusOrdered, POStatusPartiallyReceived:
		return target == POStatusPartiallyReceived || target == POStatusReceived
	}
	return false
}

// Estados de una aprobación.
const (
	ApprovalStatusPending  = "pending"
	ApprovalStatusApproved = "approved"
	ApprovalStatusRejected = "rejected"
)

// PurchaseOrder agregado raíz: cabecera, líneas y aprobaciones.
type PurchaseOrder struct {
	ID                   string
	PONumber             string
	SupplierID           string
	CreatedBy            string
	Status               PurchaseOrderStatus
	OrderDate            time.Time
	ExpectedDeliveryDate *time.Time
	TotalAmount          decimal.Decimal
	Currency             string
	TermsAndConditions   string
	Notes                string
	ApprovalWorkflow     json.RawMessage
	Items                []PurchaseOrderItem
	Approvals            []PurchaseOrderApproval
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PurchaseOrderItem línea de una orden de compra.
type PurchaseOrderItem struct {
	ID               string
	PurchaseOrderID  string
	ProductID        string
	Quantity         int64
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
	ReceivedQuantity int64
	Notes            string
}

// Pending cantidad aún no recibida.
func (i *PurchaseOrderItem) Pending() int64 {
	return i.Quantity - i.ReceivedQuantity
}

// PurchaseOrderApproval decisión de un aprobador sobre la orden.
type PurchaseOrderApproval struct {
	ID              string
	PurchaseOrderID string
	ApproverID      string
	Status          string // pending, approved, rejected
	Comments        string
	ApprovedAt      *time.Time
	CreatedAt       time.Time
}

// Escalas de almacenamiento: precios unitarios NUMERIC(18,4), importes NUMERIC(18,2).
const (
	PriceScale int32 = 4
	MoneyScale int32 = 2
)

// LineTotal importe de una línea redondeado a la escala de importes.
func LineTotal(unitPrice decimal.Decimal, quantity int64) decimal.Decimal {
	return unitPrice.Round(PriceScale).Mul(decimal.NewFromInt(quantity)).Round(MoneyScale)
}

// RecalculateTotals fija TotalPrice de cada línea y TotalAmount como su suma.
// Las líneas se redondean antes de sumar para que el total persistido coincida
// con la suma de las líneas persistidas.
func (po *PurchaseOrder) RecalculateTotals() {
	total := decimal.Zero
	for i := range po.Items {
		it := &po.Items[i]
		it.UnitPrice = it.UnitPrice.Round(PriceScale)
		it.TotalPrice = LineTotal(it.UnitPrice, it.Quantity)
		total = total.Add(it.TotalPrice)
	}
	po.TotalAmount = total
}

// Item devuelve la línea con el ID dado o nil.
func (po *PurchaseOrder) Item(itemID string) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ID == itemID {
			return &po.Items[i]
		}
	}
	return nil
}

// ReceiptStatus estado derivado de las cantidades recibidas. Sin recepciones devuelve el estado actual.
func (po *PurchaseOrder) ReceiptStatus() PurchaseOrderStatus {
	var received, complete int
	for _, it := range po.Items {
		if it.ReceivedQuantity > 0 {
			received++
		}
		if it.ReceivedQuantity >= it.Quantity {
			complete++
		}
	}
	switch {
	case len(po.Items) > 0 && complete == len(po.Items):
		return POStatusReceived
	case received > 0:
		return POStatusPartiallyReceived
	}
	return po.Status
}
