package purchasing

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// DocumentLine línea de la orden enriquecida con los datos del producto.
type DocumentLine struct {
	entity.PurchaseOrderItem
	SKU         string
	ProductName string
	UnitMeasure string
}

// PurchaseOrderDocument datos que necesitan los documentos de una orden (PDF, UBL, email).
type PurchaseOrderDocument struct {
	Order     *entity.PurchaseOrder
	Supplier  *entity.Supplier
	Lines     []DocumentLine
	BuyerName string
}

// PurchaseOrderPDFGenerator genera la representación PDF de una orden de compra.
type PurchaseOrderPDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, doc *PurchaseOrderDocument) ([]byte, error)
}

// OrderDocumentBuilder construye el documento UBL 2.1 Order.
// digest es el SHA-256 (base64) de la forma canónica del XML.
type OrderDocumentBuilder interface {
	BuildOrder(doc *PurchaseOrderDocument) (xml []byte, digest string, err error)
}

// InventoryReceiver integra la recepción de órdenes con el libro de inventario.
// ReceiveInTx usa los repositorios del caller (misma transacción); si retorna error
// el caller debe hacer rollback.
type InventoryReceiver interface {
	ReceiveInTx(
		ctx context.Context,
		repos repository.Repos,
		productID, locationID, userID string,
		quantity int64,
		unitCost decimal.Decimal,
		reference string, // número de la orden
	) error
}
