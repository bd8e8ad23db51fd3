package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// Config parámetros del ciclo de compras.
type Config struct {
	DefaultCurrency string // moneda de órdenes y envíos sin moneda explícita
	NumberPrefix    string // prefijo del número de orden (PO)
	BuyerName       string // razón social del comprador en los documentos
}

// PurchaseOrderUseCase ciclo de vida de la orden de compra: borrador, aprobación,
// emisión al proveedor, recepción contra inventario y cancelación.
type PurchaseOrderUseCase struct {
	repos     repository.Repos
	tx        ports.TxRunner
	inventory InventoryReceiver
	pdf       PurchaseOrderPDFGenerator
	ubl       OrderDocumentBuilder
	notifier  ports.Notifier
	cfg       Config
	log       *logger.Logger
}

// NewPurchaseOrderUseCase construye el caso de uso inyectando todas sus dependencias.
// repos se usa solo para lecturas fuera de transacción.
func NewPurchaseOrderUseCase(
	repos repository.Repos,
	tx ports.TxRunner,
	inventory InventoryReceiver,
	pdf PurchaseOrderPDFGenerator,
	ubl OrderDocumentBuilder,
	notifier ports.Notifier,
	cfg Config,
	log *logger.Logger,
) *PurchaseOrderUseCase {
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "USD"
	}
	if cfg.NumberPrefix == "" {
		cfg.NumberPrefix = "PO"
	}
	return &PurchaseOrderUseCase{
		repos:     repos,
		tx:        tx,
		inventory: inventory,
		pdf:       pdf,
		ubl:       ubl,
		notifier:  notifier,
		cfg:       cfg,
		log:       log,
	}
}

// Create registra una orden en borrador con sus líneas y total calculado.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, userID string, in dto.CreatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: la orden requiere al menos una línea", domain.ErrInvalidInput)
	}
	var created *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		if err := ensureSupplierCanOrder(ctx, r.Suppliers, in.SupplierID); err != nil {
			return err
		}
		now := time.Now()
		po := &entity.PurchaseOrder{
			ID:                   uuid.New().String(),
			PONumber:             uc.newNumber(now),
			SupplierID:           in.SupplierID,
			CreatedBy:            userID,
			Status:               entity.POStatusDraft,
			OrderDate:            now,
			ExpectedDeliveryDate: in.ExpectedDeliveryDate,
			Currency:             strings.ToUpper(in.Currency),
			TermsAndConditions:   in.TermsAndConditions,
			Notes:                in.Notes,
			ApprovalWorkflow:     in.ApprovalWorkflow,
			CreatedAt:            now,
			UpdatedAt:            now,
		}
		if in.OrderDate != nil {
			po.OrderDate = *in.OrderDate
		}
		if po.Currency == "" {
			po.Currency = uc.cfg.DefaultCurrency
		}
		items, err := buildItems(ctx, r.Products, po.ID, in.Items)
		if err != nil {
			return err
		}
		po.Items = items
		po.RecalculateTotals()
		if err := r.PurchaseOrders.Create(ctx, po); err != nil {
			return err
		}
		created = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("po_id", created.ID).
		Str("po_number", created.PONumber).
		Str("total", created.TotalAmount.String()).
		Msg("orden de compra creada")
	return toPurchaseOrderResponse(created), nil
}

// GetByID obtiene una orden con líneas y aprobaciones.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

// List lista órdenes por estado y proveedor.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, in dto.PurchaseOrderListRequest) (*dto.PurchaseOrderListResponse, error) {
	in.DefaultPage()
	list, err := uc.repos.PurchaseOrders.List(ctx, repository.PurchaseOrderFilter{
		Status:     entity.PurchaseOrderStatus(in.Status),
		SupplierID: in.SupplierID,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toPurchaseOrderResponse(po))
	}
	return &dto.PurchaseOrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Update modifica una orden en draft o pending_approval. Items no nulo reemplaza
// todas las líneas y recalcula el total.
func (uc *PurchaseOrderUseCase) Update(ctx context.Context, id string, in dto.UpdatePurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	var updated *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		po, err := lockOrder(ctx, r, id)
		if err != nil {
			return err
		}
		if !po.Status.IsEditable() {
			return fmt.Errorf("%w: la orden está en estado %s y no admite cambios", domain.ErrConflict, po.Status)
		}
		if in.SupplierID != nil && *in.SupplierID != po.SupplierID {
			if err := ensureSupplierCanOrder(ctx, r.Suppliers, *in.SupplierID); err != nil {
				return err
			}
			po.SupplierID = *in.SupplierID
		}
		if in.ExpectedDeliveryDate != nil {
			po.ExpectedDeliveryDate = in.ExpectedDeliveryDate
		}
		if in.Currency != nil {
			po.Currency = strings.ToUpper(*in.Currency)
		}
		if in.TermsAndConditions != nil {
			po.TermsAndConditions = *in.TermsAndConditions
		}
		if in.Notes != nil {
			po.Notes = *in.Notes
		}
		if len(in.ApprovalWorkflow) > 0 {
			po.ApprovalWorkflow = in.ApprovalWorkflow
		}
		if in.Items != nil {
			if len(in.Items) == 0 {
				return fmt.Errorf("%w: la orden requiere al menos una línea", domain.ErrInvalidInput)
			}
			items, err := buildItems(ctx, r.Products, po.ID, in.Items)
			if err != nil {
				return err
			}
			po.Items = items
			po.RecalculateTotals()
			if err := r.PurchaseOrders.ReplaceItems(ctx, po.ID, po.Items); err != nil {
				return err
			}
		}
		po.UpdatedAt = time.Now()
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		updated = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(updated), nil
}

// Submit envía un borrador a aprobación.
func (uc *PurchaseOrderUseCase) Submit(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.transition(ctx, id, entity.POStatusPendingApproval, func(po *entity.PurchaseOrder) error {
		if po.Status != entity.POStatusDraft {
			return fmt.Errorf("%w: solo un borrador puede enviarse a aprobación (estado %s)", domain.ErrConflict, po.Status)
		}
		if len(po.Items) == 0 {
			return fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidOperation)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toPurchaseOrderResponse(po), nil
}

// Decide registra la decisión de un aprobador. approved deja la orden aprobada;
// rejected la devuelve a borrador. Se notifica al creador después del commit.
func (uc *PurchaseOrderUseCase) Decide(ctx context.Context, id, approverID string, in dto.ApprovalDecisionRequest) (*dto.PurchaseOrderResponse, error) {
	var target entity.PurchaseOrderStatus
	switch in.Decision {
	case entity.ApprovalStatusApproved:
		target = entity.POStatusApproved
	case entity.ApprovalStatusRejected:
		target = entity.POStatusDraft
	default:
		return nil, fmt.Errorf("%w: decisión %q", domain.ErrInvalidInput, in.Decision)
	}

	var decided *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		po, err := lockOrder(ctx, r, id)
		if err != nil {
			return err
		}
		if !po.Status.CanDecide() {
			return fmt.Errorf("%w: la orden está en estado %s y no admite aprobación", domain.ErrConflict, po.Status)
		}
		if target == entity.POStatusApproved && len(po.Items) == 0 {
			return fmt.Errorf("%w: la orden no tiene líneas", domain.ErrInvalidOperation)
		}
		now := time.Now()
		approval := entity.PurchaseOrderApproval{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ApproverID:      approverID,
			Status:          in.Decision,
			Comments:        in.Comments,
			CreatedAt:       now,
		}
		if in.Decision == entity.ApprovalStatusApproved {
			approval.ApprovedAt = &now
		}
		if err := r.PurchaseOrders.AddApproval(ctx, &approval); err != nil {
			return err
		}
		po.Approvals = append(po.Approvals, approval)
		po.Status = target
		po.UpdatedAt = now
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		decided = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.notifyDecision(ctx, decided, in)
	return toPurchaseOrderResponse(decided), nil
}

// ListApprovals historial de decisiones de la orden.
func (uc *PurchaseOrderUseCase) ListApprovals(ctx context.Context, id string) ([]dto.ApprovalResponse, error) {
	if _, err := uc.load(ctx, id); err != nil {
		return nil, err
	}
	list, err := uc.repos.PurchaseOrders.ListApprovals(ctx, id)
	if err != nil {
		return nil, err
	}
	return toApprovalResponses(list), nil
}

// MarkOrdered emite una orden aprobada al proveedor y le envía el PDF por correo.
func (uc *PurchaseOrderUseCase) MarkOrdered(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.transition(ctx, id, entity.POStatusOrdered, nil)
	if err != nil {
		return nil, err
	}
	uc.notifySupplier(ctx, po)
	return toPurchaseOrderResponse(po), nil
}

// Cancel cancela una orden que aún no llegó a un estado terminal.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	po, err := uc.transition(ctx, id, entity.POStatusCancelled, nil)
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("po_id", po.ID).Msg("orden de compra cancelada")
	return toPurchaseOrderResponse(po), nil
}

// Receive registra mercancía recibida: incrementa cantidades recibidas, recalcula el
// estado y aplica una entrada de inventario por línea, todo en una transacción.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, userID, id string, in dto.ReceiveItemsRequest) (*dto.PurchaseOrderResponse, error) {
	if len(in.Lines) == 0 {
		return nil, fmt.Errorf("%w: la recepción no tiene líneas", domain.ErrInvalidInput)
	}
	var received *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		po, err := uc.receiveInTx(ctx, r, userID, id, in.Lines)
		if err != nil {
			return err
		}
		received = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("po_id", received.ID).
		Str("status", received.Status.String()).
		Int("lines", len(in.Lines)).
		Msg("recepción registrada")
	return toPurchaseOrderResponse(received), nil
}

// receiveInTx aplica la recepción con los repositorios del caller. Lo usan Receive y la
// entrega de envíos.
func (uc *PurchaseOrderUseCase) receiveInTx(ctx context.Context, r repository.Repos, userID, id string, lines []dto.ReceiptLineRequest) (*entity.PurchaseOrder, error) {
	po, err := lockOrder(ctx, r, id)
	if err != nil {
		return nil, err
	}
	if !po.Status.CanReceive() {
		return nil, fmt.Errorf("%w: la orden está en estado %s y no admite recepciones", domain.ErrConflict, po.Status)
	}
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad recibida debe ser positiva", domain.ErrInvalidInput)
		}
		item := po.Item(l.ItemID)
		if item == nil {
			return nil, fmt.Errorf("%w: la línea %s no pertenece a la orden", domain.ErrNotFound, l.ItemID)
		}
		if l.Quantity > item.Pending() {
			return nil, fmt.Errorf("%w: línea %s pendiente %d, recibido %d", domain.ErrOverReceipt, item.ID, item.Pending(), l.Quantity)
		}
		item.ReceivedQuantity += l.Quantity
		if err := uc.inventory.ReceiveInTx(ctx, r, item.ProductID, l.LocationID, userID, l.Quantity, item.UnitPrice, po.PONumber); err != nil {
			return nil, err
		}
	}
	po.Status = po.ReceiptStatus()
	po.UpdatedAt = time.Now()
	if err := r.PurchaseOrders.Update(ctx, po); err != nil {
		return nil, err
	}
	return po, nil
}

// RenderPDF genera el PDF de la orden. Retorna los bytes y el nombre de archivo sugerido.
func (uc *PurchaseOrderUseCase) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	doc, err := uc.document(ctx, id)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err := uc.pdf.GeneratePurchaseOrderPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, doc.Order.PONumber + ".pdf", nil
}

// ExportUBL genera el documento UBL 2.1 Order de la orden junto con su digest canónico.
func (uc *PurchaseOrderUseCase) ExportUBL(ctx context.Context, id string) (xmlBytes []byte, filename, digest string, err error) {
	doc, err := uc.document(ctx, id)
	if err != nil {
		return nil, "", "", err
	}
	xmlBytes, digest, err = uc.ubl.BuildOrder(doc)
	if err != nil {
		return nil, "", "", fmt.Errorf("ubl: construcción fallida: %w", err)
	}
	return xmlBytes, doc.Order.PONumber + ".xml", digest, nil
}

// transition aplica un cambio de estado validado por la máquina de estados.
// check, si no es nil, agrega validaciones propias de la operación.
func (uc *PurchaseOrderUseCase) transition(ctx context.Context, id string, target entity.PurchaseOrderStatus, check func(*entity.PurchaseOrder) error) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		po, err := lockOrder(ctx, r, id)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(po); err != nil {
				return err
			}
		}
		if !po.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: transición %s -> %s no permitida", domain.ErrConflict, po.Status, target)
		}
		po.Status = target
		po.UpdatedAt = time.Now()
		if err := r.PurchaseOrders.Update(ctx, po); err != nil {
			return err
		}
		out = po
		return nil
	})
	return out, err
}

func (uc *PurchaseOrderUseCase) load(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.repos.PurchaseOrders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

// document carga la orden con su proveedor y los datos de producto de cada línea.
func (uc *PurchaseOrderUseCase) document(ctx context.Context, id string) (*PurchaseOrderDocument, error) {
	po, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.repos.Suppliers.GetByID(ctx, po.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("documento: obtener proveedor: %w", err)
	}
	if supplier == nil {
		return nil, fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, po.SupplierID)
	}
	lines := make([]DocumentLine, 0, len(po.Items))
	for _, it := range po.Items {
		line := DocumentLine{PurchaseOrderItem: it, ProductName: "Producto " + it.ProductID}
		if p, pErr := uc.repos.Products.GetByID(ctx, it.ProductID); pErr == nil && p != nil {
			line.SKU = p.SKU
			line.ProductName = p.Name
			line.UnitMeasure = p.UnitMeasure
		}
		lines = append(lines, line)
	}
	return &PurchaseOrderDocument{
		Order:     po,
		Supplier:  supplier,
		Lines:     lines,
		BuyerName: uc.cfg.BuyerName,
	}, nil
}

func (uc *PurchaseOrderUseCase) newNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("%s-%s-%s", uc.cfg.NumberPrefix, now.Format("20060102"), suffix)
}

func lockOrder(ctx context.Context, r repository.Repos, id string) (*entity.PurchaseOrder, error) {
	po, err := r.PurchaseOrders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	return po, nil
}

func ensureSupplierCanOrder(ctx context.Context, repo repository.SupplierRepository, supplierID string) error {
	supplier, err := repo.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if supplier == nil {
		return fmt.Errorf("%w: proveedor %s", domain.ErrNotFound, supplierID)
	}
	if !supplier.CanReceiveOrders() {
		return fmt.Errorf("%w: el proveedor %s está en estado %s", domain.ErrInvalidOperation, supplier.Code, supplier.Status)
	}
	return nil
}

func buildItems(ctx context.Context, products repository.ProductRepository, poID string, in []dto.PurchaseOrderItemRequest) ([]entity.PurchaseOrderItem, error) {
	items := make([]entity.PurchaseOrderItem, 0, len(in))
	for _, req := range in {
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad debe ser positiva", domain.ErrInvalidInput)
		}
		if req.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("%w: precio unitario negativo", domain.ErrInvalidInput)
		}
		product, err := products.GetByID(ctx, req.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, req.ProductID)
		}
		if !product.IsActive() {
			return nil, fmt.Errorf("%w: el producto %s está inactivo", domain.ErrInvalidOperation, product.SKU)
		}
		items = append(items, entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: poID,
			ProductID:       req.ProductID,
			Quantity:        req.Quantity,
			UnitPrice:       req.UnitPrice,
			Notes:           req.Notes,
		})
	}
	return items, nil
}
