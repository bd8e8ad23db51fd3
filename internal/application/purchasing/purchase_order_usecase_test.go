package purchasing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/inventory"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/application/purchasing"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/internal/infrastructure/memory"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

type stubPDF struct{}

func (stubPDF) GeneratePurchaseOrderPDF(_ context.Context, doc *purchasing.PurchaseOrderDocument) ([]byte, error) {
	return []byte("%PDF-" + doc.Order.PONumber), nil
}

type stubUBL struct{}

func (stubUBL) BuildOrder(doc *purchasing.PurchaseOrderDocument) ([]byte, string, error) {
	return []byte("<Order>" + doc.Order.PONumber + "</Order>"), "digest", nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []ports.Notification
}

func (n *recordingNotifier) Notify(_ context.Context, msg ports.Notification) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

type fixture struct {
	store     *memory.Store
	orders    *purchasing.PurchaseOrderUseCase
	shipments *purchasing.ShipmentUseCase
	notifier  *recordingNotifier
	userID    string
	supplier  *entity.Supplier
	widget    *entity.Product
	bolt      *entity.Product
	location  *entity.Location
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	ledger := inventory.NewLedgerUseCase(store, store.Repos().Inventory, nil, inventory.Config{}, logger.NewNop())
	notifier := &recordingNotifier{}
	orders := purchasing.NewPurchaseOrderUseCase(
		store.Repos(), store, ledger, stubPDF{}, stubUBL{}, notifier,
		purchasing.Config{DefaultCurrency: "USD", NumberPrefix: "PO", BuyerName: "Acme Procurement"},
		logger.NewNop(),
	)
	f := &fixture{
		store:     store,
		orders:    orders,
		shipments: purchasing.NewShipmentUseCase(store.Repos(), store, orders, logger.NewNop()),
		notifier:  notifier,
		userID:    uuid.New().String(),
	}
	now := time.Now()
	f.supplier = &entity.Supplier{
		ID:    uuid.New().String(), Code: "SUP-001", Name: "Steel Works", Status: entity.SupplierStatusActive,
		Email: "orders@steelworks.test", Currency: "USD", CreatedAt: now, UpdatedAt: now,
	}
	f.widget = &entity.Product{
		ID:     uuid.New().String(), SKU: "WID-1", Name: "Widget", UnitPrice: decimal.NewFromInt(10),
		Status: entity.ProductStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	f.bolt = &entity.Product{
		ID:     uuid.New().String(), SKU: "BOLT-1", Name: "Bolt", UnitPrice: decimal.NewFromInt(1),
		Status: entity.ProductStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	f.location = &entity.Location{
		ID: uuid.New().String(), Code: "WH-01", Name: "Main warehouse", Status: "active", CreatedAt: now, UpdatedAt: now,
	}
	creator := &entity.User{
		ID: f.userID, Email: "buyer@acme.test", Name: "Buyer", Role: entity.RoleBuyer, Status: "active",
	}
	err := store.Run(context.Background(), func(r repository.Repos) error {
		ctx := context.Background()
		if err := r.Suppliers.Create(ctx, f.supplier); err != nil {
			return err
		}
		if err := r.Products.Create(ctx, f.widget); err != nil {
			return err
		}
		if err := r.Products.Create(ctx, f.bolt); err != nil {
			return err
		}
		if err := r.Users.Create(ctx, creator); err != nil {
			return err
		}
		return r.Locations.Create(ctx, f.location)
	})
	require.NoError(t, err)
	return f
}

// createOrder crea la orden de ejemplo: 10 widgets a 10.00 y 50 tornillos a 1.00.
func (f *fixture) createOrder(t *testing.T) *dto.PurchaseOrderResponse {
	t.Helper()
	po, err := f.orders.Create(context.Background(), f.userID, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID,
		Items: []dto.PurchaseOrderItemRequest{
			{ProductID: f.widget.ID, Quantity: 10, UnitPrice: decimal.RequireFromString("10.00")},
			{ProductID: f.bolt.ID, Quantity: 50, UnitPrice: decimal.RequireFromString("1.00")},
		},
	})
	require.NoError(t, err)
	return po
}

// orderedOrder lleva la orden de ejemplo hasta ordered.
func (f *fixture) orderedOrder(t *testing.T) *dto.PurchaseOrderResponse {
	t.Helper()
	ctx := context.Background()
	po := f.createOrder(t)
	_, err := f.orders.Submit(ctx, po.ID)
	require.NoError(t, err)
	_, err = f.orders.Decide(ctx, po.ID, uuid.New().String(), dto.ApprovalDecisionRequest{Decision: entity.ApprovalStatusApproved})
	require.NoError(t, err)
	po, err = f.orders.MarkOrdered(ctx, po.ID)
	require.NoError(t, err)
	return po
}

func (f *fixture) stock(t *testing.T, productID string) *entity.Inventory {
	t.Helper()
	inv, err := f.store.Repos().Inventory.GetByProductLocationForUpdate(context.Background(), productID, f.location.ID)
	require.NoError(t, err)
	return inv
}

func TestCreate_CalculaTotales(t *testing.T) {
	f := newFixture(t)

	po := f.createOrder(t)

	assert.Equal(t, string(entity.POStatusDraft), po.Status)
	assert.True(t, decimal.RequireFromString("150.00").Equal(po.TotalAmount), "total %s", po.TotalAmount)
	assert.Equal(t, "USD", po.Currency)
	assert.Regexp(t, `^PO-\d{8}-[0-9A-F]{8}$`, po.PONumber)
	require.Len(t, po.Items, 2)
	assert.True(t, decimal.NewFromInt(100).Equal(po.Items[0].TotalPrice))
}

func TestCreate_ProveedorInactivo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	err := f.store.Run(ctx, func(r repository.Repos) error {
		s := *f.supplier
		s.Status = entity.SupplierStatusBlacklisted
		return r.Suppliers.Update(ctx, &s)
	})
	require.NoError(t, err)

	_, err = f.orders.Create(ctx, f.userID, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID,
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: f.widget.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
}

func TestCreate_ValidaLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.Create(ctx, f.userID, dto.CreatePurchaseOrderRequest{SupplierID: f.supplier.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")

	_, err = f.orders.Create(ctx, f.userID, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID,
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: f.widget.ID, Quantity: 0, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = f.orders.Create(ctx, f.userID, dto.CreatePurchaseOrderRequest{
		SupplierID: f.supplier.ID,
		Items:      []dto.PurchaseOrderItemRequest{{ProductID: uuid.New().String(), Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound, "producto inexistente")
}

func TestUpdate_ReemplazaLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.createOrder(t)

	updated, err := f.orders.Update(ctx, po.ID, dto.UpdatePurchaseOrderRequest{
		Items: []dto.PurchaseOrderItemRequest{{ProductID: f.widget.ID, Quantity: 3, UnitPrice: decimal.RequireFromString("12.50")}},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.True(t, decimal.RequireFromString("37.50").Equal(updated.TotalAmount))

	got, err := f.orders.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 1)
	assert.True(t, decimal.RequireFromString("37.50").Equal(got.TotalAmount))
}

func TestUpdate_SinLineasRechazado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.createOrder(t)

	_, err := f.orders.Update(ctx, po.ID, dto.UpdatePurchaseOrderRequest{Items: []dto.PurchaseOrderItemRequest{}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	got, err := f.orders.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2, "las líneas originales se conservan")
	assert.True(t, decimal.RequireFromString("150.00").Equal(got.TotalAmount), "total %s", got.TotalAmount)
}

func TestDecide_OrdenSinLineasNoSeAprueba(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now()
	empty := &entity.PurchaseOrder{
		ID:        uuid.New().String(), PONumber: "PO-EMPTY", SupplierID: f.supplier.ID, CreatedBy: f.userID,
		Status:    entity.POStatusPendingApproval, OrderDate: now, Currency: "USD",
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.Run(ctx, func(r repository.Repos) error {
		return r.PurchaseOrders.Create(ctx, empty)
	}))

	_, err := f.orders.Decide(ctx, empty.ID, uuid.New().String(), dto.ApprovalDecisionRequest{Decision: entity.ApprovalStatusApproved})
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	got, err := f.orders.GetByID(ctx, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusPendingApproval), got.Status)
	assert.Empty(t, f.notifier.sent)
}

func TestDecide_AprobarYNotificar(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.createOrder(t)

	_, err := f.orders.Submit(ctx, po.ID)
	require.NoError(t, err)

	approver := uuid.New().String()
	approved, err := f.orders.Decide(ctx, po.ID, approver, dto.ApprovalDecisionRequest{
		Decision: entity.ApprovalStatusApproved,
		Comments: "ok",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusApproved), approved.Status)
	require.Len(t, approved.Approvals, 1)
	assert.Equal(t, approver, approved.Approvals[0].ApproverID)
	assert.NotNil(t, approved.Approvals[0].ApprovedAt)

	approvals, err := f.orders.ListApprovals(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, approvals, 1)

	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, []string{"buyer@acme.test"}, f.notifier.sent[0].To)

	_, err = f.orders.Decide(ctx, po.ID, approver, dto.ApprovalDecisionRequest{Decision: entity.ApprovalStatusApproved})
	assert.ErrorIs(t, err, domain.ErrConflict, "una orden aprobada no admite otra decisión")
}

func TestDecide_RechazoVuelveABorrador(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.createOrder(t)
	_, err := f.orders.Submit(ctx, po.ID)
	require.NoError(t, err)

	rejected, err := f.orders.Decide(ctx, po.ID, uuid.New().String(), dto.ApprovalDecisionRequest{
		Decision: entity.ApprovalStatusRejected,
		Comments: "precio alto",
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusDraft), rejected.Status)
	assert.Nil(t, rejected.Approvals[0].ApprovedAt)

	_, err = f.orders.Update(ctx, po.ID, dto.UpdatePurchaseOrderRequest{Notes: ptr("renegociado")})
	assert.NoError(t, err, "el borrador rechazado sigue siendo editable")
}

func TestMarkOrdered_EnviaPDFAlProveedor(t *testing.T) {
	f := newFixture(t)

	po := f.orderedOrder(t)

	assert.Equal(t, string(entity.POStatusOrdered), po.Status)
	last := f.notifier.sent[len(f.notifier.sent)-1]
	assert.Equal(t, []string{f.supplier.Email}, last.To)
	require.Len(t, last.Attachments, 1)
	assert.Equal(t, po.PONumber+".pdf", last.Attachments[0].Filename)
	assert.Equal(t, "application/pdf", last.Attachments[0].ContentType)
}

func TestMarkOrdered_RequiereAprobacion(t *testing.T) {
	f := newFixture(t)
	po := f.createOrder(t)

	_, err := f.orders.MarkOrdered(context.Background(), po.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancel_BloqueaCambiosPosteriores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.createOrder(t)

	cancelled, err := f.orders.Cancel(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusCancelled), cancelled.Status)

	_, err = f.orders.Update(ctx, po.ID, dto.UpdatePurchaseOrderRequest{Notes: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.orders.Cancel(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "cancelar dos veces")
}

func TestReceive_ParcialYTotalActualizaInventario(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.orderedOrder(t)
	widgetLine, boltLine := po.Items[0], po.Items[1]

	partial, err := f.orders.Receive(ctx, f.userID, po.ID, dto.ReceiveItemsRequest{Lines: []dto.ReceiptLineRequest{
		{ItemID: widgetLine.ID, Quantity: 4, LocationID: f.location.ID},
	}})
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusPartiallyReceived), partial.Status)
	assert.Equal(t, int64(4), partial.Items[0].ReceivedQuantity)

	inv := f.stock(t, f.widget.ID)
	require.NotNil(t, inv, "la recepción crea la fila de inventario")
	assert.Equal(t, int64(4), inv.QuantityOnHand)
	assert.True(t, decimal.NewFromInt(10).Equal(inv.AverageCost))

	done, err := f.orders.Receive(ctx, f.userID, po.ID, dto.ReceiveItemsRequest{Lines: []dto.ReceiptLineRequest{
		{ItemID: widgetLine.ID, Quantity: 6, LocationID: f.location.ID},
		{ItemID: boltLine.ID, Quantity: 50, LocationID: f.location.ID},
	}})
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusReceived), done.Status)
	assert.Equal(t, int64(10), f.stock(t, f.widget.ID).QuantityOnHand)
	assert.Equal(t, int64(50), f.stock(t, f.bolt.ID).QuantityOnHand)

	_, err = f.orders.Cancel(ctx, po.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "una orden recibida es terminal")
}

func TestReceive_ExcesoNoPersisteNada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.orderedOrder(t)

	_, err := f.orders.Receive(ctx, f.userID, po.ID, dto.ReceiveItemsRequest{Lines: []dto.ReceiptLineRequest{
		{ItemID: po.Items[1].ID, Quantity: 50, LocationID: f.location.ID},
		{ItemID: po.Items[0].ID, Quantity: 11, LocationID: f.location.ID},
	}})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrOverReceipt)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)

	got, err := f.orders.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusOrdered), got.Status)
	assert.Zero(t, got.Items[1].ReceivedQuantity)
	assert.Nil(t, f.stock(t, f.bolt.ID), "la transacción revertida no deja inventario")
}

func TestReceive_OrdenNoEmitida(t *testing.T) {
	f := newFixture(t)
	po := f.createOrder(t)

	_, err := f.orders.Receive(context.Background(), f.userID, po.ID, dto.ReceiveItemsRequest{Lines: []dto.ReceiptLineRequest{
		{ItemID: po.Items[0].ID, Quantity: 1, LocationID: f.location.ID},
	}})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestDocumentos_PDFyUBL(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.createOrder(t)

	pdf, filename, err := f.orders.RenderPDF(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, po.PONumber+".pdf", filename)
	assert.NotEmpty(t, pdf)

	xml, xmlName, digest, err := f.orders.ExportUBL(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, po.PONumber+".xml", xmlName)
	assert.Equal(t, "digest", digest)
	assert.Contains(t, string(xml), po.PONumber)

	_, _, err = f.orders.RenderPDF(ctx, uuid.New().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList_FiltraPorEstado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.createOrder(t)
	f.orderedOrder(t)

	drafts, err := f.orders.List(ctx, dto.PurchaseOrderListRequest{Status: string(entity.POStatusDraft)})
	require.NoError(t, err)
	assert.Len(t, drafts.Items, 1)

	all, err := f.orders.List(ctx, dto.PurchaseOrderListRequest{SupplierID: f.supplier.ID})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
}

func ptr[T any](v T) *T { return &v }
