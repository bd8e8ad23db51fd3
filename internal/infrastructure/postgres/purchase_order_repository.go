package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const purchaseOrderColumns = `id, po_number, supplier_id, created_by, status, order_date, expected_delivery_date,
	total_amount, currency, terms_and_conditions, notes, approval_workflow, created_at, updated_at`

// PurchaseOrderRepo persiste el agregado PurchaseOrder (cabecera, líneas y aprobaciones).
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Acepta pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta cabecera y líneas. Debe ejecutarse dentro de una transacción.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		INSERT INTO purchase_orders (id, po_number, supplier_id, created_by, status, order_date, expected_delivery_date,
			total_amount, currency, terms_and_conditions, notes, approval_workflow, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.PONumber, po.SupplierID, po.CreatedBy, string(po.Status), po.OrderDate, po.ExpectedDeliveryDate,
		po.TotalAmount, po.Currency, po.TermsAndConditions, po.Notes, nullJSON(po.ApprovalWorkflow),
		po.CreatedAt, po.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	return r.insertItems(ctx, po.Items)
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.get(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

// Update persiste la cabecera y received_quantity de cada línea.
func (r *PurchaseOrderRepo) Update(ctx context.Context, po *entity.PurchaseOrder) error {
	query := `
		UPDATE purchase_orders SET supplier_id = $2, status = $3, expected_delivery_date = $4, total_amount = $5,
			currency = $6, terms_and_conditions = $7, notes = $8, approval_workflow = $9, updated_at = $10
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		po.ID, po.SupplierID, string(po.Status), po.ExpectedDeliveryDate, po.TotalAmount, po.Currency,
		po.TermsAndConditions, po.Notes, nullJSON(po.ApprovalWorkflow), po.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	for _, it := range po.Items {
		if _, err := r.q.Exec(ctx,
			`UPDATE purchase_order_items SET received_quantity = $2 WHERE id = $1`,
			it.ID, it.ReceivedQuantity,
		); err != nil {
			return fmt.Errorf("update purchase order item: %w", err)
		}
	}
	return nil
}

func (r *PurchaseOrderRepo) ReplaceItems(ctx context.Context, poID string, items []entity.PurchaseOrderItem) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_items WHERE purchase_order_id = $1`, poID); err != nil {
		return fmt.Errorf("delete purchase order items: %w", err)
	}
	return r.insertItems(ctx, items)
}

func (r *PurchaseOrderRepo) AddApproval(ctx context.Context, a *entity.PurchaseOrderApproval) error {
	query := `
		INSERT INTO purchase_order_approvals (id, purchase_order_id, approver_id, status, comments, approved_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.PurchaseOrderID, a.ApproverID, a.Status, a.Comments, a.ApprovedAt, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert approval: %w", err)
	}
	return nil
}

func (r *PurchaseOrderRepo) ListApprovals(ctx context.Context, poID string) ([]entity.PurchaseOrderApproval, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, approver_id, status, comments, approved_at, created_at
		FROM purchase_order_approvals WHERE purchase_order_id = $1 ORDER BY created_at`, poID)
	if err != nil {
		return nil, fmt.Errorf("list approvals: %w", err)
	}
	defer rows.Close()
	list := make([]entity.PurchaseOrderApproval, 0)
	for rows.Next() {
		var a entity.PurchaseOrderApproval
		if err := rows.Scan(&a.ID, &a.PurchaseOrderID, &a.ApproverID, &a.Status, &a.Comments, &a.ApprovedAt, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan approval: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// List devuelve cabeceras con sus líneas, más recientes primero.
func (r *PurchaseOrderRepo) List(ctx context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	var w filter
	w.add("status = ?", string(f.Status))
	w.add("supplier_id = ?", f.SupplierID)
	query := `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders` + w.where() +
		` ORDER BY created_at DESC, po_number DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	list := make([]*entity.PurchaseOrder, 0)
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, po)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	for _, po := range list {
		if po.Items, err = r.items(ctx, po.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *PurchaseOrderRepo) get(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil || po == nil {
		return po, err
	}
	if po.Items, err = r.items(ctx, po.ID); err != nil {
		return nil, err
	}
	if po.Approvals, err = r.ListApprovals(ctx, po.ID); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) items(ctx context.Context, poID string) ([]entity.PurchaseOrderItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, product_id, quantity, unit_price, total_price, received_quantity, notes
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY line_no`, poID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order items: %w", err)
	}
	defer rows.Close()
	items := make([]entity.PurchaseOrderItem, 0)
	for rows.Next() {
		var it entity.PurchaseOrderItem
		if err := rows.Scan(&it.ID, &it.PurchaseOrderID, &it.ProductID, &it.Quantity, &it.UnitPrice,
			&it.TotalPrice, &it.ReceivedQuantity, &it.Notes); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PurchaseOrderRepo) insertItems(ctx context.Context, items []entity.PurchaseOrderItem) error {
	query := `
		INSERT INTO purchase_order_items (id, purchase_order_id, line_no, product_id, quantity, unit_price,
			total_price, received_quantity, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for i, it := range items {
		if _, err := r.q.Exec(ctx, query,
			it.ID, it.PurchaseOrderID, i+1, it.ProductID, it.Quantity, it.UnitPrice, it.TotalPrice,
			it.ReceivedQuantity, it.Notes,
		); err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		po     entity.PurchaseOrder
		status string
	)
	err := row.Scan(&po.ID, &po.PONumber, &po.SupplierID, &po.CreatedBy, &status, &po.OrderDate,
		&po.ExpectedDeliveryDate, &po.TotalAmount, &po.Currency, &po.TermsAndConditions, &po.Notes,
		&po.ApprovalWorkflow, &po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan purchase order: %w", err)
	}
	po.Status = entity.PurchaseOrderStatus(status)
	return &po, nil
}
