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

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

const inventoryColumns = `id, product_id, location_id, quantity_on_hand, quantity_reserved, reorder_point,
	reorder_quantity, average_cost, last_counted_at, last_movement_at, created_at, updated_at`

// InventoryRepo libro de inventario sobre PostgreSQL. Los CHECK de la tabla rechazan existencias
// negativas o reservas mayores a lo disponible aunque un caller omita la validación.
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador. Acepta pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

func (r *InventoryRepo) Create(ctx context.Context, inv *entity.Inventory) error {
	query := `
		INSERT INTO inventory (id, product_id, location_id, quantity_on_hand, quantity_reserved, reorder_point,
			reorder_quantity, average_cost, last_counted_at, last_movement_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.ProductID, inv.LocationID, inv.QuantityOnHand, inv.QuantityReserved, inv.ReorderPoint,
		inv.ReorderQuantity, inv.AverageCost, inv.LastCountedAt, inv.LastMovementAt, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory: %w", err)
	}
	return nil
}

func (r *InventoryRepo) GetByID(ctx context.Context, id string) (*entity.Inventory, error) {
	return scanInventory(r.q.QueryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = $1`, id))
}

// GetForUpdate bloquea la fila con SELECT ... FOR UPDATE (usar dentro de una transacción).
func (r *InventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error) {
	return scanInventory(r.q.QueryRow(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = $1 FOR UPDATE`, id))
}

func (r *InventoryRepo) GetByProductLocationForUpdate(ctx context.Context, productID, locationID string) (*entity.Inventory, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory WHERE product_id = $1 AND location_id = $2 FOR UPDATE`
	return scanInventory(r.q.QueryRow(ctx, query, productID, locationID))
}

func (r *InventoryRepo) Update(ctx context.Context, inv *entity.Inventory) error {
	query := `
		UPDATE inventory SET quantity_on_hand = $2, quantity_reserved = $3, reorder_point = $4,
			reorder_quantity = $5, average_cost = $6, last_counted_at = $7, last_movement_at = $8, updated_at = $9
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.QuantityOnHand, inv.QuantityReserved, inv.ReorderPoint, inv.ReorderQuantity,
		inv.AverageCost, inv.LastCountedAt, inv.LastMovementAt, inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update inventory: %w", err)
	}
	return nil
}

func (r *InventoryRepo) List(ctx context.Context, f repository.InventoryFilter) ([]*entity.Inventory, error) {
	var w filter
	w.add("location_id = ?", f.LocationID)
	w.add("product_id = ?", f.ProductID)
	if f.LowStock {
		w.raw("quantity_on_hand <= reorder_point")
	}
	query := `SELECT ` + inventoryColumns + ` FROM inventory` + w.where() +
		` ORDER BY location_id, product_id` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Inventory, 0)
	for rows.Next() {
		inv, err := scanInventory(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// StockByLocation agrega existencias y valor (en mano * costo promedio) por ubicación.
func (r *InventoryRepo) StockByLocation(ctx context.Context) ([]repository.LocationStock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT
			location_id,
			count(*),
			COALESCE(SUM(quantity_on_hand), 0),
			COALESCE(SUM(quantity_reserved), 0),
			count(*) FILTER (WHERE quantity_on_hand <= reorder_point),
			count(*) FILTER (WHERE quantity_on_hand = 0),
			COALESCE(SUM(quantity_on_hand * average_cost), 0)
		FROM inventory
		GROUP BY location_id
		ORDER BY location_id`)
	if err != nil {
		return nil, fmt.Errorf("stock by location: %w", err)
	}
	defer rows.Close()
	list := make([]repository.LocationStock, 0)
	for rows.Next() {
		var l repository.LocationStock
		if err := rows.Scan(&l.LocationID, &l.Items, &l.QuantityOnHand, &l.QuantityReserved,
			&l.LowStockItems, &l.OutOfStockItems, &l.StockValue); err != nil {
			return nil, fmt.Errorf("scan stock by location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

func (r *InventoryRepo) AddAdjustment(ctx context.Context, a *entity.InventoryAdjustment) error {
	query := `
		INSERT INTO inventory_adjustments (id, inventory_id, type, quantity, delta, previous_quantity, new_quantity,
			unit_cost, reference, notes, adjusted_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.InventoryID, a.Type, a.Quantity, a.Delta, a.PreviousQuantity, a.NewQuantity,
		a.UnitCost, a.Reference, a.Notes, a.AdjustedBy, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert adjustment: %w", err)
	}
	return nil
}

func (r *InventoryRepo) ListAdjustments(ctx context.Context, inventoryID string, limit, offset int) ([]*entity.InventoryAdjustment, error) {
	var w filter
	w.addAlways("inventory_id = ?", inventoryID)
	query := `
		SELECT id, inventory_id, type, quantity, delta, previous_quantity, new_quantity, unit_cost, reference,
			notes, adjusted_by, created_at
		FROM inventory_adjustments` + w.where() + ` ORDER BY created_at DESC, id DESC` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list adjustments: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryAdjustment, 0)
	for rows.Next() {
		var a entity.InventoryAdjustment
		if err := rows.Scan(&a.ID, &a.InventoryID, &a.Type, &a.Quantity, &a.Delta, &a.PreviousQuantity,
			&a.NewQuantity, &a.UnitCost, &a.Reference, &a.Notes, &a.AdjustedBy, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan adjustment: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *InventoryRepo) AddCount(ctx context.Context, c *entity.InventoryCount) error {
	query := `
		INSERT INTO inventory_counts (id, inventory_id, system_quantity, counted_quantity, difference, counted_by, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.InventoryID, c.SystemQuantity, c.CountedQuantity, c.Difference, c.CountedBy, c.Notes, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert count: %w", err)
	}
	return nil
}

func (r *InventoryRepo) ListCounts(ctx context.Context, inventoryID string, limit, offset int) ([]*entity.InventoryCount, error) {
	var w filter
	w.addAlways("inventory_id = ?", inventoryID)
	query := `
		SELECT id, inventory_id, system_quantity, counted_quantity, difference, counted_by, notes, created_at
		FROM inventory_counts` + w.where() + ` ORDER BY created_at DESC, id DESC` + w.page(limit, offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list counts: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.InventoryCount, 0)
	for rows.Next() {
		var c entity.InventoryCount
		if err := rows.Scan(&c.ID, &c.InventoryID, &c.SystemQuantity, &c.CountedQuantity, &c.Difference,
			&c.CountedBy, &c.Notes, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

func scanInventory(row pgx.Row) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := row.Scan(&inv.ID, &inv.ProductID, &inv.LocationID, &inv.QuantityOnHand, &inv.QuantityReserved,
		&inv.ReorderPoint, &inv.ReorderQuantity, &inv.AverageCost, &inv.LastCountedAt, &inv.LastMovementAt,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan inventory: %w", err)
	}
	return &inv, nil
}
