package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

const shipmentColumns = `id, shipment_number, purchase_order_id, location_id, carrier, COALESCE(tracking_number, ''),
	shipment_type, status, shipped_date, expected_delivery_date, actual_delivery_date, shipping_cost, currency,
	notes, status_history, created_at, updated_at`

// ShipmentRepo persiste envíos con sus líneas; el historial de estados se guarda como JSONB.
type ShipmentRepo struct {
	q Querier
}

// NewShipmentRepository construye el adaptador. Acepta pool o tx (Querier).
func NewShipmentRepository(q Querier) *ShipmentRepo {
	return &ShipmentRepo{q: q}
}

func (r *ShipmentRepo) Create(ctx context.Context, s *entity.Shipment) error {
	history, err := json.Marshal(s.StatusHistory)
	if err != nil {
		return fmt.Errorf("encode status history: %w", err)
	}
	query := `
		INSERT INTO shipments (id, shipment_number, purchase_order_id, location_id, carrier, tracking_number,
			shipment_type, status, shipped_date, expected_delivery_date, actual_delivery_date, shipping_cost,
			currency, notes, status_history, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = r.q.Exec(ctx, query,
		s.ID, s.ShipmentNumber, s.PurchaseOrderID, s.LocationID, s.Carrier, s.TrackingNumber,
		s.ShipmentType, string(s.Status), s.ShippedDate, s.ExpectedDeliveryDate, s.ActualDeliveryDate,
		s.ShippingCost, s.Currency, s.Notes, history, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert shipment: %w", err)
	}
	for _, it := range s.Items {
		if _, err := r.q.Exec(ctx, `
			INSERT INTO shipment_items (id, shipment_id, purchase_order_item_id, quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			it.ID, it.ShipmentID, it.PurchaseOrderItemID, it.Quantity, it.UnitPrice, it.TotalPrice,
		); err != nil {
			return fmt.Errorf("insert shipment item: %w", err)
		}
	}
	return nil
}

func (r *ShipmentRepo) GetByID(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1`, id)
}

func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE id = $1 FOR UPDATE`, id)
}

func (r *ShipmentRepo) GetByTrackingNumber(ctx context.Context, trackingNumber string) (*entity.Shipment, error) {
	return r.get(ctx, `SELECT `+shipmentColumns+` FROM shipments WHERE tracking_number = $1`, trackingNumber)
}

// Update persiste estado, fechas e historial.
func (r *ShipmentRepo) Update(ctx context.Context, s *entity.Shipment) error {
	history, err := json.Marshal(s.StatusHistory)
	if err != nil {
		return fmt.Errorf("encode status history: %w", err)
	}
	query := `
		UPDATE shipments SET carrier = $2, tracking_number = NULLIF($3, ''), status = $4, shipped_date = $5,
			expected_delivery_date = $6, actual_delivery_date = $7, notes = $8, status_history = $9, updated_at = $10
		WHERE id = $1`
	_, err = r.q.Exec(ctx, query,
		s.ID, s.Carrier, s.TrackingNumber, string(s.Status), s.ShippedDate, s.ExpectedDeliveryDate,
		s.ActualDeliveryDate, s.Notes, history, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update shipment: %w", err)
	}
	return nil
}

func (r *ShipmentRepo) List(ctx context.Context, f repository.ShipmentFilter) ([]*entity.Shipment, error) {
	var w filter
	w.add("status = ?", string(f.Status))
	w.add("purchase_order_id = ?", f.PurchaseOrderID)
	query := `SELECT ` + shipmentColumns + ` FROM shipments` + w.where() +
		` ORDER BY created_at DESC, shipment_number DESC` + w.page(f.Limit, f.Offset)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	list := make([]*entity.Shipment, 0)
	for rows.Next() {
		s, err := scanShipment(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}
	for _, s := range list {
		if s.Items, err = r.items(ctx, s.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

func (r *ShipmentRepo) get(ctx context.Context, query, arg string) (*entity.Shipment, error) {
	s, err := scanShipment(r.q.QueryRow(ctx, query, arg))
	if err != nil || s == nil {
		return s, err
	}
	if s.Items, err = r.items(ctx, s.ID); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *ShipmentRepo) items(ctx context.Context, shipmentID string) ([]entity.ShipmentItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, shipment_id, purchase_order_item_id, quantity, unit_price, total_price
		FROM shipment_items WHERE shipment_id = $1 ORDER BY id`, shipmentID)
	if err != nil {
		return nil, fmt.Errorf("list shipment items: %w", err)
	}
	defer rows.Close()
	items := make([]entity.ShipmentItem, 0)
	for rows.Next() {
		var it entity.ShipmentItem
		if err := rows.Scan(&it.ID, &it.ShipmentID, &it.PurchaseOrderItemID, &it.Quantity, &it.UnitPrice, &it.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan shipment item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func scanShipment(row pgx.Row) (*entity.Shipment, error) {
	var (
		s       entity.Shipment
		status  string
		history []byte
	)
	err := row.Scan(&s.ID, &s.ShipmentNumber, &s.PurchaseOrderID, &s.LocationID, &s.Carrier, &s.TrackingNumber,
		&s.ShipmentType, &status, &s.ShippedDate, &s.ExpectedDeliveryDate, &s.ActualDeliveryDate,
		&s.ShippingCost, &s.Currency, &s.Notes, &history, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan shipment: %w", err)
	}
	s.Status = entity.ShipmentStatus(status)
	if len(history) > 0 {
		if err := json.Unmarshal(history, &s.StatusHistory); err != nil {
			return nil, fmt.Errorf("decode status history: %w", err)
		}
	}
	return &s, nil
}
