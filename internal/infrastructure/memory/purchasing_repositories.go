package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// PurchaseOrderRepo implementa repository.PurchaseOrderRepository en memoria.
type PurchaseOrderRepo struct{ v view }

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

func (r *PurchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	return r.v.with(func(d *dataset) error {
		for _, other := range d.orders {
			if other.PONumber == po.PONumber {
				return fmt.Errorf("insert purchase order: %w", domain.ErrDuplicate)
			}
		}
		d.orders[po.ID] = cloneOrder(*po)
		return nil
	})
}

func (r *PurchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.v.with(func(d *dataset) error {
		if po, ok := d.orders[id]; ok {
			po = cloneOrder(po)
			out = &po
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: Store.Run ya serializa las transacciones.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *PurchaseOrderRepo) Update(_ context.Context, po *entity.PurchaseOrder) error {
	return r.v.with(func(d *dataset) error {
		stored, ok := d.orders[po.ID]
		if !ok {
			return domain.ErrNotFound
		}
		received := make(map[string]int64, len(po.Items))
		for _, it := range po.Items {
			received[it.ID] = it.ReceivedQuantity
		}
		items := stored.Items
		approvals := stored.Approvals
		stored = cloneOrder(*po)
		stored.Items = items
		stored.Approvals = approvals
		for i := range stored.Items {
			if q, ok := received[stored.Items[i].ID]; ok {
				stored.Items[i].ReceivedQuantity = q
			}
		}
		d.orders[po.ID] = stored
		return nil
	})
}

func (r *PurchaseOrderRepo) ReplaceItems(_ context.Context, poID string, items []entity.PurchaseOrderItem) error {
	return r.v.with(func(d *dataset) error {
		po, ok := d.orders[poID]
		if !ok {
			return domain.ErrNotFound
		}
		po.Items = append([]entity.PurchaseOrderItem(nil), items...)
		d.orders[poID] = po
		return nil
	})
}

func (r *PurchaseOrderRepo) AddApproval(_ context.Context, a *entity.PurchaseOrderApproval) error {
	return r.v.with(func(d *dataset) error {
		po, ok := d.orders[a.PurchaseOrderID]
		if !ok {
			return domain.ErrNotFound
		}
		po.Approvals = append(po.Approvals, *a)
		d.orders[po.ID] = po
		return nil
	})
}

func (r *PurchaseOrderRepo) ListApprovals(_ context.Context, poID string) ([]entity.PurchaseOrderApproval, error) {
	var out []entity.PurchaseOrderApproval
	err := r.v.with(func(d *dataset) error {
		po, ok := d.orders[poID]
		if !ok {
			return nil
		}
		out = append([]entity.PurchaseOrderApproval{}, po.Approvals...)
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepo) List(_ context.Context, f repository.PurchaseOrderFilter) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.PurchaseOrder, 0)
		for _, po := range d.orders {
			if f.Status != "" && po.Status != f.Status {
				continue
			}
			if f.SupplierID != "" && po.SupplierID != f.SupplierID {
				continue
			}
			po = cloneOrder(po)
			list = append(list, &po)
		}
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].PONumber > list[j].PONumber
		})
		out = paginate(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

// ShipmentRepo implementa repository.ShipmentRepository en memoria.
type ShipmentRepo struct{ v view }

var _ repository.ShipmentRepository = (*ShipmentRepo)(nil)

func (r *ShipmentRepo) Create(_ context.Context, s *entity.Shipment) error {
	return r.v.with(func(d *dataset) error {
		for _, other := range d.shipments {
			if other.ShipmentNumber == s.ShipmentNumber ||
				(s.TrackingNumber != "" && other.TrackingNumber == s.TrackingNumber) {
				return fmt.Errorf("insert shipment: %w", domain.ErrDuplicate)
			}
		}
		d.shipments[s.ID] = cloneShipment(*s)
		return nil
	})
}

func (r *ShipmentRepo) GetByID(_ context.Context, id string) (*entity.Shipment, error) {
	var out *entity.Shipment
	err := r.v.with(func(d *dataset) error {
		if s, ok := d.shipments[id]; ok {
			s = cloneShipment(s)
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) GetForUpdate(ctx context.Context, id string) (*entity.Shipment, error) {
	return r.GetByID(ctx, id)
}

func (r *ShipmentRepo) GetByTrackingNumber(_ context.Context, trackingNumber string) (*entity.Shipment, error) {
	var out *entity.Shipment
	err := r.v.with(func(d *dataset) error {
		for _, s := range d.shipments {
			if s.TrackingNumber == trackingNumber {
				s = cloneShipment(s)
				out = &s
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *ShipmentRepo) Update(_ context.Context, s *entity.Shipment) error {
	return r.v.with(func(d *dataset) error {
		stored, ok := d.shipments[s.ID]
		if !ok {
			return domain.ErrNotFound
		}
		items := stored.Items
		stored = cloneShipment(*s)
		stored.Items = items
		d.shipments[s.ID] = stored
		return nil
	})
}

func (r *ShipmentRepo) List(_ context.Context, f repository.ShipmentFilter) ([]*entity.Shipment, error) {
	var out []*entity.Shipment
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.Shipment, 0)
		for _, s := range d.shipments {
			if f.Status != "" && s.Status != f.Status {
				continue
			}
			if f.PurchaseOrderID != "" && s.PurchaseOrderID != f.PurchaseOrderID {
				continue
			}
			s = cloneShipment(s)
			list = append(list, &s)
		}
		sort.Slice(list, func(i, j int) bool {
			if !list[i].CreatedAt.Equal(list[j].CreatedAt) {
				return list[i].CreatedAt.After(list[j].CreatedAt)
			}
			return list[i].ShipmentNumber > list[j].ShipmentNumber
		})
		out = paginate(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}
