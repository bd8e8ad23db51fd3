package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// InventoryRepo implementa repository.InventoryRepository en memoria.
type InventoryRepo struct{ v view }

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

func (r *InventoryRepo) Create(_ context.Context, inv *entity.Inventory) error {
	return r.v.with(func(d *dataset) error {
		for _, other := range d.inventory {
			if other.ProductID == inv.ProductID && other.LocationID == inv.LocationID {
				return fmt.Errorf("insert inventory: %w", domain.ErrDuplicate)
			}
		}
		d.inventory[inv.ID] = *inv
		return nil
	})
}

func (r *InventoryRepo) GetByID(_ context.Context, id string) (*entity.Inventory, error) {
	var out *entity.Inventory
	err := r.v.with(func(d *dataset) error {
		if inv, ok := d.inventory[id]; ok {
			out = &inv
		}
		return nil
	})
	return out, err
}

func (r *InventoryRepo) GetForUpdate(ctx context.Context, id string) (*entity.Inventory, error) {
	return r.GetByID(ctx, id)
}

func (r *InventoryRepo) GetByProductLocationForUpdate(_ context.Context, productID, locationID string) (*entity.Inventory, error) {
	var out *entity.Inventory
	err := r.v.with(func(d *dataset) error {
		for _, inv := range d.inventory {
			if inv.ProductID == productID && inv.LocationID == locationID {
				inv := inv
				out = &inv
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *InventoryRepo) Update(_ context.Context, inv *entity.Inventory) error {
	return r.v.with(func(d *dataset) error {
		if _, ok := d.inventory[inv.ID]; !ok {
			return domain.ErrNotFound
		}
		d.inventory[inv.ID] = *inv
		return nil
	})
}

func (r *InventoryRepo) List(_ context.Context, f repository.InventoryFilter) ([]*entity.Inventory, error) {
	var out []*entity.Inventory
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.Inventory, 0)
		for _, inv := range d.inventory {
			if f.LocationID != "" && inv.LocationID != f.LocationID {
				continue
			}
			if f.ProductID != "" && inv.ProductID != f.ProductID {
				continue
			}
			if f.LowStock && !inv.IsLowStock() {
				continue
			}
			inv := inv
			list = append(list, &inv)
		}
		sort.Slice(list, func(i, j int) bool {
			if list[i].LocationID != list[j].LocationID {
				return list[i].LocationID < list[j].LocationID
			}
			return list[i].ProductID < list[j].ProductID
		})
		out = paginate(list, f.Limit, f.Offset)
		return nil
	})
	return out, err
}

func (r *InventoryRepo) StockByLocation(_ context.Context) ([]repository.LocationStock, error) {
	var out []repository.LocationStock
	err := r.v.with(func(d *dataset) error {
		byLocation := map[string]*repository.LocationStock{}
		for _, inv := range d.inventory {
			ls, ok := byLocation[inv.LocationID]
			if !ok {
				ls = &repository.LocationStock{LocationID: inv.LocationID, StockValue: decimal.Zero}
				byLocation[inv.LocationID] = ls
			}
			ls.Items++
			ls.QuantityOnHand += inv.QuantityOnHand
			ls.QuantityReserved += inv.QuantityReserved
			if inv.IsLowStock() {
				ls.LowStockItems++
			}
			if inv.QuantityOnHand == 0 {
				ls.OutOfStockItems++
			}
			ls.StockValue = ls.StockValue.Add(inv.AverageCost.Mul(decimal.NewFromInt(inv.QuantityOnHand)))
		}
		out = make([]repository.LocationStock, 0, len(byLocation))
		for _, ls := range byLocation {
			out = append(out, *ls)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].LocationID < out[j].LocationID })
		return nil
	})
	return out, err
}

func (r *InventoryRepo) AddAdjustment(_ context.Context, adj *entity.InventoryAdjustment) error {
	return r.v.with(func(d *dataset) error {
		d.adjustments = append(d.adjustments, *adj)
		return nil
	})
}

// ListAdjustments devuelve el historial más reciente primero.
func (r *InventoryRepo) ListAdjustments(_ context.Context, inventoryID string, limit, offset int) ([]*entity.InventoryAdjustment, error) {
	var out []*entity.InventoryAdjustment
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.InventoryAdjustment, 0)
		for i := len(d.adjustments) - 1; i >= 0; i-- {
			if d.adjustments[i].InventoryID == inventoryID {
				adj := d.adjustments[i]
				list = append(list, &adj)
			}
		}
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}

func (r *InventoryRepo) AddCount(_ context.Context, count *entity.InventoryCount) error {
	return r.v.with(func(d *dataset) error {
		d.counts = append(d.counts, *count)
		return nil
	})
}

func (r *InventoryRepo) ListCounts(_ context.Context, inventoryID string, limit, offset int) ([]*entity.InventoryCount, error) {
	var out []*entity.InventoryCount
	err := r.v.with(func(d *dataset) error {
		list := make([]*entity.InventoryCount, 0)
		for i := len(d.counts) - 1; i >= 0; i-- {
			if d.counts[i].InventoryID == inventoryID {
				c := d.counts[i]
				list = append(list, &c)
			}
		}
		out = paginate(list, limit, offset)
		return nil
	})
	return out, err
}
