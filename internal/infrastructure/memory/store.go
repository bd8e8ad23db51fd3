// Package memory implementa los puertos de persistencia en memoria. Sirve para DB_DRIVER=memory
// y para las pruebas de casos de uso: las transacciones se serializan con un mutex y se aplican
// sobre una copia del dataset que reemplaza al original solo si fn retorna nil.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

type dataset struct {
	categories  map[string]entity.Category
	products    map[string]entity.Product
	suppliers   map[string]entity.Supplier
	locations   map[string]entity.Location
	users       map[string]entity.User
	orders      map[string]entity.PurchaseOrder
	shipments   map[string]entity.Shipment
	inventory   map[string]entity.Inventory
	adjustments []entity.InventoryAdjustment
	counts      []entity.InventoryCount
}

func newDataset() *dataset {
	return &dataset{
		categories: map[string]entity.Category{},
		products:   map[string]entity.Product{},
		suppliers:  map[string]entity.Supplier{},
		locations:  map[string]entity.Location{},
		users:      map[string]entity.User{},
		orders:     map[string]entity.PurchaseOrder{},
		shipments:  map[string]entity.Shipment{},
		inventory:  map[string]entity.Inventory{},
	}
}

func (d *dataset) clone() *dataset {
	c := newDataset()
	for k, v := range d.categories {
		c.categories[k] = v
	}
	for k, v := range d.products {
		c.products[k] = cloneProduct(v)
	}
	for k, v := range d.suppliers {
		c.suppliers[k] = v
	}
	for k, v := range d.locations {
		c.locations[k] = v
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.orders {
		c.orders[k] = cloneOrder(v)
	}
	for k, v := range d.shipments {
		c.shipments[k] = cloneShipment(v)
	}
	for k, v := range d.inventory {
		c.inventory[k] = v
	}
	c.adjustments = append([]entity.InventoryAdjustment(nil), d.adjustments...)
	c.counts = append([]entity.InventoryCount(nil), d.counts...)
	return c
}

// Store dataset en memoria protegido por un mutex.
type Store struct {
	mu   sync.Mutex
	data *dataset
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{data: newDataset()}
}

var _ ports.TxRunner = (*Store)(nil)

// Run ejecuta fn sobre una copia del dataset; la copia reemplaza al original solo si fn retorna nil.
// Los repositorios de Repos() no deben usarse dentro de fn.
func (s *Store) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.data.clone()
	if err := fn(bind(view{tx: work})); err != nil {
		return err
	}
	s.data = work
	return nil
}

// Repos devuelve repositorios que leen y escriben el dataset confirmado (una operación por llamada).
func (s *Store) Repos() repository.Repos {
	return bind(view{store: s})
}

// view resuelve el dataset: el de la transacción en curso o el confirmado bajo el mutex.
type view struct {
	store *Store
	tx    *dataset
}

func (v view) with(fn func(d *dataset) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.data)
}

func bind(v view) repository.Repos {
	return repository.Repos{
		Categories:     &CategoryRepo{v: v},
		Products:       &ProductRepo{v: v},
		Suppliers:      &SupplierRepo{v: v},
		Locations:      &LocationRepo{v: v},
		Users:          &UserRepo{v: v},
		PurchaseOrders: &PurchaseOrderRepo{v: v},
		Shipments:      &ShipmentRepo{v: v},
		Inventory:      &InventoryRepo{v: v},
	}
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func cloneRaw(raw json.RawMessage) json.RawMessage {
	if raw == nil {
		return nil
	}
	return append(json.RawMessage(nil), raw...)
}

func cloneProduct(p entity.Product) entity.Product {
	p.Attributes = cloneRaw(p.Attributes)
	return p
}

func cloneOrder(po entity.PurchaseOrder) entity.PurchaseOrder {
	po.ApprovalWorkflow = cloneRaw(po.ApprovalWorkflow)
	po.Items = append([]entity.PurchaseOrderItem(nil), po.Items...)
	po.Approvals = append([]entity.PurchaseOrderApproval(nil), po.Approvals...)
	return po
}

func cloneShipment(s entity.Shipment) entity.Shipment {
	s.Items = append([]entity.ShipmentItem(nil), s.Items...)
	s.StatusHistory = append([]entity.ShipmentStatusChange(nil), s.StatusHistory...)
	return s
}
