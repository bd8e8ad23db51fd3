package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categorías de proveedor.
const (
	SupplierCategoryManufacturer    = "manufacturer"
	SupplierCategoryDistributor     = "distributor"
	SupplierCategoryWholesaler      = "wholesaler"
	SupplierCategoryServiceProvider = "service_provider"
)

// Estados de proveedor.
const (
	SupplierStatusActive      = "active"
	SupplierStatusInactive    = "inactive"
	SupplierStatusBlacklisted = "blacklisted"
	SupplierStatusPending     = "pending"
)

// Supplier proveedor al que se emiten órdenes de compra.
type Supplier struct {
	ID           string
	Code         string // código único
	Name         string
	Category     string
	Status       string
	TaxID        string
	Email        string
	Phone        string
	Address      string
	PaymentTerms int // días
	CreditLimit  decimal.Decimal
	Currency     string
	IsPreferred  bool
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanReceiveOrders indica si se le pueden emitir órdenes nuevas.
func (s *Supplier) CanReceiveOrders() bool {
	return s != nil && s.Status == SupplierStatusActive
}
