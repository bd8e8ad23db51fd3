package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Code         string          `json:"code" validate:"required,min=1,max=50"`
	Name         string          `json:"name" validate:"required,min=1,max=200"`
	Category     string          `json:"category" validate:"required,oneof=manufacturer distributor wholesaler service_provider"`
	Status       string          `json:"status" validate:"omitempty,oneof=active inactive blacklisted pending"`
	TaxID        string          `json:"tax_id" validate:"omitempty,max=50"`
	Email        string          `json:"email" validate:"omitempty,email"`
	Phone        string          `json:"phone" validate:"omitempty,max=50"`
	Address      string          `json:"address"`
	PaymentTerms int             `json:"payment_terms" validate:"min=0,max=365"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	Currency     string          `json:"currency" validate:"omitempty,len=3"`
	IsPreferred  bool            `json:"is_preferred"`
	Notes        string          `json:"notes"`
}

// UpdateSupplierRequest cambios parciales sobre un proveedor.
type UpdateSupplierRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Category     *string          `json:"category" validate:"omitempty,oneof=manufacturer distributor wholesaler service_provider"`
	Status       *string          `json:"status" validate:"omitempty,oneof=active inactive blacklisted pending"`
	TaxID        *string          `json:"tax_id" validate:"omitempty,max=50"`
	Email        *string          `json:"email" validate:"omitempty,email"`
	Phone        *string          `json:"phone" validate:"omitempty,max=50"`
	Address      *string          `json:"address"`
	PaymentTerms *int             `json:"payment_terms" validate:"omitempty,min=0,max=365"`
	CreditLimit  *decimal.Decimal `json:"credit_limit"`
	IsPreferred  *bool            `json:"is_preferred"`
	Notes        *string          `json:"notes"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID           string          `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	Status       string          `json:"status"`
	TaxID        string          `json:"tax_id,omitempty"`
	Email        string          `json:"email,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Address      string          `json:"address,omitempty"`
	PaymentTerms int             `json:"payment_terms"`
	CreditLimit  decimal.Decimal `json:"credit_limit"`
	Currency     string          `json:"currency"`
	IsPreferred  bool            `json:"is_preferred"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
