package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin     = "admin"
	RoleManager   = "manager"   // aprueba órdenes y administra catálogos
	RoleBuyer     = "buyer"     // crea y gestiona órdenes de compra
	RoleWarehouse = "warehouse" // ajustes, conteos y recepción
)

// ValidRole indica si role es uno de los roles conocidos.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleBuyer, RoleWarehouse:
		return true
	}
	return false
}

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, manager, buyer, warehouse
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
