package entity

import "time"

// Location bodega o sitio físico donde se almacena inventario.
type Location struct {
	ID        string
	Code      string // código único
	Name      string
	Address   string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
