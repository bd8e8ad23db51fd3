package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInvalidOperation   = errors.New("operación inválida")
)

// Variantes de ErrInvalidOperation: errors.Is(err, ErrInvalidOperation) es true para todas.
var (
	ErrCircularReference = fmt.Errorf("%w: referencia circular en la jerarquía", ErrInvalidOperation)
	ErrInsufficientStock = fmt.Errorf("%w: stock insuficiente", ErrInvalidOperation)
	ErrOverReceipt       = fmt.Errorf("%w: la cantidad recibida supera la ordenada", ErrInvalidOperation)
)
