package inventory

import (
	"fmt"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

// SignedDelta traduce un tipo de ajuste y su cantidad al cambio sobre QuantityOnHand.
//
//	receipt, return  -> +quantity
//	issue, damage    -> -quantity
//	adjustment       -> quantity tal cual (con signo, distinto de cero)
func SignedDelta(adjustmentType string, quantity int64) (int64, error) {
	switch adjustmentType {
	case entity.AdjustmentReceipt, entity.AdjustmentReturn:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: %s requiere cantidad positiva", domain.ErrInvalidInput, adjustmentType)
		}
		return quantity, nil
	case entity.AdjustmentIssue, entity.AdjustmentDamage:
		if quantity <= 0 {
			return 0, fmt.Errorf("%w: %s requiere cantidad positiva", domain.ErrInvalidInput, adjustmentType)
		}
		return -quantity, nil
	case entity.AdjustmentAdjustment:
		if quantity == 0 {
			return 0, fmt.Errorf("%w: el ajuste no puede ser cero", domain.ErrInvalidInput)
		}
		return quantity, nil
	}
	return 0, fmt.Errorf("%w: tipo de ajuste desconocido %q", domain.ErrInvalidInput, adjustmentType)
}

// Apply aplica delta sobre inv validando que no quede negativo ni por debajo de lo reservado.
// Devuelve la cantidad previa; inv solo se modifica si no hay error.
func Apply(inv *entity.Inventory, delta int64) (int64, error) {
	prev := inv.QuantityOnHand
	next := prev + delta
	if next < 0 {
		return prev, fmt.Errorf("%w: en mano %d, cambio %d", domain.ErrInsufficientStock, prev, delta)
	}
	if next < inv.QuantityReserved {
		return prev, fmt.Errorf("%w: %d reservadas, quedarían %d", domain.ErrInsufficientStock, inv.QuantityReserved, next)
	}
	inv.QuantityOnHand = next
	return prev, nil
}
