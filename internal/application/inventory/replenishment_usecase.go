package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de una ubicación (o de todas).
type ReplenishmentUseCase struct {
	inventoryRepo repository.InventoryRepository
	productRepo   repository.ProductRepository
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	inventoryRepo repository.InventoryRepository,
	productRepo repository.ProductRepository,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		inventoryRepo: inventoryRepo,
		productRepo:   productRepo,
	}
}

// GenerateReplenishmentList devuelve los registros en o bajo su punto de reorden con la
// cantidad sugerida de pedido, ordenados por déficit (punto de reorden - en mano).
// locationID puede ser vacío para considerar todas las ubicaciones.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, locationID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	// 1. Registros con stock bajo
	rows, err := uc.inventoryRepo.List(ctx, repository.InventoryFilter{
		LocationID: locationID,
		LowStock:   true,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Construir sugerencias enriquecidas con el producto
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rows))
	for _, inv := range rows {
		qty := inv.ReorderQuantity
		if qty <= 0 {
			// 1.5 × punto de reorden (redondeado hacia arriba) menos lo que hay en mano
			qty = (3*inv.ReorderPoint+1)/2 - inv.QuantityOnHand
		}
		if qty < 0 {
			qty = 0
		}

		s := dto.ReplenishmentSuggestionDTO{
			InventoryID:       inv.ID,
			ProductID:         inv.ProductID,
			LocationID:        inv.LocationID,
			QuantityOnHand:    inv.QuantityOnHand,
			ReorderPoint:      inv.ReorderPoint,
			SuggestedOrderQty: qty,
			UnitCost:          inv.AverageCost,
		}
		if p, pErr := uc.productRepo.GetByID(ctx, inv.ProductID); pErr == nil && p != nil {
			s.SKU = p.SKU
			s.ProductName = p.Name
			// Sin entradas con costo: estimar con el precio de lista
			if s.UnitCost.IsZero() {
				s.UnitCost = p.UnitPrice
			}
		}
		s.EstimatedOrderCost = s.UnitCost.Mul(decimal.NewFromInt(qty))
		suggestions = append(suggestions, s)
	}

	// 3. Ordenar: mayor déficit primero; empate por SKU para un orden estable
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		defA := a.ReorderPoint - a.QuantityOnHand
		defB := b.ReorderPoint - b.QuantityOnHand
		if defA != defB {
			return defA > defB
		}
		return a.SKU < b.SKU
	})

	// 4. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}

	return suggestions, nil
}
