package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/inventory"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// LedgerUseCase libro de inventario por par producto-ubicación: ajustes firmados con
// bloqueo de fila (SELECT FOR UPDATE), conteos físicos, reservas y analítica.
type LedgerUseCase struct {
	txRunner ports.TxRunner
	repo     repository.InventoryRepository
	notifier ports.Notifier
	cfg      Config
	log      *logger.Logger
}

// Config parámetros del libro de inventario.
type Config struct {
	// LowStockRecipients destinatarios de la alerta de stock bajo; vacío la desactiva.
	LowStockRecipients []string
}

// NewLedgerUseCase construye el caso de uso. repo se usa para lecturas fuera de transacción.
func NewLedgerUseCase(
	txRunner ports.TxRunner,
	repo repository.InventoryRepository,
	notifier ports.Notifier,
	cfg Config,
	log *logger.Logger,
) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, repo: repo, notifier: notifier, cfg: cfg, log: log}
}

// Create da de alta el registro de un producto en una ubicación. El par es único.
func (uc *LedgerUseCase) Create(ctx context.Context, in dto.CreateInventoryRequest) (*dto.InventoryResponse, error) {
	if in.QuantityOnHand < 0 || in.ReorderPoint < 0 || in.ReorderQuantity < 0 {
		return nil, fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	var created *entity.Inventory
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		if err := ensureLocation(ctx, r, in.LocationID); err != nil {
			return err
		}
		existing, err := r.Inventory.GetByProductLocationForUpdate(ctx, in.ProductID, in.LocationID)
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("%w: el producto ya tiene inventario en la ubicación", domain.ErrDuplicate)
		}
		now := time.Now()
		inv := &entity.Inventory{
			ID:              uuid.New().String(),
			ProductID:       in.ProductID,
			LocationID:      in.LocationID,
			QuantityOnHand:  in.QuantityOnHand,
			ReorderPoint:    in.ReorderPoint,
			ReorderQuantity: in.ReorderQuantity,
			AverageCost:     decimal.Zero,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if in.QuantityOnHand > 0 {
			inv.AverageCost = product.UnitPrice
			inv.LastMovementAt = &now
		}
		if err := r.Inventory.Create(ctx, inv); err != nil {
			return err
		}
		created = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(created), nil
}

// GetByID obtiene un registro de inventario.
func (uc *LedgerUseCase) GetByID(ctx context.Context, id string) (*dto.InventoryResponse, error) {
	inv, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toInventoryResponse(inv), nil
}

// List lista inventario por ubicación, producto y stock bajo (en mano <= punto de reorden).
func (uc *LedgerUseCase) List(ctx context.Context, in dto.InventoryListRequest) (*dto.InventoryListResponse, error) {
	in.DefaultPage()
	list, err := uc.repo.List(ctx, repository.InventoryFilter{
		LocationID: in.LocationID,
		ProductID:  in.ProductID,
		LowStock:   in.LowStock,
		Limit:      in.Limit,
		Offset:     in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.InventoryResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInventoryResponse(inv))
	}
	return &dto.InventoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// Adjust aplica un ajuste firmado sobre la fila bloqueada. Falla con ErrInsufficientStock si el
// resultado queda negativo o por debajo de lo reservado; en ese caso nada se persiste.
func (uc *LedgerUseCase) Adjust(ctx context.Context, userID, id string, in dto.AdjustInventoryRequest) (*dto.InventoryResponse, error) {
	var (
		adjusted *entity.Inventory
		alert    *lowStockAlert
	)
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		inv, err := r.Inventory.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		adj, err := applyAdjustment(ctx, r, inv, adjustmentInput{
			Type:      in.Type,
			Quantity:  in.Quantity,
			UnitCost:  in.UnitCost,
			Reference: in.Reference,
			Notes:     in.Notes,
			UserID:    userID,
		})
		if err != nil {
			return err
		}
		if alert, err = uc.lowStockAlertFor(ctx, r, inv, adj.PreviousQuantity); err != nil {
			return err
		}
		adjusted = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.sendLowStockAlert(ctx, alert)
	return toInventoryResponse(adjusted), nil
}

// ReceiveInTx registra una entrada (receipt) del producto en la ubicación usando los
// repositorios del caller. Crea la fila de inventario si no existe.
// Implementa purchasing.InventoryReceiver.
func (uc *LedgerUseCase) ReceiveInTx(
	ctx context.Context,
	r repository.Repos,
	productID, locationID, userID string,
	quantity int64,
	unitCost decimal.Decimal,
	reference string,
) error {
	if err := ensureLocation(ctx, r, locationID); err != nil {
		return err
	}
	inv, err := r.Inventory.GetByProductLocationForUpdate(ctx, productID, locationID)
	if err != nil {
		return err
	}
	if inv == nil {
		now := time.Now()
		inv = &entity.Inventory{
			ID:          uuid.New().String(),
			ProductID:   productID,
			LocationID:  locationID,
			AverageCost: decimal.Zero,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := r.Inventory.Create(ctx, inv); err != nil {
			return err
		}
	}
	_, err = applyAdjustment(ctx, r, inv, adjustmentInput{
		Type:      entity.AdjustmentReceipt,
		Quantity:  quantity,
		UnitCost:  &unitCost,
		Reference: reference,
		UserID:    userID,
	})
	return err
}

// PhysicalCount registra un conteo físico. Siempre guarda el registro de auditoría; si hay
// diferencia fija la existencia al valor contado y ajusta lo reservado para que no la supere.
func (uc *LedgerUseCase) PhysicalCount(ctx context.Context, userID, id string, in dto.PhysicalCountRequest) (*dto.PhysicalCountResponse, error) {
	if in.CountedQuantity < 0 {
		return nil, fmt.Errorf("%w: cantidad contada negativa", domain.ErrInvalidInput)
	}
	var (
		counted *entity.Inventory
		record  *entity.InventoryCount
		alert   *lowStockAlert
	)
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		inv, err := r.Inventory.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		count := &entity.InventoryCount{
			ID:              uuid.New().String(),
			InventoryID:     inv.ID,
			SystemQuantity:  inv.QuantityOnHand,
			CountedQuantity: in.CountedQuantity,
			Difference:      in.CountedQuantity - inv.QuantityOnHand,
			CountedBy:       userID,
			Notes:           in.Notes,
			CreatedAt:       now,
		}
		if count.Difference != 0 {
			inv.QuantityOnHand = in.CountedQuantity
			if inv.QuantityReserved > inv.QuantityOnHand {
				inv.QuantityReserved = inv.QuantityOnHand
			}
			inv.LastCountedAt = &now
			inv.UpdatedAt = now
			if err := r.Inventory.Update(ctx, inv); err != nil {
				return err
			}
		}
		if err := r.Inventory.AddCount(ctx, count); err != nil {
			return err
		}
		if alert, err = uc.lowStockAlertFor(ctx, r, inv, count.SystemQuantity); err != nil {
			return err
		}
		counted, record = inv, count
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.sendLowStockAlert(ctx, alert)
	return &dto.PhysicalCountResponse{
		Inventory: *toInventoryResponse(counted),
		Count:     toCountResponse(record),
	}, nil
}

// Reserve aparta cantidad disponible para un compromiso.
func (uc *LedgerUseCase) Reserve(ctx context.Context, id string, in dto.ReservationRequest) (*dto.InventoryResponse, error) {
	return uc.reserve(ctx, id, in.Quantity)
}

// Release devuelve cantidad reservada al disponible.
func (uc *LedgerUseCase) Release(ctx context.Context, id string, in dto.ReservationRequest) (*dto.InventoryResponse, error) {
	return uc.reserve(ctx, id, -in.Quantity)
}

func (uc *LedgerUseCase) reserve(ctx context.Context, id string, delta int64) (*dto.InventoryResponse, error) {
	if delta == 0 {
		return nil, fmt.Errorf("%w: cantidad en cero", domain.ErrInvalidInput)
	}
	var out *entity.Inventory
	err := uc.txRunner.Run(ctx, func(r repository.Repos) error {
		inv, err := r.Inventory.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if delta > 0 && delta > inv.Available() {
			return fmt.Errorf("%w: disponible %d, solicitado %d", domain.ErrInsufficientStock, inv.Available(), delta)
		}
		if delta < 0 && -delta > inv.QuantityReserved {
			return fmt.Errorf("%w: reservado %d, a liberar %d", domain.ErrInvalidOperation, inv.QuantityReserved, -delta)
		}
		inv.QuantityReserved += delta
		inv.UpdatedAt = time.Now()
		if err := r.Inventory.Update(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInventoryResponse(out), nil
}

// ListAdjustments historial de ajustes de un registro, más reciente primero.
func (uc *LedgerUseCase) ListAdjustments(ctx context.Context, id string, page dto.PageRequest) ([]dto.AdjustmentResponse, error) {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.ListAdjustments(ctx, id, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdjustmentResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAdjustmentResponse(a))
	}
	return out, nil
}

// ListCounts historial de conteos físicos de un registro, más reciente primero.
func (uc *LedgerUseCase) ListCounts(ctx context.Context, id string, page dto.PageRequest) ([]dto.CountResponse, error) {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return nil, err
	}
	page.DefaultPage()
	list, err := uc.repo.ListCounts(ctx, id, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CountResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCountResponse(c))
	}
	return out, nil
}

// Analytics vista agregada de solo lectura: conteos, totales y valor del stock por ubicación.
func (uc *LedgerUseCase) Analytics(ctx context.Context) (*dto.InventoryAnalyticsResponse, error) {
	byLocation, err := uc.repo.StockByLocation(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryAnalyticsResponse{
		TotalStockValue: decimal.Zero,
		ByLocation:      make([]dto.LocationStockDTO, 0, len(byLocation)),
		GeneratedAt:     time.Now(),
	}
	for _, l := range byLocation {
		out.TotalItems += l.Items
		out.TotalOnHand += l.QuantityOnHand
		out.TotalReserved += l.QuantityReserved
		out.LowStockItems += l.LowStockItems
		out.OutOfStockItems += l.OutOfStockItems
		out.TotalStockValue = out.TotalStockValue.Add(l.StockValue)
		out.ByLocation = append(out.ByLocation, dto.LocationStockDTO{
			LocationID:       l.LocationID,
			Items:            l.Items,
			QuantityOnHand:   l.QuantityOnHand,
			QuantityReserved: l.QuantityReserved,
			LowStockItems:    l.LowStockItems,
			OutOfStockItems:  l.OutOfStockItems,
			StockValue:       l.StockValue,
		})
	}
	return out, nil
}

type adjustmentInput struct {
	Type      string
	Quantity  int64
	UnitCost  *decimal.Decimal
	Reference string
	Notes     string
	UserID    string
}

// applyAdjustment traduce el tipo a un delta firmado, lo aplica sobre inv (ya bloqueada),
// actualiza el costo promedio en entradas con costo y persiste fila y registro de auditoría.
func applyAdjustment(ctx context.Context, r repository.Repos, inv *entity.Inventory, in adjustmentInput) (*entity.InventoryAdjustment, error) {
	delta, err := inventory.SignedDelta(in.Type, in.Quantity)
	if err != nil {
		return nil, err
	}
	if in.UnitCost != nil && in.UnitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	avgBefore := inv.AverageCost
	prev, err := inventory.Apply(inv, delta)
	if err != nil {
		return nil, err
	}
	unitCost := avgBefore
	if in.UnitCost != nil {
		unitCost = *in.UnitCost
		if in.Type == entity.AdjustmentReceipt {
			inv.AverageCost = inventory.CostCalculator(prev, avgBefore, delta, unitCost)
		}
	}

	now := time.Now()
	inv.LastMovementAt = &now
	inv.UpdatedAt = now
	if err := r.Inventory.Update(ctx, inv); err != nil {
		return nil, err
	}
	adj := &entity.InventoryAdjustment{
		ID:               uuid.New().String(),
		InventoryID:      inv.ID,
		Type:             in.Type,
		Quantity:         in.Quantity,
		Delta:            delta,
		PreviousQuantity: prev,
		NewQuantity:      inv.QuantityOnHand,
		UnitCost:         unitCost,
		Reference:        in.Reference,
		Notes:            in.Notes,
		AdjustedBy:       in.UserID,
		CreatedAt:        now,
	}
	if err := r.Inventory.AddAdjustment(ctx, adj); err != nil {
		return nil, err
	}
	return adj, nil
}

func ensureLocation(ctx context.Context, r repository.Repos, locationID string) error {
	location, err := r.Locations.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	if location == nil {
		return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, locationID)
	}
	return nil
}

func toInventoryResponse(inv *entity.Inventory) *dto.InventoryResponse {
	if inv == nil {
		return nil
	}
	return &dto.InventoryResponse{
		ID:                inv.ID,
		ProductID:         inv.ProductID,
		LocationID:        inv.LocationID,
		QuantityOnHand:    inv.QuantityOnHand,
		QuantityReserved:  inv.QuantityReserved,
		QuantityAvailable: inv.Available(),
		ReorderPoint:      inv.ReorderPoint,
		ReorderQuantity:   inv.ReorderQuantity,
		AverageCost:       inv.AverageCost,
		LowStock:          inv.IsLowStock(),
		LastCountedAt:     inv.LastCountedAt,
		LastMovementAt:    inv.LastMovementAt,
		CreatedAt:         inv.CreatedAt,
		UpdatedAt:         inv.UpdatedAt,
	}
}

func toAdjustmentResponse(a *entity.InventoryAdjustment) dto.AdjustmentResponse {
	return dto.AdjustmentResponse{
		ID:               a.ID,
		InventoryID:      a.InventoryID,
		Type:             a.Type,
		Quantity:         a.Quantity,
		Delta:            a.Delta,
		PreviousQuantity: a.PreviousQuantity,
		NewQuantity:      a.NewQuantity,
		UnitCost:         a.UnitCost,
		Reference:        a.Reference,
		Notes:            a.Notes,
		AdjustedBy:       a.AdjustedBy,
		CreatedAt:        a.CreatedAt,
	}
}

func toCountResponse(c *entity.InventoryCount) dto.CountResponse {
	return dto.CountResponse{
		ID:              c.ID,
		InventoryID:     c.InventoryID,
		SystemQuantity:  c.SystemQuantity,
		CountedQuantity: c.CountedQuantity,
		Difference:      c.Difference,
		CountedBy:       c.CountedBy,
		Notes:           c.Notes,
		CreatedAt:       c.CreatedAt,
	}
}
