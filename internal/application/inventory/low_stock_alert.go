package inventory

import (
	"context"
	"fmt"
	"html"

	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
)

// lowStockAlert datos de la alerta, resueltos dentro de la transacción.
type lowStockAlert struct {
	InventoryID  string
	SKU          string
	ProductName  string
	Location     string
	OnHand       int64
	ReorderPoint int64
}

// lowStockAlertFor devuelve la alerta si el movimiento llevó la existencia de sobre el
// punto de reorden a en o bajo él. nil si no hubo cruce o no hay destinatarios.
func (uc *LedgerUseCase) lowStockAlertFor(ctx context.Context, r repository.Repos, inv *entity.Inventory, previous int64) (*lowStockAlert, error) {
	if uc.notifier == nil || len(uc.cfg.LowStockRecipients) == 0 || !inv.CrossedReorderPoint(previous) {
		return nil, nil
	}
	alert := &lowStockAlert{
		InventoryID:  inv.ID,
		SKU:          inv.ProductID,
		Location:     inv.LocationID,
		OnHand:       inv.QuantityOnHand,
		ReorderPoint: inv.ReorderPoint,
	}
	product, err := r.Products.GetByID(ctx, inv.ProductID)
	if err != nil {
		return nil, err
	}
	if product != nil {
		alert.SKU, alert.ProductName = product.SKU, product.Name
	}
	location, err := r.Locations.GetByID(ctx, inv.LocationID)
	if err != nil {
		return nil, err
	}
	if location != nil {
		alert.Location = location.Code
	}
	return alert, nil
}

// sendLowStockAlert se invoca después del commit; un fallo solo se registra.
func (uc *LedgerUseCase) sendLowStockAlert(ctx context.Context, alert *lowStockAlert) {
	if alert == nil {
		return
	}
	n := ports.Notification{
		To:      uc.cfg.LowStockRecipients,
		Subject: fmt.Sprintf("Stock bajo: %s en %s", alert.SKU, alert.Location),
		Body: fmt.Sprintf("<p>El producto <b>%s</b> %s quedó con %d unidades en %s (punto de reorden %d).</p>",
			html.EscapeString(alert.SKU), html.EscapeString(alert.ProductName), alert.OnHand,
			html.EscapeString(alert.Location), alert.ReorderPoint),
	}
	if err := uc.notifier.Notify(ctx, n); err != nil {
		uc.log.Error().Err(err).Str("inventory_id", alert.InventoryID).Msg("alerta de stock bajo fallida")
		return
	}
	uc.log.Info().
		Str("inventory_id", alert.InventoryID).
		Str("sku", alert.SKU).
		Int64("on_hand", alert.OnHand).
		Msg("alerta de stock bajo enviada")
}
