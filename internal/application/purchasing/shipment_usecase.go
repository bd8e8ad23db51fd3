package purchasing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/application/ports"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/repository"
	"github.com/jhoicas/procurement-api/pkg/logger"
)

// ShipmentUseCase seguimiento de envíos de órdenes emitidas. La entrega recibe la
// mercancía por el mismo camino que PurchaseOrderUseCase.Receive.
type ShipmentUseCase struct {
	repos  repository.Repos
	tx     ports.TxRunner
	orders *PurchaseOrderUseCase
	log    *logger.Logger
}

// NewShipmentUseCase construye el caso de uso.
func NewShipmentUseCase(repos repository.Repos, tx ports.TxRunner, orders *PurchaseOrderUseCase, log *logger.Logger) *ShipmentUseCase {
	return &ShipmentUseCase{repos: repos, tx: tx, orders: orders, log: log}
}

// Create registra un envío para una orden ordered o partially_received.
func (uc *ShipmentUseCase) Create(ctx context.Context, userID string, in dto.CreateShipmentRequest) (*dto.ShipmentResponse, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: el envío requiere al menos una línea", domain.ErrInvalidInput)
	}
	if in.ShippingCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo de envío negativo", domain.ErrInvalidInput)
	}
	var created *entity.Shipment
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		po, err := r.PurchaseOrders.GetByID(ctx, in.PurchaseOrderID)
		if err != nil {
			return err
		}
		if po == nil {
			return fmt.Errorf("%w: orden %s", domain.ErrNotFound, in.PurchaseOrderID)
		}
		if !po.Status.CanReceive() {
			return fmt.Errorf("%w: la orden está en estado %s y no admite envíos", domain.ErrConflict, po.Status)
		}
		location, err := r.Locations.GetByID(ctx, in.LocationID)
		if err != nil {
			return err
		}
		if location == nil {
			return fmt.Errorf("%w: ubicación %s", domain.ErrNotFound, in.LocationID)
		}
		if in.TrackingNumber != "" {
			existing, err := r.Shipments.GetByTrackingNumber(ctx, in.TrackingNumber)
			if err != nil {
				return err
			}
			if existing != nil {
				return fmt.Errorf("%w: guía %s ya registrada", domain.ErrDuplicate, in.TrackingNumber)
			}
		}

		now := time.Now()
		s := &entity.Shipment{
			ID:                   uuid.New().String(),
			ShipmentNumber:       fmt.Sprintf("SHP-%s-%s", now.Format("20060102"), strings.ToUpper(uuid.New().String()[:8])),
			PurchaseOrderID:      po.ID,
			LocationID:           location.ID,
			Carrier:              in.Carrier,
			TrackingNumber:       in.TrackingNumber,
			ShipmentType:         in.ShipmentType,
			Status:               entity.ShipmentStatusPending,
			ShippedDate:          in.ShippedDate,
			ExpectedDeliveryDate: in.ExpectedDeliveryDate,
			ShippingCost:         in.ShippingCost,
			Currency:             strings.ToUpper(in.Currency),
			Notes:                in.Notes,
			StatusHistory: []entity.ShipmentStatusChange{
				{Status: entity.ShipmentStatusPending, ChangedBy: userID, ChangedAt: now},
			},
			CreatedAt: now,
			UpdatedAt: now,
		}
		if s.ShipmentType == "" {
			s.ShipmentType = entity.ShipmentTypeLand
		}
		if s.Currency == "" {
			s.Currency = po.Currency
		}
		for _, req := range in.Items {
			item := po.Item(req.PurchaseOrderItemID)
			if item == nil {
				return fmt.Errorf("%w: la línea %s no pertenece a la orden", domain.ErrNotFound, req.PurchaseOrderItemID)
			}
			if req.Quantity <= 0 {
				return fmt.Errorf("%w: cantidad enviada debe ser positiva", domain.ErrInvalidInput)
			}
			if req.Quantity > item.Pending() {
				return fmt.Errorf("%w: línea %s pendiente %d, enviado %d", domain.ErrOverReceipt, item.ID, item.Pending(), req.Quantity)
			}
			s.Items = append(s.Items, entity.ShipmentItem{
				ID:                  uuid.New().String(),
				ShipmentID:          s.ID,
				PurchaseOrderItemID: item.ID,
				Quantity:            req.Quantity,
				UnitPrice:           item.UnitPrice,
				TotalPrice:          entity.LineTotal(item.UnitPrice, req.Quantity),
			})
		}
		if err := r.Shipments.Create(ctx, s); err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toShipmentResponse(created), nil
}

// UpdateStatus cambia el estado y lo agrega al historial. delivered recibe todas las
// líneas del envío en la ubicación destino dentro de la misma transacción.
func (uc *ShipmentUseCase) UpdateStatus(ctx context.Context, userID, id string, in dto.UpdateShipmentStatusRequest) (*dto.ShipmentResponse, error) {
	target := entity.ShipmentStatus(in.Status)
	if !target.IsValid() {
		return nil, fmt.Errorf("%w: estado de envío %q", domain.ErrInvalidInput, in.Status)
	}
	var updated *entity.Shipment
	err := uc.tx.Run(ctx, func(r repository.Repos) error {
		s, err := r.Shipments.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if !s.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: el envío no puede pasar de %s a %s", domain.ErrConflict, s.Status, target)
		}

		now := time.Now()
		switch target {
		case entity.ShipmentStatusInTransit:
			if s.ShippedDate == nil {
				s.ShippedDate = &now
			}
		case entity.ShipmentStatusDelivered:
			s.ActualDeliveryDate = &now
			lines := make([]dto.ReceiptLineRequest, 0, len(s.Items))
			for _, it := range s.Items {
				lines = append(lines, dto.ReceiptLineRequest{
					ItemID:     it.PurchaseOrderItemID,
					Quantity:   it.Quantity,
					LocationID: s.LocationID,
				})
			}
			if _, err := uc.orders.receiveInTx(ctx, r, userID, s.PurchaseOrderID, lines); err != nil {
				return err
			}
		}
		s.Status = target
		s.StatusHistory = append(s.StatusHistory, entity.ShipmentStatusChange{
			Status:    target,
			Note:      in.Note,
			ChangedBy: userID,
			ChangedAt: now,
		})
		s.UpdatedAt = now
		if err := r.Shipments.Update(ctx, s); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("shipment_id", updated.ID).
		Str("status", string(updated.Status)).
		Msg("estado de envío actualizado")
	return toShipmentResponse(updated), nil
}

// GetByID obtiene un envío.
func (uc *ShipmentUseCase) GetByID(ctx context.Context, id string) (*dto.ShipmentResponse, error) {
	s, err := uc.repos.Shipments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toShipmentResponse(s), nil
}

// GetByTracking busca un envío por número de guía.
func (uc *ShipmentUseCase) GetByTracking(ctx context.Context, trackingNumber string) (*dto.ShipmentResponse, error) {
	s, err := uc.repos.Shipments.GetByTrackingNumber(ctx, trackingNumber)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return toShipmentResponse(s), nil
}

// List lista envíos por estado y orden.
func (uc *ShipmentUseCase) List(ctx context.Context, in dto.ShipmentListRequest) (*dto.ShipmentListResponse, error) {
	in.DefaultPage()
	list, err := uc.repos.Shipments.List(ctx, repository.ShipmentFilter{
		Status:          entity.ShipmentStatus(in.Status),
		PurchaseOrderID: in.PurchaseOrderID,
		Limit:           in.Limit,
		Offset:          in.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.ShipmentResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toShipmentResponse(s))
	}
	return &dto.ShipmentListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}
