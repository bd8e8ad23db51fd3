package purchasing_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/application/dto"
	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

func TestShipment_EntregaRecibeMercancia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.orderedOrder(t)

	s, err := f.shipments.Create(ctx, f.userID, dto.CreateShipmentRequest{
		PurchaseOrderID: po.ID,
		LocationID:      f.location.ID,
		Carrier:         "DHL",
		TrackingNumber:  "TRK-123",
		ShippingCost:    decimal.RequireFromString("25.00"),
		Items: []dto.ShipmentItemRequest{
			{PurchaseOrderItemID: po.Items[0].ID, Quantity: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, string(entity.ShipmentStatusPending), s.Status)
	assert.Equal(t, entity.ShipmentTypeLand, s.ShipmentType)
	assert.Equal(t, "USD", s.Currency)
	assert.Regexp(t, `^SHP-\d{8}-[0-9A-F]{8}$`, s.ShipmentNumber)

	inTransit, err := f.shipments.UpdateStatus(ctx, f.userID, s.ID, dto.UpdateShipmentStatusRequest{Status: string(entity.ShipmentStatusInTransit)})
	require.NoError(t, err)
	assert.NotNil(t, inTransit.ShippedDate)

	delivered, err := f.shipments.UpdateStatus(ctx, f.userID, s.ID, dto.UpdateShipmentStatusRequest{Status: string(entity.ShipmentStatusDelivered)})
	require.NoError(t, err)
	assert.NotNil(t, delivered.ActualDeliveryDate)
	assert.Len(t, delivered.StatusHistory, 3)

	got, err := f.orders.GetByID(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.POStatusPartiallyReceived), got.Status)
	assert.Equal(t, int64(10), f.stock(t, f.widget.ID).QuantityOnHand)

	_, err = f.shipments.UpdateStatus(ctx, f.userID, s.ID, dto.UpdateShipmentStatusRequest{Status: string(entity.ShipmentStatusCancelled)})
	assert.ErrorIs(t, err, domain.ErrConflict, "un envío entregado es terminal")

	byTracking, err := f.shipments.GetByTracking(ctx, "TRK-123")
	require.NoError(t, err)
	assert.Equal(t, s.ID, byTracking.ID)
}

func TestShipment_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft := f.createOrder(t)
	_, err := f.shipments.Create(ctx, f.userID, dto.CreateShipmentRequest{
		PurchaseOrderID: draft.ID,
		LocationID:      f.location.ID,
		Items:           []dto.ShipmentItemRequest{{PurchaseOrderItemID: draft.Items[0].ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict, "orden no emitida")

	po := f.orderedOrder(t)
	_, err = f.shipments.Create(ctx, f.userID, dto.CreateShipmentRequest{
		PurchaseOrderID: po.ID,
		LocationID:      f.location.ID,
		Items:           []dto.ShipmentItemRequest{{PurchaseOrderItemID: po.Items[0].ID, Quantity: 11}},
	})
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	_, err = f.shipments.Create(ctx, f.userID, dto.CreateShipmentRequest{
		PurchaseOrderID: po.ID,
		LocationID:      uuid.New().String(),
		Items:           []dto.ShipmentItemRequest{{PurchaseOrderItemID: po.Items[0].ID, Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req := dto.CreateShipmentRequest{
		PurchaseOrderID: po.ID,
		LocationID:      f.location.ID,
		TrackingNumber:  "TRK-DUP",
		Items:           []dto.ShipmentItemRequest{{PurchaseOrderItemID: po.Items[0].ID, Quantity: 1}},
	}
	_, err = f.shipments.Create(ctx, f.userID, req)
	require.NoError(t, err)
	_, err = f.shipments.Create(ctx, f.userID, req)
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = f.shipments.UpdateStatus(ctx, f.userID, uuid.New().String(), dto.UpdateShipmentStatusRequest{Status: "lost"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestShipment_TransicionesSoloAvanzan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	po := f.orderedOrder(t)
	s, err := f.shipments.Create(ctx, f.userID, dto.CreateShipmentRequest{
		PurchaseOrderID: po.ID,
		LocationID:      f.location.ID,
		Items:           []dto.ShipmentItemRequest{{PurchaseOrderItemID: po.Items[1].ID, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = f.shipments.UpdateStatus(ctx, f.userID, s.ID, dto.UpdateShipmentStatusRequest{Status: string(entity.ShipmentStatusInTransit)})
	require.NoError(t, err)

	_, err = f.shipments.UpdateStatus(ctx, f.userID, s.ID, dto.UpdateShipmentStatusRequest{Status: string(entity.ShipmentStatusInTransit)})
	assert.ErrorIs(t, err, domain.ErrConflict, "repetir el estado no es una transición")

	_, err = f.shipments.UpdateStatus(ctx, f.userID, s.ID, dto.UpdateShipmentStatusRequest{Status: string(entity.ShipmentStatusPending)})
	assert.ErrorIs(t, err, domain.ErrConflict, "no se retrocede a pending")

	got, err := f.shipments.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.ShipmentStatusInTransit), got.Status)
	assert.Len(t, got.StatusHistory, 2, "los intentos rechazados no tocan el historial")

	_, err = f.shipments.UpdateStatus(ctx, f.userID, s.ID, dto.UpdateShipmentStatusRequest{Status: string(entity.ShipmentStatusException)})
	require.NoError(t, err)
	_, err = f.shipments.UpdateStatus(ctx, f.userID, s.ID, dto.UpdateShipmentStatusRequest{Status: string(entity.ShipmentStatusInTransit)})
	assert.NoError(t, err, "una excepción puede retomar el tránsito")
}
