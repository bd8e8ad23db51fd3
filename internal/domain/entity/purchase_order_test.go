package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

func TestPurchaseOrderStatus_Transiciones(t *testing.T) {
	allowed := map[entity.PurchaseOrderStatus][]entity.PurchaseOrderStatus{
		entity.POStatusDraft:             {entity.POStatusPendingApproval, entity.POStatusApproved, entity.POStatusCancelled},
		entity.POStatusPendingApproval:   {entity.POStatusApproved, entity.POStatusDraft, entity.POStatusCancelled},
		entity.POStatusApproved:          {entity.POStatusOrdered, entity.POStatusCancelled},
		entity.POStatusOrdered:           {entity.POStatusPartiallyReceived, entity.POStatusReceived, entity.POStatusCancelled},
		entity.POStatusPartiallyReceived: {entity.POStatusPartiallyReceived, entity.POStatusReceived, entity.POStatusCancelled},
		entity.POStatusReceived:          {},
		entity.POStatusCancelled:         {},
	}
	all := []entity.PurchaseOrderStatus{
		entity.POStatusDraft, entity.POStatusPendingApproval, entity.POStatusApproved, entity.POStatusOrdered,
		entity.POStatusPartiallyReceived, entity.POStatusReceived, entity.POStatusCancelled,
	}
	for from, targets := range allowed {
		ok := map[entity.PurchaseOrderStatus]bool{}
		for _, to := range targets {
			ok[to] = true
		}
		for _, to := range all {
			assert.Equal(t, ok[to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestPurchaseOrderStatus_Editable(t *testing.T) {
	assert.True(t, entity.POStatusDraft.IsEditable())
	assert.True(t, entity.POStatusPendingApproval.IsEditable())
	for _, s := range []entity.PurchaseOrderStatus{
		entity.POStatusApproved, entity.POStatusOrdered, entity.POStatusPartiallyReceived,
		entity.POStatusReceived, entity.POStatusCancelled,
	} {
		assert.False(t, s.IsEditable(), "%s no debe ser editable", s)
	}
	assert.False(t, entity.PurchaseOrderStatus("pending").IsValid())
}

func TestPurchaseOrder_RecalculateTotals(t *testing.T) {
	po := &entity.PurchaseOrder{Items: []entity.PurchaseOrderItem{
		{Quantity: 10, UnitPrice: decimal.NewFromInt(5)},
		{Quantity: 5, UnitPrice: decimal.NewFromInt(20)},
	}}
	po.RecalculateTotals()

	assert.True(t, decimal.NewFromInt(50).Equal(po.Items[0].TotalPrice))
	assert.True(t, decimal.NewFromInt(100).Equal(po.Items[1].TotalPrice))
	assert.Equal(t, "150.00", po.TotalAmount.StringFixed(2))
}

func TestPurchaseOrder_RecalculateTotals_PreciosFraccionarios(t *testing.T) {
	po := &entity.PurchaseOrder{Items: []entity.PurchaseOrderItem{
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.005")},
		{Quantity: 1, UnitPrice: decimal.RequireFromString("0.005")},
		{Quantity: 3, UnitPrice: decimal.RequireFromString("0.33335")},
	}}
	po.RecalculateTotals()

	assert.Equal(t, "0.01", po.Items[0].TotalPrice.String())
	assert.Equal(t, "0.01", po.Items[1].TotalPrice.String())
	assert.Equal(t, "0.3334", po.Items[2].UnitPrice.String(), "precio a cuatro decimales")
	assert.Equal(t, "1", po.Items[2].TotalPrice.String())

	sum := decimal.Zero
	for _, it := range po.Items {
		assert.True(t, it.TotalPrice.Equal(it.TotalPrice.Round(entity.MoneyScale)))
		sum = sum.Add(it.TotalPrice)
	}
	assert.True(t, sum.Equal(po.TotalAmount), "total %s, suma de líneas %s", po.TotalAmount, sum)
	assert.Equal(t, "1.02", po.TotalAmount.StringFixed(2))
}

func TestPurchaseOrder_ReceiptStatus(t *testing.T) {
	po := &entity.PurchaseOrder{
		Status: entity.POStatusOrdered,
		Items: []entity.PurchaseOrderItem{
			{ID: "a", Quantity: 10},
			{ID: "b", Quantity: 5},
		},
	}
	assert.Equal(t, entity.POStatusOrdered, po.ReceiptStatus(), "sin recepciones conserva el estado")

	po.Item("a").ReceivedQuantity = 10
	assert.Equal(t, entity.POStatusPartiallyReceived, po.ReceiptStatus())

	po.Item("b").ReceivedQuantity = 5
	assert.Equal(t, entity.POStatusReceived, po.ReceiptStatus())
	assert.Nil(t, po.Item("zzz"))
}
