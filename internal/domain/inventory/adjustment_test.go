package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/procurement-api/internal/domain"
	"github.com/jhoicas/procurement-api/internal/domain/entity"
	"github.com/jhoicas/procurement-api/internal/domain/inventory"
)

func TestSignedDelta_Convencion(t *testing.T) {
	cases := []struct {
		typ  string
		qty  int64
		want int64
	}{
		{entity.AdjustmentReceipt, 10, 10},
		{entity.AdjustmentReturn, 3, 3},
		{entity.AdjustmentIssue, 7, -7},
		{entity.AdjustmentDamage, 2, -2},
		{entity.AdjustmentAdjustment, 5, 5},
		{entity.AdjustmentAdjustment, -4, -4},
	}
	for _, tc := range cases {
		t.Run(tc.typ, func(t *testing.T) {
			got, err := inventory.SignedDelta(tc.typ, tc.qty)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSignedDelta_CantidadesInvalidas(t *testing.T) {
	_, err := inventory.SignedDelta(entity.AdjustmentIssue, -3)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "issue con cantidad negativa")

	_, err = inventory.SignedDelta(entity.AdjustmentAdjustment, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ajuste en cero")

	_, err = inventory.SignedDelta("addition", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo libre no admitido")
}

func TestApply_NoPermiteNegativo(t *testing.T) {
	inv := &entity.Inventory{QuantityOnHand: 10}

	_, err := inventory.Apply(inv, -50)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.Equal(t, int64(10), inv.QuantityOnHand, "no debe modificar la existencia al fallar")

	prev, err := inventory.Apply(inv, -10)
	require.NoError(t, err)
	assert.Equal(t, int64(10), prev)
	assert.Equal(t, int64(0), inv.QuantityOnHand)
}

func TestApply_RespetaReservado(t *testing.T) {
	inv := &entity.Inventory{QuantityOnHand: 10, QuantityReserved: 6}

	_, err := inventory.Apply(inv, -5)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), inv.QuantityOnHand)

	_, err = inventory.Apply(inv, -4)
	assert.NoError(t, err)
}

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// (10 * 5 + 10 * 7) / 20 = 6
	got := inventory.CostCalculator(10, decimal.NewFromInt(5), 10, decimal.NewFromInt(7))
	assert.True(t, decimal.NewFromInt(6).Equal(got), "got %s", got)

	assert.True(t, inventory.CostCalculator(0, decimal.Zero, 0, decimal.NewFromInt(3)).IsZero())
}
