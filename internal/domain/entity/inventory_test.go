package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

func TestInventory_CrossedReorderPoint(t *testing.T) {
	cases := []struct {
		name     string
		previous int64
		onHand   int64
		want     bool
	}{
		{"cruza al punto exacto", 21, 20, true},
		{"cruza por debajo", 100, 5, true},
		{"ya estaba bajo", 20, 10, false},
		{"sigue sobre el punto", 50, 21, false},
		{"sube", 10, 30, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			inv := &entity.Inventory{QuantityOnHand: tc.onHand, ReorderPoint: 20}
			assert.Equal(t, tc.want, inv.CrossedReorderPoint(tc.previous))
		})
	}
}
