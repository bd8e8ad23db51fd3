package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/procurement-api/internal/domain/entity"
)

func TestShipmentStatus_Transiciones(t *testing.T) {
	allowed := map[entity.ShipmentStatus][]entity.ShipmentStatus{
		entity.ShipmentStatusPending: {
			entity.ShipmentStatusInTransit, entity.ShipmentStatusDelivered, entity.ShipmentStatusCancelled, entity.ShipmentStatusException,
		},
		entity.ShipmentStatusInTransit: {
			entity.ShipmentStatusPartiallyDelivered, entity.ShipmentStatusDelivered, entity.ShipmentStatusCancelled, entity.ShipmentStatusException,
		},
		entity.ShipmentStatusPartiallyDelivered: {
			entity.ShipmentStatusDelivered, entity.ShipmentStatusCancelled, entity.ShipmentStatusException,
		},
		entity.ShipmentStatusException: {
			entity.ShipmentStatusInTransit, entity.ShipmentStatusPartiallyDelivered, entity.ShipmentStatusDelivered, entity.ShipmentStatusCancelled,
		},
		entity.ShipmentStatusDelivered: {},
		entity.ShipmentStatusCancelled: {},
	}
	for from, targets := range allowed {
		ok := map[entity.ShipmentStatus]bool{}
		for _, to := range targets {
			ok[to] = true
		}
		for to := range allowed {
			assert.Equal(t, ok[to], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
		assert.False(t, from.CanTransitionTo(from), "%s no se repite", from)
		if from.IsTerminal() {
			assert.Empty(t, targets, "%s es terminal", from)
		}
	}
}
