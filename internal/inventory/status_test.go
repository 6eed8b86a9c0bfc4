// internal/inventory/status_test.go
package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

func TestComputeStatusClassification(t *testing.T) {
	tests := []struct {
		name      string
		available int
		reserved  int
		onHand    int
		reorder   int
		want      models.StockState
	}{
		{"empty shelf and nothing held", 0, 0, 0, 5, models.StockStateOutOfStock},
		{"everything held back", 0, 5, 5, 5, models.StockStateReserved},
		{"below reorder point", 3, 0, 3, 5, models.StockStateLowStock},
		{"exactly at reorder point", 5, 0, 5, 5, models.StockStateLowStock},
		{"plenty available", 20, 0, 20, 5, models.StockStateInStock},
		{"negative availability with stock on hand", -2, 7, 5, 5, models.StockStateReserved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status := ComputeStatus(&models.InventoryRecord{
				QuantityAvailable: tt.available,
				QuantityReserved:  tt.reserved,
				QuantityOnHand:    tt.onHand,
				ReorderPoint:      tt.reorder,
			})
			assert.Equal(t, tt.want, status.State)
		})
	}
}

func TestCanReserve(t *testing.T) {
	status := StockStatus{Available: 5}

	assert.True(t, status.CanReserve(1))
	assert.True(t, status.CanReserve(5))
	assert.False(t, status.CanReserve(6))
	assert.False(t, status.CanReserve(0))
	assert.False(t, status.CanReserve(-1))

	empty := StockStatus{}
	assert.False(t, empty.CanReserve(1))
}
