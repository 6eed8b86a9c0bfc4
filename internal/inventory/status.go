// internal/inventory/status.go
package inventory

import (
	"github.com/ceramstore/ceramstore-backend/internal/models"
)

// StockStatus is a read-only projection over one inventory record, recomputed
// on every change notification. It is never persisted.
type StockStatus struct {
	Available    int               `json:"available"`
	Reserved     int               `json:"reserved"`
	OnHand       int               `json:"on_hand"`
	ReorderPoint int               `json:"reorder_point"`
	State        models.StockState `json:"state"`
}

// ComputeStatus classifies an inventory record:
//
//	out_of_stock  available <= 0 and on-hand <= 0
//	reserved      available <= 0 and on-hand > 0
//	low_stock     available > 0 and available <= reorder point
//	in_stock      otherwise
func ComputeStatus(rec *models.InventoryRecord) StockStatus {
	status := StockStatus{
		Available:    rec.QuantityAvailable,
		Reserved:     rec.QuantityReserved,
		OnHand:       rec.QuantityOnHand,
		ReorderPoint: rec.ReorderPoint,
	}

	switch {
	case rec.QuantityAvailable <= 0 && rec.QuantityOnHand <= 0:
		status.State = models.StockStateOutOfStock
	case rec.QuantityAvailable <= 0:
		status.State = models.StockStateReserved
	case rec.QuantityAvailable <= rec.ReorderPoint:
		status.State = models.StockStateLowStock
	default:
		status.State = models.StockStateInStock
	}
	return status
}

// CanReserve reports whether the last-known availability covers the quantity.
func (s StockStatus) CanReserve(quantity int) bool {
	return quantity > 0 && s.Available >= quantity
}
