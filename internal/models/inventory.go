// internal/models/inventory.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Warehouse struct {
	BaseModel
	Name      string `json:"name" gorm:"size:255;not null"`
	Code      string `json:"code" gorm:"size:30;uniqueIndex;not null"`
	Address   string `json:"address" gorm:"size:500"`
	IsDefault bool   `json:"is_default" gorm:"default:false;index"`
	IsActive  bool   `json:"is_active" gorm:"default:true"`
}

// InventoryRecord is one product's stock position in one warehouse.
// QuantityAvailable is kept denormalized as on-hand minus reserved and is
// recomputed inside the same transaction as any mutation of the other two.
type InventoryRecord struct {
	BaseModel
	ProductID         uuid.UUID `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_warehouse"`
	WarehouseID       uuid.UUID `json:"warehouse_id" gorm:"type:uuid;not null;uniqueIndex:idx_inventory_product_warehouse"`
	QuantityOnHand    int       `json:"quantity_on_hand" gorm:"default:0"`
	QuantityReserved  int       `json:"quantity_reserved" gorm:"default:0"`
	QuantityAvailable int       `json:"quantity_available" gorm:"default:0"`
	ReorderPoint      int       `json:"reorder_point" gorm:"default:5"`

	Product   Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Warehouse Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
}

// StockReservation is a time-boxed hold of inventory for one product, tied to
// an authenticated user's cart line. Expiry is enforced server-side; holders
// must reconcile against the database rather than assume a reservation they
// created still exists.
type StockReservation struct {
	BaseModel
	ProductID   uuid.UUID         `json:"product_id" gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID         `json:"warehouse_id" gorm:"type:uuid;not null;index"`
	UserID      uuid.UUID         `json:"user_id" gorm:"type:uuid;not null;index"`
	Quantity    int               `json:"quantity" gorm:"not null"`
	Status      ReservationStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	ExpiresAt   time.Time         `json:"expires_at" gorm:"index"`
	ReleasedAt  *time.Time        `json:"released_at"`

	Product   Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Warehouse Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
}

// StockMovement records every physical or corrective change to on-hand stock.
type StockMovement struct {
	BaseModel
	ProductID   uuid.UUID    `json:"product_id" gorm:"type:uuid;not null;index"`
	WarehouseID uuid.UUID    `json:"warehouse_id" gorm:"type:uuid;not null;index"`
	Type        MovementType `json:"type" gorm:"type:varchar(20);not null"`
	Quantity    int          `json:"quantity" gorm:"not null"`
	Reference   string       `json:"reference" gorm:"size:255"`
	Note        string       `json:"note" gorm:"size:500"`
	CreatedBy   *uuid.UUID   `json:"created_by" gorm:"type:uuid"`
}
