// internal/inventory/service.go
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

var (
	ErrInsufficientStock  = errors.New("insufficient stock available")
	ErrNoDefaultWarehouse = errors.New("no default warehouse configured")
)

// Reservation durations. Cart lines hold stock longer than ad hoc holds.
const (
	CartHoldDuration    = 30 * time.Minute
	DefaultHoldDuration = 15 * time.Minute
)

// ReservationService is the capability boundary for time-boxed stock holds.
// The atomic reserve arithmetic lives behind this interface; callers must
// never reimplement it locally, and must not assume a reservation they
// created still exists without reconciling.
type ReservationService interface {
	// Reserve atomically places a hold, failing with ErrInsufficientStock
	// when availability does not cover the quantity.
	Reserve(ctx context.Context, productID, warehouseID, userID uuid.UUID, quantity int, hold time.Duration) (uuid.UUID, error)

	// Release frees a hold. Releasing an already-released or missing
	// reservation is not an error.
	Release(ctx context.Context, reservationID uuid.UUID) error

	// Confirm converts an active hold into an outbound movement. Returns
	// false when the reservation is no longer active.
	Confirm(ctx context.Context, reservationID uuid.UUID) (bool, error)

	// ActiveReservations lists a user's active holds for one product.
	ActiveReservations(ctx context.Context, userID, productID uuid.UUID) ([]models.StockReservation, error)

	// SweepExpired releases every hold past its expiry; maintenance call,
	// invoked by a collaborator rather than self-scheduled.
	SweepExpired(ctx context.Context) (int, error)

	// ResyncReserved reconciles the aggregate reserved quantities from the
	// reservation rows, used after a cart merge.
	ResyncReserved(ctx context.Context) error
}

// InventoryReader provides read access to stock positions. A missing record
// is reported as (nil, nil), not as an error.
type InventoryReader interface {
	FetchRecord(ctx context.Context, productID, warehouseID uuid.UUID) (*models.InventoryRecord, error)
	DefaultWarehouse(ctx context.Context) (uuid.UUID, error)
}

// InventoryEventType distinguishes row updates from deletions on the feed.
type InventoryEventType string

const (
	InventoryEventUpdated InventoryEventType = "updated"
	InventoryEventDeleted InventoryEventType = "deleted"
)

// InventoryEvent is a change notification for one inventory record.
// Record is nil for deletions.
type InventoryEvent struct {
	Type        InventoryEventType      `json:"type"`
	ProductID   uuid.UUID               `json:"product_id"`
	WarehouseID uuid.UUID               `json:"warehouse_id"`
	Record      *models.InventoryRecord `json:"record,omitempty"`
}

// Unsubscribe tears down one subscription.
type Unsubscribe func()

// ChangeFeed is a generic subscribe capability keyed by product and
// warehouse, decoupled from any particular pub/sub product. Handlers run on
// the feed's own goroutines.
type ChangeFeed interface {
	SubscribeInventory(productID, warehouseID uuid.UUID, handler func(InventoryEvent)) (Unsubscribe, error)
	SubscribeMovements(productID uuid.UUID, handler func(models.StockMovement)) (Unsubscribe, error)
}

// FeedPublisher is the write side of the change feed, driven by the
// reservation service after each committed mutation.
type FeedPublisher interface {
	PublishInventory(ctx context.Context, event InventoryEvent) error
	PublishMovement(ctx context.Context, movement models.StockMovement) error
}
