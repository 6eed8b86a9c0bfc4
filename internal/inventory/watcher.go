// internal/inventory/watcher.go
package inventory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

// Watcher maintains a live StockStatus projection for one product in one
// warehouse, combining an initial fetch with two subscriptions: direct
// inventory-row changes, and stock-movement inserts that trigger a refetch
// rather than trusting a partial payload. The two feeds are unordered
// relative to each other; the last write to local state wins.
type Watcher struct {
	reader       InventoryReader
	reservations ReservationService
	feed         ChangeFeed
	log          *logrus.Entry

	mu          sync.Mutex
	productID   uuid.UUID
	warehouseID uuid.UUID
	record      *models.InventoryRecord
	status      StockStatus
	unsubRow    Unsubscribe
	unsubMove   Unsubscribe
	closed      bool
}

// NewWatcher starts watching a product. Pass uuid.Nil as warehouseID to
// resolve the default warehouse. A missing inventory row is not an error; the
// watcher synthesizes a zeroed placeholder locally.
func NewWatcher(ctx context.Context, reader InventoryReader, reservations ReservationService, feed ChangeFeed, productID, warehouseID uuid.UUID) (*Watcher, error) {
	w := &Watcher{
		reader:       reader,
		reservations: reservations,
		feed:         feed,
		log: logrus.WithFields(logrus.Fields{
			"component": "stock_watcher",
			"product":   productID,
		}),
		productID: productID,
	}

	if err := w.attach(ctx, warehouseID); err != nil {
		return nil, err
	}
	return w, nil
}

// attach resolves the warehouse, loads the current row and opens both
// subscriptions. Callers must not hold w.mu.
func (w *Watcher) attach(ctx context.Context, warehouseID uuid.UUID) error {
	if warehouseID == uuid.Nil {
		resolved, err := w.reader.DefaultWarehouse(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve warehouse: %w", err)
		}
		warehouseID = resolved
	}

	record, err := w.reader.FetchRecord(ctx, w.productID, warehouseID)
	if err != nil {
		return fmt.Errorf("failed to fetch inventory: %w", err)
	}
	if record == nil {
		record = &models.InventoryRecord{ProductID: w.productID, WarehouseID: warehouseID}
	}

	unsubRow, err := w.feed.SubscribeInventory(w.productID, warehouseID, w.onRowChange)
	if err != nil {
		return fmt.Errorf("failed to subscribe to inventory changes: %w", err)
	}

	unsubMove, err := w.feed.SubscribeMovements(w.productID, w.onMovement)
	if err != nil {
		unsubRow()
		return fmt.Errorf("failed to subscribe to stock movements: %w", err)
	}

	w.mu.Lock()
	w.warehouseID = warehouseID
	w.record = record
	w.status = ComputeStatus(record)
	w.unsubRow = unsubRow
	w.unsubMove = unsubMove
	w.mu.Unlock()
	return nil
}

func (w *Watcher) onRowChange(event InventoryEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if event.Type == InventoryEventDeleted || event.Record == nil {
		w.record = nil
		w.status = StockStatus{}
		return
	}
	w.record = event.Record
	w.status = ComputeStatus(event.Record)
}

// onMovement treats any movement insert as a signal to refetch the row.
func (w *Watcher) onMovement(models.StockMovement) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	productID, warehouseID := w.productID, w.warehouseID
	w.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	record, err := w.reader.FetchRecord(ctx, productID, warehouseID)
	if err != nil {
		w.log.WithError(err).Warn("refetch after stock movement failed")
		return
	}
	if record == nil {
		record = &models.InventoryRecord{ProductID: productID, WarehouseID: warehouseID}
	}

	w.mu.Lock()
	if !w.closed && w.warehouseID == warehouseID {
		w.record = record
		w.status = ComputeStatus(record)
	}
	w.mu.Unlock()
}

// Status returns the last-known projection.
func (w *Watcher) Status() StockStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Record returns a copy of the last-known inventory row, or nil after the
// row was deleted.
func (w *Watcher) Record() *models.InventoryRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.record == nil {
		return nil
	}
	cp := *w.record
	return &cp
}

// CheckAvailability is a pure read of the last-known availability.
func (w *Watcher) CheckAvailability(quantity int) bool {
	return w.Status().CanReserve(quantity)
}

// Reserve places a hold for the given user. The last-known availability is
// checked first so a clearly insufficient request fails without a round
// trip. On success the new stock state arrives through the subscription;
// local state is not mutated optimistically here.
func (w *Watcher) Reserve(ctx context.Context, userID uuid.UUID, quantity int, hold time.Duration) (uuid.UUID, error) {
	if userID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("reservation requires an authenticated user")
	}

	w.mu.Lock()
	status := w.status
	warehouseID := w.warehouseID
	w.mu.Unlock()

	if !status.CanReserve(quantity) {
		return uuid.Nil, ErrInsufficientStock
	}

	return w.reservations.Reserve(ctx, w.productID, warehouseID, userID, quantity, hold)
}

// SetWarehouse repoints the watcher: the old subscriptions are torn down and
// replaced by a fresh fetch-and-subscribe cycle against the new warehouse.
func (w *Watcher) SetWarehouse(ctx context.Context, warehouseID uuid.UUID) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return fmt.Errorf("watcher is closed")
	}
	if warehouseID != uuid.Nil && warehouseID == w.warehouseID {
		w.mu.Unlock()
		return nil
	}
	unsubRow, unsubMove := w.unsubRow, w.unsubMove
	w.unsubRow, w.unsubMove = nil, nil
	w.mu.Unlock()

	if unsubRow != nil {
		unsubRow()
	}
	if unsubMove != nil {
		unsubMove()
	}
	return w.attach(ctx, warehouseID)
}

// Close tears down both subscriptions. Safe to call more than once.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	unsubRow, unsubMove := w.unsubRow, w.unsubMove
	w.unsubRow, w.unsubMove = nil, nil
	w.mu.Unlock()

	if unsubRow != nil {
		unsubRow()
	}
	if unsubMove != nil {
		unsubMove()
	}
}
