// internal/inventory/sql.go
package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

// SQLService implements ReservationService and InventoryReader over
// PostgreSQL. Every mutation runs in a row-locked transaction and publishes
// the resulting inventory state to the change feed after commit; feed
// publication failures are logged, never propagated, since the database
// already holds the truth.
type SQLService struct {
	db   *gorm.DB
	feed FeedPublisher
	log  *logrus.Entry
}

func NewSQLService(db *gorm.DB, feed FeedPublisher) *SQLService {
	return &SQLService{
		db:   db,
		feed: feed,
		log:  logrus.WithField("component", "inventory"),
	}
}

func (s *SQLService) Reserve(ctx context.Context, productID, warehouseID, userID uuid.UUID, quantity int, hold time.Duration) (uuid.UUID, error) {
	if quantity <= 0 {
		return uuid.Nil, fmt.Errorf("reservation quantity must be positive, got %d", quantity)
	}

	var reservation models.StockReservation
	var updated models.InventoryRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.InventoryRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
			First(&record).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrInsufficientStock
			}
			return fmt.Errorf("database error: %w", err)
		}

		if record.QuantityAvailable < quantity {
			return ErrInsufficientStock
		}

		reservation = models.StockReservation{
			ProductID:   productID,
			WarehouseID: warehouseID,
			UserID:      userID,
			Quantity:    quantity,
			Status:      models.ReservationStatusActive,
			ExpiresAt:   time.Now().Add(hold),
		}
		if err := tx.Create(&reservation).Error; err != nil {
			return fmt.Errorf("failed to create reservation: %w", err)
		}

		record.QuantityReserved += quantity
		record.QuantityAvailable = record.QuantityOnHand - record.QuantityReserved
		if err := tx.Model(&record).Updates(map[string]interface{}{
			"quantity_reserved":  record.QuantityReserved,
			"quantity_available": record.QuantityAvailable,
		}).Error; err != nil {
			return fmt.Errorf("failed to update inventory: %w", err)
		}

		updated = record
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}

	s.publishRecord(ctx, &updated)
	return reservation.ID, nil
}

func (s *SQLService) Release(ctx context.Context, reservationID uuid.UUID) error {
	var updated *models.InventoryRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation models.StockReservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reservation, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Releasing a reservation that no longer exists is fine;
				// the server-side janitor may have swept it already.
				return nil
			}
			return fmt.Errorf("database error: %w", err)
		}

		if reservation.Status != models.ReservationStatusActive {
			return nil
		}

		now := time.Now()
		if err := tx.Model(&reservation).Updates(map[string]interface{}{
			"status":      models.ReservationStatusReleased,
			"released_at": now,
		}).Error; err != nil {
			return fmt.Errorf("failed to release reservation: %w", err)
		}

		record, err := s.adjustReserved(tx, reservation.ProductID, reservation.WarehouseID, -reservation.Quantity)
		if err != nil {
			return err
		}
		updated = record
		return nil
	})
	if err != nil {
		return err
	}

	if updated != nil {
		s.publishRecord(ctx, updated)
	}
	return nil
}

func (s *SQLService) Confirm(ctx context.Context, reservationID uuid.UUID) (bool, error) {
	var confirmed bool
	var updated *models.InventoryRecord
	var movement models.StockMovement

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reservation models.StockReservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&reservation, reservationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// Swept or never existed; confirmation simply reports false.
				return nil
			}
			return fmt.Errorf("database error: %w", err)
		}

		if reservation.Status != models.ReservationStatusActive || time.Now().After(reservation.ExpiresAt) {
			return nil
		}

		if err := tx.Model(&reservation).Update("status", models.ReservationStatusConfirmed).Error; err != nil {
			return fmt.Errorf("failed to confirm reservation: %w", err)
		}

		var record models.InventoryRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND warehouse_id = ?", reservation.ProductID, reservation.WarehouseID).
			First(&record).Error; err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		record.QuantityOnHand -= reservation.Quantity
		record.QuantityReserved -= reservation.Quantity
		record.QuantityAvailable = record.QuantityOnHand - record.QuantityReserved
		if err := tx.Model(&record).Updates(map[string]interface{}{
			"quantity_on_hand":   record.QuantityOnHand,
			"quantity_reserved":  record.QuantityReserved,
			"quantity_available": record.QuantityAvailable,
		}).Error; err != nil {
			return fmt.Errorf("failed to update inventory: %w", err)
		}

		movement = models.StockMovement{
			ProductID:   reservation.ProductID,
			WarehouseID: reservation.WarehouseID,
			Type:        models.MovementTypeOutbound,
			Quantity:    reservation.Quantity,
			Reference:   fmt.Sprintf("reservation:%s", reservation.ID),
			CreatedBy:   &reservation.UserID,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		confirmed = true
		updated = &record
		return nil
	})
	if err != nil {
		return false, err
	}

	if confirmed {
		s.publishRecord(ctx, updated)
		s.publishMovement(ctx, movement)
	}
	return confirmed, nil
}

func (s *SQLService) ActiveReservations(ctx context.Context, userID, productID uuid.UUID) ([]models.StockReservation, error) {
	var reservations []models.StockReservation
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND status = ?", userID, productID, models.ReservationStatusActive).
		Find(&reservations).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	return reservations, nil
}

func (s *SQLService) SweepExpired(ctx context.Context) (int, error) {
	var swept int
	var touched []models.InventoryRecord

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expired []models.StockReservation
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("status = ? AND expires_at < ?", models.ReservationStatusActive, time.Now()).
			Find(&expired).Error; err != nil {
			return fmt.Errorf("failed to list expired reservations: %w", err)
		}

		now := time.Now()
		for i := range expired {
			r := &expired[i]
			if err := tx.Model(r).Updates(map[string]interface{}{
				"status":      models.ReservationStatusExpired,
				"released_at": now,
			}).Error; err != nil {
				return fmt.Errorf("failed to expire reservation %s: %w", r.ID, err)
			}
			record, err := s.adjustReserved(tx, r.ProductID, r.WarehouseID, -r.Quantity)
			if err != nil {
				return err
			}
			if record != nil {
				touched = append(touched, *record)
			}
			swept++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for i := range touched {
		s.publishRecord(ctx, &touched[i])
	}
	return swept, nil
}

func (s *SQLService) ResyncReserved(ctx context.Context) error {
	// Recompute the reserved aggregate from the active, unexpired holds, then
	// re-derive availability. Used after cart merges, where per-line holds are
	// created best-effort and the aggregate can drift.
	err := s.db.WithContext(ctx).Exec(`
		UPDATE inventory_records ir SET
			quantity_reserved = COALESCE((
				SELECT SUM(sr.quantity) FROM stock_reservations sr
				WHERE sr.product_id = ir.product_id
				  AND sr.warehouse_id = ir.warehouse_id
				  AND sr.status = ?
				  AND sr.expires_at > NOW()
				  AND sr.deleted_at IS NULL
			), 0)
	`, models.ReservationStatusActive).Error
	if err != nil {
		return fmt.Errorf("failed to resync reserved quantities: %w", err)
	}

	err = s.db.WithContext(ctx).Exec(
		`UPDATE inventory_records SET quantity_available = quantity_on_hand - quantity_reserved`,
	).Error
	if err != nil {
		return fmt.Errorf("failed to recompute availability: %w", err)
	}
	return nil
}

// AdjustStock applies an on-hand delta (goods-in, damage write-off, manual
// correction), records the movement and notifies subscribers.
func (s *SQLService) AdjustStock(ctx context.Context, productID, warehouseID uuid.UUID, delta int, movementType models.MovementType, reference string, actor *uuid.UUID) error {
	var updated models.InventoryRecord
	var movement models.StockMovement

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.InventoryRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
			First(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			record = models.InventoryRecord{ProductID: productID, WarehouseID: warehouseID}
			if err := tx.Create(&record).Error; err != nil {
				return fmt.Errorf("failed to create inventory record: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("database error: %w", err)
		}

		record.QuantityOnHand += delta
		record.QuantityAvailable = record.QuantityOnHand - record.QuantityReserved
		if err := tx.Model(&record).Updates(map[string]interface{}{
			"quantity_on_hand":   record.QuantityOnHand,
			"quantity_available": record.QuantityAvailable,
		}).Error; err != nil {
			return fmt.Errorf("failed to update inventory: %w", err)
		}

		movement = models.StockMovement{
			ProductID:   productID,
			WarehouseID: warehouseID,
			Type:        movementType,
			Quantity:    delta,
			Reference:   reference,
			CreatedBy:   actor,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}

		updated = record
		return nil
	})
	if err != nil {
		return err
	}

	s.publishRecord(ctx, &updated)
	s.publishMovement(ctx, movement)
	return nil
}

func (s *SQLService) FetchRecord(ctx context.Context, productID, warehouseID uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := s.db.WithContext(ctx).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &record, nil
}

func (s *SQLService) DefaultWarehouse(ctx context.Context) (uuid.UUID, error) {
	var warehouse models.Warehouse
	err := s.db.WithContext(ctx).
		Where("is_default = ? AND is_active = ?", true, true).
		First(&warehouse).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, ErrNoDefaultWarehouse
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("database error: %w", err)
	}
	return warehouse.ID, nil
}

// adjustReserved moves the reserved aggregate by delta under the caller's
// transaction and re-derives availability. A missing record is tolerated.
func (s *SQLService) adjustReserved(tx *gorm.DB, productID, warehouseID uuid.UUID, delta int) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	record.QuantityReserved += delta
	if record.QuantityReserved < 0 {
		record.QuantityReserved = 0
	}
	record.QuantityAvailable = record.QuantityOnHand - record.QuantityReserved
	if err := tx.Model(&record).Updates(map[string]interface{}{
		"quantity_reserved":  record.QuantityReserved,
		"quantity_available": record.QuantityAvailable,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update inventory: %w", err)
	}
	return &record, nil
}

func (s *SQLService) publishRecord(ctx context.Context, record *models.InventoryRecord) {
	if s.feed == nil || record == nil {
		return
	}
	event := InventoryEvent{
		Type:        InventoryEventUpdated,
		ProductID:   record.ProductID,
		WarehouseID: record.WarehouseID,
		Record:      record,
	}
	if err := s.feed.PublishInventory(ctx, event); err != nil {
		s.log.WithError(err).Warn("failed to publish inventory change")
	}
}

func (s *SQLService) publishMovement(ctx context.Context, movement models.StockMovement) {
	if s.feed == nil {
		return
	}
	if err := s.feed.PublishMovement(ctx, movement); err != nil {
		s.log.WithError(err).Warn("failed to publish stock movement")
	}
}
