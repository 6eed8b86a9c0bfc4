// internal/cart/repository.go
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ceramstore/ceramstore-backend/internal/models"
)

// LineRepository persists cart lines for signed-in users. Anonymous carts
// never touch it; their lines live only in the Store.
type LineRepository interface {
	LinesFor(ctx context.Context, userID *uuid.UUID) ([]models.CartItem, error)
	Save(ctx context.Context, line *models.CartItem) error
	Delete(ctx context.Context, userID *uuid.UUID, productID uuid.UUID) error
	DeleteAll(ctx context.Context, userID *uuid.UUID) error
}

type GormLineRepository struct {
	db *gorm.DB
}

func NewGormLineRepository(db *gorm.DB) *GormLineRepository {
	return &GormLineRepository{db: db}
}

func (r *GormLineRepository) LinesFor(ctx context.Context, userID *uuid.UUID) ([]models.CartItem, error) {
	var lines []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cart lines: %w", err)
	}
	return lines, nil
}

// Save upserts on the (owner, product) pair so repeated saves of the same
// line only move its quantity.
func (r *GormLineRepository) Save(ctx context.Context, line *models.CartItem) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "updated_at"}),
		}).
		Omit("Product").
		Create(line).Error
	if err != nil {
		return fmt.Errorf("failed to save cart line: %w", err)
	}
	return nil
}

func (r *GormLineRepository) Delete(ctx context.Context, userID *uuid.UUID, productID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete cart line: %w", err)
	}
	return nil
}

func (r *GormLineRepository) DeleteAll(ctx context.Context, userID *uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear cart lines: %w", err)
	}
	return nil
}
