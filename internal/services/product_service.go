// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ceramstore/ceramstore-backend/internal/models"
	"github.com/ceramstore/ceramstore-backend/internal/utils"
)

type ProductService struct {
	db *gorm.DB
}

type CreateProductRequest struct {
	CategoryID       uuid.UUID              `json:"category_id" validate:"required"`
	Name             string                 `json:"name" validate:"required,min=3,max=255"`
	Description      string                 `json:"description,omitempty"`
	SKU              string                 `json:"sku" validate:"required,sku"`
	Price            float64                `json:"price" validate:"required,min=0.01"`
	Color            string                 `json:"color,omitempty" validate:"omitempty,max=100"`
	Brand            string                 `json:"brand,omitempty" validate:"omitempty,max=100"`
	IsFeatured       bool                   `json:"is_featured,omitempty"`
	Images           []string               `json:"images,omitempty"`
	ApplicationAreas []string               `json:"application_areas,omitempty"`
	Specifications   map[string]interface{} `json:"specifications,omitempty"`
}

type UpdateProductRequest struct {
	Name             string                 `json:"name,omitempty" validate:"omitempty,min=3,max=255"`
	Description      string                 `json:"description,omitempty"`
	Price            float64                `json:"price,omitempty" validate:"omitempty,min=0.01"`
	Color            string                 `json:"color,omitempty" validate:"omitempty,max=100"`
	Brand            string                 `json:"brand,omitempty" validate:"omitempty,max=100"`
	IsFeatured       *bool                  `json:"is_featured,omitempty"`
	Images           []string               `json:"images,omitempty"`
	ApplicationAreas []string               `json:"application_areas,omitempty"`
	Specifications   map[string]interface{} `json:"specifications,omitempty"`
	Status           models.ProductStatus   `json:"status,omitempty"`
}

type ProductSearchParams struct {
	utils.PaginationParams
	CategoryID *uuid.UUID            `json:"category_id,omitempty"`
	Status     *models.ProductStatus `json:"status,omitempty"`
	PriceMin   *float64              `json:"price_min,omitempty"`
	PriceMax   *float64              `json:"price_max,omitempty"`
	Color      string                `json:"color,omitempty"`
	Brand      string                `json:"brand,omitempty"`
	Featured   *bool                 `json:"featured,omitempty"`
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

func (s *ProductService) CreateProduct(req *CreateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	// Verify category exists and is active
	var category models.Category
	if err := s.db.First(&category, req.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if !category.IsActive {
		return nil, errors.New("category is not active")
	}

	product := &models.Product{
		CategoryID:       req.CategoryID,
		Name:             req.Name,
		Description:      req.Description,
		SKU:              strings.ToUpper(strings.TrimSpace(req.SKU)),
		Price:            req.Price,
		Color:            req.Color,
		Brand:            req.Brand,
		IsFeatured:       req.IsFeatured,
		Images:           req.Images,
		ApplicationAreas: req.ApplicationAreas,
		Specifications:   models.JSONB(req.Specifications),
		Status:           models.ProductStatusDraft,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.db.Preload("Category").First(product, product.ID)
	return product, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.Preload("Category").Preload("Inventory").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

func (s *ProductService) UpdateProduct(id uuid.UUID, req *UpdateProductRequest) (*models.Product, error) {
	// Validate request
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("product not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	// Prepare updates
	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Price > 0 {
		updates["price"] = req.Price
	}
	if req.Color != "" {
		updates["color"] = req.Color
	}
	if req.Brand != "" {
		updates["brand"] = req.Brand
	}
	if req.IsFeatured != nil {
		updates["is_featured"] = *req.IsFeatured
	}
	if req.Images != nil {
		updates["images"] = req.Images
	}
	if req.ApplicationAreas != nil {
		updates["application_areas"] = req.ApplicationAreas
	}
	if req.Specifications != nil {
		updates["specifications"] = models.JSONB(req.Specifications)
	}
	if req.Status != "" {
		updates["status"] = req.Status
	}

	if err := s.db.Model(&product).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.db.Preload("Category").First(&product, id)
	return &product, nil
}

func (s *ProductService) DeleteProduct(id uuid.UUID) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("product not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	// Refuse while customers still hold reserved stock for it
	var activeHolds int64
	if err := s.db.Model(&models.StockReservation{}).
		Where("product_id = ? AND status = ?", id, models.ReservationStatusActive).
		Count(&activeHolds).Error; err != nil {
		return fmt.Errorf("failed to check reservations: %w", err)
	}
	if activeHolds > 0 {
		return errors.New("cannot delete product with active stock reservations")
	}

	// Soft delete
	if err := s.db.Delete(&product).Error; err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	return nil
}

func (s *ProductService) SearchProducts(params ProductSearchParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Preload("Category")

	// Apply filters
	if params.CategoryID != nil {
		query = query.Where("category_id = ?", *params.CategoryID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	} else {
		// Default to active products only
		query = query.Where("status = ?", models.ProductStatusActive)
	}

	if params.Category != "" {
		query = query.Joins("JOIN categories ON categories.id = products.category_id").
			Where("categories.code = ?", params.Category)
	}

	if params.Search != "" {
		searchTerm := "%" + strings.ToLower(params.Search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(sku) LIKE ?",
			searchTerm, searchTerm, searchTerm)
	}

	if params.PriceMin != nil {
		query = query.Where("price >= ?", *params.PriceMin)
	}

	if params.PriceMax != nil {
		query = query.Where("price <= ?", *params.PriceMax)
	}

	if params.Color != "" {
		query = query.Where("LOWER(color) = ?", strings.ToLower(params.Color))
	}

	if params.Brand != "" {
		query = query.Where("LOWER(brand) = ?", strings.ToLower(params.Brand))
	}

	if params.Featured != nil {
		query = query.Where("is_featured = ?", *params.Featured)
	}

	// Get total count
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	// Apply sorting and pagination
	allowedSortFields := []string{"created_at", "updated_at", "name", "price"}
	query = utils.ApplySort(query, params.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, params.PaginationParams)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

// CategoryProducts returns every active product of one category, unpaginated.
// The catalog session derives facets and runs filtering over the full set, so
// it needs all of them, not a page.
func (s *ProductService) CategoryProducts(code models.CategoryCode) ([]models.Product, error) {
	var category models.Category
	if err := s.db.Where("code = ?", code).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var products []models.Product
	if err := s.db.Where("category_id = ? AND status = ?", category.ID, models.ProductStatusActive).
		Order("created_at DESC").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch category products: %w", err)
	}
	return products, nil
}

func (s *ProductService) FeaturedProducts(limit int) ([]models.Product, error) {
	var products []models.Product
	if err := s.db.Where("status = ? AND is_featured = ?", models.ProductStatusActive, true).
		Order("created_at DESC").
		Limit(limit).
		Preload("Category").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}
	return products, nil
}
