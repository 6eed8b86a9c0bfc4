// internal/services/category_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ceramstore/ceramstore-backend/internal/models"
	"github.com/ceramstore/ceramstore-backend/internal/utils"
)

type CategoryService struct {
	db *gorm.DB
}

type CreateCategoryRequest struct {
	Code        string                 `json:"code" validate:"required,min=2,max=30"`
	Name        string                 `json:"name" validate:"required,min=2,max=255"`
	Description string                 `json:"description,omitempty"`
	SortOrder   int                    `json:"sort_order,omitempty"`
	SpecVisible map[string]interface{} `json:"spec_visibility,omitempty"`
}

type UpdateCategoryRequest struct {
	Name        string                 `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	Description string                 `json:"description,omitempty"`
	SortOrder   *int                   `json:"sort_order,omitempty"`
	IsActive    *bool                  `json:"is_active,omitempty"`
	SpecVisible map[string]interface{} `json:"spec_visibility,omitempty"`
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db}
}

func (s *CategoryService) ListCategories(includeInactive bool) ([]models.Category, error) {
	query := s.db.Model(&models.Category{}).Order("sort_order ASC, name ASC")
	if !includeInactive {
		query = query.Where("is_active = ?", true)
	}

	var categories []models.Category
	if err := query.Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) GetByCode(code models.CategoryCode) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("code = ?", code).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &category, nil
}

func (s *CategoryService) CreateCategory(req *CreateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var count int64
	s.db.Model(&models.Category{}).Where("code = ?", req.Code).Count(&count)
	if count > 0 {
		return nil, errors.New("category code already exists")
	}

	category := &models.Category{
		Code:           models.CategoryCode(req.Code),
		Name:           req.Name,
		Description:    req.Description,
		SortOrder:      req.SortOrder,
		IsActive:       true,
		SpecVisibility: models.JSONB(req.SpecVisible),
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *CategoryService) UpdateCategory(id uuid.UUID, req *UpdateCategoryRequest) (*models.Category, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.SortOrder != nil {
		updates["sort_order"] = *req.SortOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.SpecVisible != nil {
		updates["spec_visibility"] = models.JSONB(req.SpecVisible)
	}

	if err := s.db.Model(&category).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &category, nil
}

// SetSpecVisibility flips one facet key's storefront visibility.
func (s *CategoryService) SetSpecVisibility(id uuid.UUID, key string, visible bool) (*models.Category, error) {
	var category models.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("category not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if category.SpecVisibility == nil {
		category.SpecVisibility = models.JSONB{}
	}
	category.SpecVisibility[key] = visible

	if err := s.db.Model(&category).Update("spec_visibility", category.SpecVisibility).Error; err != nil {
		return nil, fmt.Errorf("failed to update spec visibility: %w", err)
	}
	return &category, nil
}
