// internal/services/showroom_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ceramstore/ceramstore-backend/internal/models"
	"github.com/ceramstore/ceramstore-backend/internal/utils"
)

type ShowroomService struct {
	db *gorm.DB
}

type CreateShowroomRequest struct {
	Name      string                 `json:"name" validate:"required,min=2,max=255"`
	City      string                 `json:"city" validate:"required,max=100"`
	Address   string                 `json:"address" validate:"required,max=500"`
	Phone     string                 `json:"phone,omitempty" validate:"omitempty,ro_phone"`
	Email     string                 `json:"email,omitempty" validate:"omitempty,email"`
	Schedule  map[string]interface{} `json:"schedule,omitempty"`
	Latitude  float64                `json:"latitude,omitempty"`
	Longitude float64                `json:"longitude,omitempty"`
}

type UpdateShowroomRequest struct {
	Name      string                 `json:"name,omitempty" validate:"omitempty,min=2,max=255"`
	City      string                 `json:"city,omitempty" validate:"omitempty,max=100"`
	Address   string                 `json:"address,omitempty" validate:"omitempty,max=500"`
	Phone     string                 `json:"phone,omitempty" validate:"omitempty,ro_phone"`
	Email     string                 `json:"email,omitempty" validate:"omitempty,email"`
	Schedule  map[string]interface{} `json:"schedule,omitempty"`
	IsActive  *bool                  `json:"is_active,omitempty"`
	Latitude  *float64               `json:"latitude,omitempty"`
	Longitude *float64               `json:"longitude,omitempty"`
}

func NewShowroomService(db *gorm.DB) *ShowroomService {
	return &ShowroomService{db: db}
}

func (s *ShowroomService) ListShowrooms(city string) ([]models.Showroom, error) {
	query := s.db.Model(&models.Showroom{}).Where("is_active = ?", true).Order("city ASC, name ASC")
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}

	var showrooms []models.Showroom
	if err := query.Find(&showrooms).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch showrooms: %w", err)
	}
	return showrooms, nil
}

func (s *ShowroomService) GetShowroom(id uuid.UUID) (*models.Showroom, error) {
	var showroom models.Showroom
	if err := s.db.First(&showroom, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("showroom not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &showroom, nil
}

func (s *ShowroomService) CreateShowroom(req *CreateShowroomRequest) (*models.Showroom, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	showroom := &models.Showroom{
		Name:      req.Name,
		City:      req.City,
		Address:   req.Address,
		Phone:     req.Phone,
		Email:     req.Email,
		Schedule:  models.JSONB(req.Schedule),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		IsActive:  true,
	}

	if err := s.db.Create(showroom).Error; err != nil {
		return nil, fmt.Errorf("failed to create showroom: %w", err)
	}
	return showroom, nil
}

func (s *ShowroomService) UpdateShowroom(id uuid.UUID, req *UpdateShowroomRequest) (*models.Showroom, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	var showroom models.Showroom
	if err := s.db.First(&showroom, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("showroom not found")
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.City != "" {
		updates["city"] = req.City
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Schedule != nil {
		updates["schedule"] = models.JSONB(req.Schedule)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}

	if err := s.db.Model(&showroom).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update showroom: %w", err)
	}
	return &showroom, nil
}

func (s *ShowroomService) DeleteShowroom(id uuid.UUID) error {
	var showroom models.Showroom
	if err := s.db.First(&showroom, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("showroom not found")
		}
		return fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Delete(&showroom).Error; err != nil {
		return fmt.Errorf("failed to delete showroom: %w", err)
	}
	return nil
}
