// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeCustomer UserType = "customer"
	UserTypeAdmin    UserType = "admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// CategoryCode selects a category's facet vocabulary.
type CategoryCode string

const (
	CategoryFaianta   CategoryCode = "faianta"
	CategoryGresie    CategoryCode = "gresie"
	CategoryPavaj     CategoryCode = "pavaj"
	CategoryParchet   CategoryCode = "parchet"
	CategoryAccesorii CategoryCode = "accesorii"
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusReleased  ReservationStatus = "released"
	ReservationStatusExpired   ReservationStatus = "expired"
)

type MovementType string

const (
	MovementTypeInbound    MovementType = "inbound"
	MovementTypeOutbound   MovementType = "outbound"
	MovementTypeAdjustment MovementType = "adjustment"
)

// StockState classifies an inventory record for storefront display.
type StockState string

const (
	StockStateInStock    StockState = "in_stock"
	StockStateLowStock   StockState = "low_stock"
	StockStateOutOfStock StockState = "out_of_stock"
	StockStateReserved   StockState = "reserved"
)
