// internal/models/product.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Product is a catalog item. Beyond the fixed columns, each product carries a
// category-dependent bag of facet attributes in Specifications (dimension,
// finish, thickness, suitability flags and so on). The populated keys within
// one category form that category's facet vocabulary; nothing enforces a
// fixed schema per category.
type Product struct {
	BaseModel
	CategoryID       uuid.UUID      `json:"category_id" gorm:"type:uuid;not null;index"`
	Name             string         `json:"name" gorm:"size:255;not null"`
	Description      string         `json:"description" gorm:"type:text"`
	SKU              string         `json:"sku" gorm:"size:64;uniqueIndex"`
	Price            float64        `json:"price" gorm:"type:decimal(10,2);not null"`
	Color            string         `json:"color" gorm:"size:100;index"`
	Brand            string         `json:"brand" gorm:"size:100;index"`
	IsFeatured       bool           `json:"is_featured" gorm:"default:false;index"`
	Images           pq.StringArray `json:"images" gorm:"type:text[]"`
	ApplicationAreas pq.StringArray `json:"application_areas" gorm:"type:text[]"`
	Specifications   JSONB          `json:"specifications" gorm:"type:jsonb"`
	Status           ProductStatus  `json:"status" gorm:"type:varchar(20);default:'draft';index"`

	// Relationships
	Category     Category           `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Inventory    []InventoryRecord  `json:"inventory,omitempty" gorm:"foreignKey:ProductID"`
	Reservations []StockReservation `json:"reservations,omitempty" gorm:"foreignKey:ProductID"`
}

// Attribute resolves a facet key against the product, fixed columns first,
// then the open specification bag. The second return reports whether the
// product carries the attribute at all.
func (p *Product) Attribute(key string) (interface{}, bool) {
	switch key {
	case "color":
		if p.Color == "" {
			return nil, false
		}
		return p.Color, true
	case "brand":
		if p.Brand == "" {
			return nil, false
		}
		return p.Brand, true
	case "application_areas":
		if len(p.ApplicationAreas) == 0 {
			return nil, false
		}
		return []string(p.ApplicationAreas), true
	case "is_featured":
		return p.IsFeatured, true
	}
	if p.Specifications == nil {
		return nil, false
	}
	v, ok := p.Specifications[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
