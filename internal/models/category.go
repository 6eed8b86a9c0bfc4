// internal/models/category.go
package models

type Category struct {
	BaseModel
	Code        CategoryCode `json:"code" gorm:"type:varchar(30);uniqueIndex;not null"`
	Name        string       `json:"name" gorm:"size:255;not null"`
	Description string       `json:"description" gorm:"type:text"`
	SortOrder   int          `json:"sort_order" gorm:"default:0"`
	IsActive    bool         `json:"is_active" gorm:"default:true"`

	// SpecVisibility maps facet keys to a boolean controlling whether the
	// storefront exposes that specification for this category.
	SpecVisibility JSONB `json:"spec_visibility" gorm:"type:jsonb"`

	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

// SpecVisible reports whether a facet key should be shown for the category.
// Keys absent from the visibility map default to visible.
func (c *Category) SpecVisible(key string) bool {
	if c.SpecVisibility == nil {
		return true
	}
	v, ok := c.SpecVisibility[key]
	if !ok {
		return true
	}
	visible, ok := v.(bool)
	return !ok || visible
}
