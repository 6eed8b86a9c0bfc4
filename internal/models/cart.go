// internal/models/cart.go
package models

import (
	"github.com/google/uuid"
)

// CartItem is one product line in a shopping cart. UserID is nil for
// anonymous carts, whose lines live client-side only until sign-in. At most
// one line exists per product per cart.
type CartItem struct {
	BaseModel
	UserID    *uuid.UUID `json:"user_id" gorm:"type:uuid;index;uniqueIndex:idx_cart_owner_product"`
	ProductID uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;uniqueIndex:idx_cart_owner_product"`
	Quantity  int        `json:"quantity" gorm:"not null"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
