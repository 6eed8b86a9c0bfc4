// internal/models/showroom.go
package models

type Showroom struct {
	BaseModel
	Name      string  `json:"name" gorm:"size:255;not null"`
	City      string  `json:"city" gorm:"size:100;index"`
	Address   string  `json:"address" gorm:"size:500"`
	Phone     string  `json:"phone" gorm:"size:30"`
	Email     string  `json:"email" gorm:"size:255"`
	Schedule  JSONB   `json:"schedule" gorm:"type:jsonb"`
	Latitude  float64 `json:"latitude" gorm:"type:decimal(9,6)"`
	Longitude float64 `json:"longitude" gorm:"type:decimal(9,6)"`
	IsActive  bool    `json:"is_active" gorm:"default:true"`
}
