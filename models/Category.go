package models

import (
	"gorm.io/gorm"
)

// Category groups products for display. It plays no part in aggregation math.
type Category struct {
	gorm.Model
	Name     string    `gorm:"uniqueIndex;not null" json:"name"`
	Products []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
}
