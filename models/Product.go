package models

import (
	"gorm.io/gorm"
)

type Product struct {
	gorm.Model
	Name       string    `gorm:"uniqueIndex;not null" json:"name"`
	Unit       string    `gorm:"not null;default:Stück" json:"unit"`
	CategoryID *uint     `json:"category_id,omitempty"`
	Category   *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// CategoryName returns the preloaded category name or an empty string.
func (p Product) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return p.Category.Name
}
