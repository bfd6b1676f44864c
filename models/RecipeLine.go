package models

import (
	"gorm.io/gorm"
)

type RecipeLine struct {
	gorm.Model
	ProductID    uint    `gorm:"not null;index" json:"product_id"` // Finished product
	IngredientID uint    `gorm:"not null;index" json:"ingredient_id"`
	Amount       float64 `gorm:"not null" json:"amount"` // Per unit of the finished product
	Unit         string  `gorm:"not null" json:"unit"`

	Product    *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Ingredient *Product `gorm:"foreignKey:IngredientID" json:"ingredient,omitempty"`
}
