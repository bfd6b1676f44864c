package models

import (
	"gorm.io/gorm"
)

// PackagingUnit describes the purchasable container of a product, e.g. 20 Stück per Sack.
type PackagingUnit struct {
	gorm.Model
	ProductID        uint     `gorm:"uniqueIndex;not null" json:"product_id"`
	AmountPerPackage float64  `gorm:"not null" json:"amount_per_package"`
	Label            string   `gorm:"not null" json:"packaging_label"`
	Product          *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
