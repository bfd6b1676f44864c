package models

import (
	"time"

	"gorm.io/gorm"
)

// Event is a catering job whose product list forms the Packliste.
type Event struct {
	gorm.Model
	Name     string         `gorm:"not null" json:"name"`
	Date     time.Time      `json:"date"`
	Location string         `json:"location"`
	Notes    string         `gorm:"type:text" json:"notes"`
	Products []EventProduct `gorm:"foreignKey:EventID" json:"products"`
}

type EventProduct struct {
	gorm.Model
	EventID   uint     `gorm:"not null;index" json:"event_id"`
	ProductID uint     `gorm:"not null" json:"product_id"`
	Quantity  float64  `gorm:"not null" json:"quantity"`
	Unit      string   `json:"unit"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}
