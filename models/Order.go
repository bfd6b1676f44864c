package models

import (
	"gorm.io/gorm"
)

const (
	OrderStatusOpen      = "open"
	OrderStatusOrdered   = "ordered"
	OrderStatusDelivered = "delivered"
)

// Order is a persisted Bestellung. Reorders (Nachbestellung) point at their
// origin through ParentOrderID.
type Order struct {
	gorm.Model
	Title         string      `gorm:"not null" json:"title"`
	Status        string      `gorm:"not null;default:open" json:"status"`
	EventID       *uint       `json:"event_id,omitempty"`
	ParentOrderID *uint       `json:"parent_order_id,omitempty"`
	Items         []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

type OrderItem struct {
	gorm.Model
	OrderID   uint     `gorm:"not null;index" json:"order_id"`
	ProductID uint     `gorm:"not null" json:"product_id"`
	Quantity  float64  `gorm:"not null" json:"quantity"`
	Unit      string   `json:"unit"`
	Product   *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// ValidOrderStatus reports whether status is one of the known order states.
func ValidOrderStatus(status string) bool {
	switch status {
	case OrderStatusOpen, OrderStatusOrdered, OrderStatusDelivered:
		return true
	default:
		return false
	}
}
