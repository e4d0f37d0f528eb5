package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Title          string         `gorm:"not null" json:"title"`
	SKU            string         `gorm:"uniqueIndex;not null" json:"sku"`
	Description    string         `json:"description"`
	Price          float64        `gorm:"not null" json:"price"`
	Images         datatypes.JSON `json:"images"`
	Specifications datatypes.JSON `json:"specifications"`
	StockQuantity  int            `gorm:"not null;default:0" json:"stock_quantity"`
	InStock        bool           `gorm:"not null" json:"in_stock"`
	IsActive       bool           `gorm:"not null" json:"is_active"`
	Categories     []Category     `gorm:"many2many:product_categories;" json:"categories,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}
