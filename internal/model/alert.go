package model

import (
	"time"
)

// Stock alert types derived from ledger transitions
const (
	AlertTypeLowStock   = "low_stock"
	AlertTypeOutOfStock = "out_of_stock"
)

// StockAlert is a triggered low-stock or out-of-stock record. Open alerts
// are resolved when a receipt or adjustment brings available stock back
// above the minimum level.
type StockAlert struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	InventoryID     uint       `json:"inventory_id" gorm:"index;not null"`
	ProductID       string     `json:"product_id" gorm:"type:varchar(64);index;not null"`
	VariantID       string     `json:"variant_id" gorm:"type:varchar(64)"`
	SKU             string     `json:"sku" gorm:"type:varchar(100)"`
	AlertType       string     `json:"alert_type" gorm:"type:varchar(20);not null"`
	CurrentQuantity int        `json:"current_quantity" gorm:"not null"`
	Threshold       int        `json:"threshold" gorm:"not null"`
	IsResolved      bool       `json:"is_resolved" gorm:"not null;default:false;index"`
	ResolvedAt      *time.Time `json:"resolved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
