package model

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Stock status values derived from the ledger counters
const (
	StockStatusInStock       = "in_stock"
	StockStatusLowStock      = "low_stock"
	StockStatusOutOfStock    = "out_of_stock"
	StockStatusNotConfigured = "not_configured"
)

// ErrInvalidQuantity rejects zero or negative quantities before any mutation
var ErrInvalidQuantity = errors.New("quantity must be positive")

// NegativeQuantityError rejects any adjustment that would drive a stock
// counter below zero
type NegativeQuantityError struct {
	Counter string
	Current int
	Change  int
}

func (e *NegativeQuantityError) Error() string {
	return fmt.Sprintf("%s would become negative: current %d, change %d", e.Counter, e.Current, e.Change)
}

// InventoryRecord is the authoritative stock ledger row for a (product, variant)
// pair. AvailableQuantity + ReservedQuantity always equals Quantity, and the
// Version column guards every mutation against concurrent writers.
type InventoryRecord struct {
	ID                uint           `json:"id" gorm:"primaryKey"`
	ProductID         string         `json:"product_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_product_variant"`
	VariantID         string         `json:"variant_id" gorm:"type:varchar(64);uniqueIndex:idx_product_variant"` // empty for product-level stock
	SKU               string         `json:"sku" gorm:"type:varchar(100);index"`
	Quantity          int            `json:"quantity" gorm:"not null;default:0"`
	ReservedQuantity  int            `json:"reserved_quantity" gorm:"not null;default:0"`
	AvailableQuantity int            `json:"available_quantity" gorm:"not null;default:0"`
	MinStockLevel     int            `json:"min_stock_level" gorm:"not null;default:0"`
	MaxStockLevel     int            `json:"max_stock_level" gorm:"not null;default:0"`
	ReorderPoint      int            `json:"reorder_point" gorm:"not null;default:0"`
	Version           int64          `json:"version" gorm:"not null;default:0"`
	LastRestockedAt   *time.Time     `json:"last_restocked_at"`
	LastSoldAt        *time.Time     `json:"last_sold_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Reserve moves quantity from available to reserved
func (r *InventoryRecord) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.AvailableQuantity < quantity {
		return &NegativeQuantityError{Counter: "available_quantity", Current: r.AvailableQuantity, Change: -quantity}
	}
	r.AvailableQuantity -= quantity
	r.ReservedQuantity += quantity
	return nil
}

// ReleaseHold moves quantity from reserved back to available
func (r *InventoryRecord) ReleaseHold(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.ReservedQuantity < quantity {
		return &NegativeQuantityError{Counter: "reserved_quantity", Current: r.ReservedQuantity, Change: -quantity}
	}
	r.ReservedQuantity -= quantity
	r.AvailableQuantity += quantity
	return nil
}

// ConsumeHold deducts a reserved quantity from physical stock on a confirmed sale
func (r *InventoryRecord) ConsumeHold(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if r.ReservedQuantity < quantity {
		return &NegativeQuantityError{Counter: "reserved_quantity", Current: r.ReservedQuantity, Change: -quantity}
	}
	if r.Quantity < quantity {
		return &NegativeQuantityError{Counter: "quantity", Current: r.Quantity, Change: -quantity}
	}
	r.ReservedQuantity -= quantity
	r.Quantity -= quantity
	return nil
}

// AddStock credits received units to physical and available stock
func (r *InventoryRecord) AddStock(quantity int) error {
	if quantity < 0 {
		return &NegativeQuantityError{Counter: "quantity", Current: r.Quantity, Change: quantity}
	}
	r.Quantity += quantity
	r.AvailableQuantity += quantity
	return nil
}

// AdjustStock applies a signed manual correction to physical and available stock
func (r *InventoryRecord) AdjustStock(delta int) error {
	if r.Quantity+delta < 0 {
		return &NegativeQuantityError{Counter: "quantity", Current: r.Quantity, Change: delta}
	}
	if r.AvailableQuantity+delta < 0 {
		return &NegativeQuantityError{Counter: "available_quantity", Current: r.AvailableQuantity, Change: delta}
	}
	r.Quantity += delta
	r.AvailableQuantity += delta
	return nil
}

// StockStatus derives the ledger status from the current counters
func (r *InventoryRecord) StockStatus() string {
	if r.AvailableQuantity <= 0 {
		return StockStatusOutOfStock
	}
	if r.AvailableQuantity <= r.MinStockLevel {
		return StockStatusLowStock
	}
	return StockStatusInStock
}

// IsBalanced reports whether available + reserved equals physical quantity
func (r *InventoryRecord) IsBalanced() bool {
	return r.AvailableQuantity+r.ReservedQuantity == r.Quantity
}
