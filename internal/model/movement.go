package model

import (
	"time"
)

// Movement types, one per kind of physical quantity change. Reservations
// shift the available/reserved split without changing physical stock, so
// they never appear here.
const (
	MovementTypeInitial       = "initial"
	MovementTypeSale          = "sale"
	MovementTypePurchaseOrder = "purchase_order"
	MovementTypeAdjustment    = "adjustment"
)

// Movement reference types
const (
	ReferenceTypeReservation   = "reservation"
	ReferenceTypePurchaseOrder = "purchase_order"
	ReferenceTypeManual        = "manual"
)

// InventoryMovement is an append-only audit entry for a physical stock
// change. Rows are never updated or deleted.
type InventoryMovement struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	InventoryID    uint      `json:"inventory_id" gorm:"index;not null"`
	ProductID      string    `json:"product_id" gorm:"type:varchar(64);index;not null"`
	VariantID      string    `json:"variant_id" gorm:"type:varchar(64)"`
	MovementType   string    `json:"movement_type" gorm:"type:varchar(20);not null"`
	QuantityBefore int       `json:"quantity_before" gorm:"not null"`
	QuantityChange int       `json:"quantity_change" gorm:"not null"`
	QuantityAfter  int       `json:"quantity_after" gorm:"not null"`
	ReferenceType  string    `json:"reference_type" gorm:"type:varchar(30)"`
	ReferenceID    string    `json:"reference_id" gorm:"type:varchar(64);index"`
	Note           string    `json:"note,omitempty" gorm:"type:varchar(255)"`
	CreatedAt      time.Time `json:"created_at"`
}
