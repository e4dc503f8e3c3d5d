package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Purchase order status values, recomputed from the full item set after
// every receipt rather than tracked incrementally.
const (
	PurchaseOrderStatusPending   = "pending"
	PurchaseOrderStatusPartial   = "partial"
	PurchaseOrderStatusReceived  = "received"
	PurchaseOrderStatusCancelled = "cancelled"
)

// Purchase order item status values derived from cumulative received units
const (
	POItemStatusPending  = "pending"
	POItemStatusPartial  = "partial"
	POItemStatusReceived = "received"
)

// PurchaseOrder is a factory order for bundles of stock
type PurchaseOrder struct {
	ID         string              `json:"id" gorm:"type:varchar(36);primaryKey"`
	PONumber   string              `json:"po_number" gorm:"type:varchar(50);uniqueIndex;not null"`
	SupplierID string              `json:"supplier_id" gorm:"type:varchar(64);index;not null"`
	Status     string              `json:"status" gorm:"type:varchar(20);index;not null;default:'pending'"`
	TotalCost  decimal.Decimal     `json:"total_cost" gorm:"type:decimal(14,2)"`
	OrderedAt  time.Time           `json:"ordered_at"`
	ReceivedAt *time.Time          `json:"received_at"`
	Items      []PurchaseOrderItem `json:"items" gorm:"foreignKey:PurchaseOrderID"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
	DeletedAt  gorm.DeletedAt      `json:"deleted_at,omitempty" gorm:"index"`
}

// PurchaseOrderItem is one product/size line of a purchase order.
// ReceivedUnits and DamagedUnits accumulate across repeated partial
// deliveries and are never overwritten.
type PurchaseOrderItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	PurchaseOrderID string          `json:"purchase_order_id" gorm:"type:varchar(36);index;not null"`
	ProductID       string          `json:"product_id" gorm:"type:varchar(64);not null"`
	VariantID       string          `json:"variant_id" gorm:"type:varchar(64)"`
	SKU             string          `json:"sku" gorm:"type:varchar(100)"`
	TotalUnits      int             `json:"total_units" gorm:"not null"`
	ReceivedUnits   int             `json:"received_units" gorm:"not null;default:0"`
	DamagedUnits    int             `json:"damaged_units" gorm:"not null;default:0"`
	UnitCost        decimal.Decimal `json:"unit_cost" gorm:"type:decimal(12,2)"`
	Status          string          `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ApplyDelivery adds a delivery to the cumulative counters and re-derives
// the item status from the cumulative state.
func (i *PurchaseOrderItem) ApplyDelivery(receivedUnits, damagedUnits int) {
	i.ReceivedUnits += receivedUnits
	i.DamagedUnits += damagedUnits
	if i.ReceivedUnits >= i.TotalUnits {
		i.Status = POItemStatusReceived
	} else if i.ReceivedUnits > 0 {
		i.Status = POItemStatusPartial
	} else {
		i.Status = POItemStatusPending
	}
}

// LineCost returns unit cost times ordered units
func (i *PurchaseOrderItem) LineCost() decimal.Decimal {
	return i.UnitCost.Mul(decimal.NewFromInt(int64(i.TotalUnits)))
}

// RecomputeStatus re-derives the order status from the full item set.
// A cancelled order never changes status.
func (po *PurchaseOrder) RecomputeStatus(now time.Time) {
	if po.Status == PurchaseOrderStatusCancelled {
		return
	}

	allReceived := len(po.Items) > 0
	anyReceived := false
	for _, item := range po.Items {
		if item.Status != POItemStatusReceived {
			allReceived = false
		}
		if item.ReceivedUnits > 0 {
			anyReceived = true
		}
	}

	switch {
	case allReceived:
		po.Status = PurchaseOrderStatusReceived
		if po.ReceivedAt == nil {
			po.ReceivedAt = &now
		}
	case anyReceived:
		po.Status = PurchaseOrderStatusPartial
	default:
		po.Status = PurchaseOrderStatusPending
	}
}

// TotalReceivedUnits sums cumulative received units across items
func (po *PurchaseOrder) TotalReceivedUnits() int {
	total := 0
	for _, item := range po.Items {
		total += item.ReceivedUnits
	}
	return total
}

// TotalDamagedUnits sums cumulative damaged units across items
func (po *PurchaseOrder) TotalDamagedUnits() int {
	total := 0
	for _, item := range po.Items {
		total += item.DamagedUnits
	}
	return total
}
