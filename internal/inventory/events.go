package inventory

import (
	"encoding/json"
	"time"

	"warehouse-service/internal/model"

	"gorm.io/gorm"
)

// Event payloads. Each one is marshaled into an outbox row inside the same
// transaction as the ledger mutation it describes.

// ReservedEvent is the payload of inventory.reserved
type ReservedEvent struct {
	ReservationID  string    `json:"reservation_id"`
	OrderID        string    `json:"order_id"`
	OrderItemID    string    `json:"order_item_id,omitempty"`
	ProductID      string    `json:"product_id"`
	VariantID      string    `json:"variant_id,omitempty"`
	Quantity       int       `json:"quantity"`
	AvailableAfter int       `json:"available_after"`
	ExpiresAt      time.Time `json:"expires_at"`
}

// ReleasedEvent is the payload of inventory.released, for both manual
// releases and sweeper expiries
type ReleasedEvent struct {
	ReservationID  string `json:"reservation_id"`
	OrderID        string `json:"order_id"`
	ProductID      string `json:"product_id"`
	VariantID      string `json:"variant_id,omitempty"`
	Quantity       int    `json:"quantity"`
	Reason         string `json:"reason,omitempty"`
	Status         string `json:"status"`
	AvailableAfter int    `json:"available_after"`
}

// ConfirmedEvent is the payload of inventory.confirmed
type ConfirmedEvent struct {
	ReservationID     string `json:"reservation_id"`
	OrderID           string `json:"order_id"`
	ProductID         string `json:"product_id"`
	VariantID         string `json:"variant_id,omitempty"`
	Quantity          int    `json:"quantity"`
	RemainingQuantity int    `json:"remaining_quantity"`
}

// StockAlertEvent is the payload of inventory.low_stock and
// inventory.out_of_stock
type StockAlertEvent struct {
	ProductID         string `json:"product_id"`
	VariantID         string `json:"variant_id,omitempty"`
	SKU               string `json:"sku,omitempty"`
	AvailableQuantity int    `json:"available_quantity"`
	Threshold         int    `json:"threshold"`
	AlertType         string `json:"alert_type"`
}

// RestockedEvent is the payload of inventory.restocked
type RestockedEvent struct {
	ProductID      string `json:"product_id"`
	VariantID      string `json:"variant_id,omitempty"`
	Quantity       int    `json:"quantity"`
	AvailableAfter int    `json:"available_after"`
	ReferenceType  string `json:"reference_type"`
	ReferenceID    string `json:"reference_id"`
}

// VariantLockEvent is the payload of variant.locked and variant.unlocked
type VariantLockEvent struct {
	ProductID      string `json:"product_id"`
	VariantID      string `json:"variant_id"`
	CurrentExcess  int    `json:"current_excess"`
	MaxExcessUnits int    `json:"max_excess_units"`
	Reason         string `json:"reason,omitempty"`
	Locked         bool   `json:"locked"`
}

// PurchaseOrderCreatedEvent is the payload of purchase_order.created
type PurchaseOrderCreatedEvent struct {
	PurchaseOrderID string `json:"purchase_order_id"`
	PONumber        string `json:"po_number"`
	SupplierID      string `json:"supplier_id"`
	ItemCount       int    `json:"item_count"`
	TotalCost       string `json:"total_cost"`
}

// PurchaseOrderReceivedEvent is the payload of purchase_order.received
type PurchaseOrderReceivedEvent struct {
	PurchaseOrderID string `json:"purchase_order_id"`
	PONumber        string `json:"po_number"`
	TotalReceived   int    `json:"total_received"`
	TotalDamaged    int    `json:"total_damaged"`
	Status          string `json:"status"`
}

// stageEvent writes an outbox row through the transaction handle of the
// mutation it belongs to, so event and state commit or roll back together.
func stageEvent(tx *gorm.DB, eventType, aggregateType, aggregateID string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return tx.Create(&model.OutboxEvent{
		EventType:     eventType,
		AggregateType: aggregateType,
		AggregateID:   aggregateID,
		Payload:       body,
	}).Error
}
