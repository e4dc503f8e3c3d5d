package model

import (
	"time"
)

// Domain event types persisted to the outbox
const (
	EventInventoryReserved     = "inventory.reserved"
	EventInventoryReleased     = "inventory.released"
	EventInventoryConfirmed    = "inventory.confirmed"
	EventInventoryLowStock     = "inventory.low_stock"
	EventInventoryOutOfStock   = "inventory.out_of_stock"
	EventInventoryRestocked    = "inventory.restocked"
	EventVariantLocked         = "variant.locked"
	EventVariantUnlocked       = "variant.unlocked"
	EventPurchaseOrderCreated  = "purchase_order.created"
	EventPurchaseOrderReceived = "purchase_order.received"
)

// Outbox aggregate types
const (
	AggregateInventory     = "inventory"
	AggregateReservation   = "reservation"
	AggregateVariant       = "variant"
	AggregatePurchaseOrder = "purchase_order"
)

// OutboxEvent is a domain event row written in the same transaction as the
// state change it describes. The relay publishes unpublished rows in ID
// order and stamps PublishedAt; a row is never deleted.
type OutboxEvent struct {
	ID            uint64     `json:"id" gorm:"primaryKey;autoIncrement"`
	EventType     string     `json:"event_type" gorm:"type:varchar(64);index;not null"`
	AggregateType string     `json:"aggregate_type" gorm:"type:varchar(30);not null"`
	AggregateID   string     `json:"aggregate_id" gorm:"type:varchar(64);index;not null"`
	Payload       []byte     `json:"payload" gorm:"type:jsonb"`
	PublishedAt   *time.Time `json:"published_at" gorm:"index"`
	CreatedAt     time.Time  `json:"created_at"`
}
