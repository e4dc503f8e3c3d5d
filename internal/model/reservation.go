package model

import (
	"time"
)

// Reservation status values. A reservation leaves "reserved" exactly once;
// every other status is terminal.
const (
	ReservationStatusReserved  = "reserved"
	ReservationStatusConfirmed = "confirmed"
	ReservationStatusReleased  = "released"
	ReservationStatusExpired   = "expired"
)

// ReleaseReasonExpired marks reservations released by the expiry sweeper
const ReleaseReasonExpired = "reservation_expired"

// StockReservation is a temporary hold on available stock tied to an order
type StockReservation struct {
	ID            string     `json:"id" gorm:"type:varchar(36);primaryKey"`
	InventoryID   uint       `json:"inventory_id" gorm:"index;not null"`
	OrderID       string     `json:"order_id" gorm:"type:varchar(64);index;not null"`
	OrderItemID   string     `json:"order_item_id" gorm:"type:varchar(64)"`
	Quantity      int        `json:"quantity" gorm:"not null"`
	Status        string     `json:"status" gorm:"type:varchar(20);index;not null;default:'reserved'"`
	ExpiresAt     time.Time  `json:"expires_at" gorm:"index;not null"`
	ConfirmedAt   *time.Time `json:"confirmed_at"`
	ReleasedAt    *time.Time `json:"released_at"`
	ReleaseReason string     `json:"release_reason,omitempty" gorm:"type:varchar(100)"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// IsActive reports whether the reservation still holds stock
func (r *StockReservation) IsActive() bool {
	return r.Status == ReservationStatusReserved
}

// IsExpired reports whether an active reservation is past its deadline
func (r *StockReservation) IsExpired(now time.Time) bool {
	return r.IsActive() && now.After(r.ExpiresAt)
}

// Confirm transitions the reservation to confirmed. Returns false if the
// reservation already left the reserved state.
func (r *StockReservation) Confirm(now time.Time) bool {
	if !r.IsActive() {
		return false
	}
	r.Status = ReservationStatusConfirmed
	r.ConfirmedAt = &now
	return true
}

// Release transitions the reservation to released with the given reason.
// Returns false if the reservation already left the reserved state.
func (r *StockReservation) Release(now time.Time, reason string) bool {
	if !r.IsActive() {
		return false
	}
	r.Status = ReservationStatusReleased
	r.ReleasedAt = &now
	r.ReleaseReason = reason
	return true
}

// Expire transitions the reservation to expired, the sweeper's variant of
// release. Returns false if the reservation already left the reserved state.
func (r *StockReservation) Expire(now time.Time) bool {
	if !r.IsActive() {
		return false
	}
	r.Status = ReservationStatusExpired
	r.ReleasedAt = &now
	r.ReleaseReason = ReleaseReasonExpired
	return true
}
