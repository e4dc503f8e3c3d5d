package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// GrosirTolerance tracks the permitted surplus stock of one size of a
// product, a side effect of bundle ordering. CurrentExcess grows on receipt
// and shrinks on confirmed sale; the lock state is always recomputed from
// the counters, never set by hand.
type GrosirTolerance struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	ProductID      string         `json:"product_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_tolerance_product_variant"`
	VariantID      string         `json:"variant_id" gorm:"type:varchar(64);not null;uniqueIndex:idx_tolerance_product_variant"` // the size label
	MaxExcessUnits int            `json:"max_excess_units" gorm:"not null;default:0"`
	CurrentExcess  int            `json:"current_excess" gorm:"not null;default:0"`
	IsLocked       bool           `json:"is_locked" gorm:"not null;default:false"`
	LockedReason   string         `json:"locked_reason,omitempty" gorm:"type:varchar(255)"`
	LockedAt       *time.Time     `json:"locked_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// AddExcess credits received units to the tracked surplus
func (t *GrosirTolerance) AddExcess(units int) {
	if units <= 0 {
		return
	}
	t.CurrentExcess += units
}

// ReduceExcess debits sold units from the tracked surplus, floored at zero
func (t *GrosirTolerance) ReduceExcess(units int) {
	if units <= 0 {
		return
	}
	t.CurrentExcess -= units
	if t.CurrentExcess < 0 {
		t.CurrentExcess = 0
	}
}

// WouldOverflow reports whether receiving the given units on top of the
// current excess would exceed the configured maximum. Landing exactly at the
// maximum is allowed.
func (t *GrosirTolerance) WouldOverflow(units int) bool {
	return t.CurrentExcess+units > t.MaxExcessUnits
}

// RecalculateLock re-derives the lock state from the counters. It returns
// whether the state changed and the resulting locked flag, so callers can
// emit the matching lock/unlock event.
func (t *GrosirTolerance) RecalculateLock(now time.Time) (changed bool, locked bool) {
	over := t.CurrentExcess > t.MaxExcessUnits
	if over && !t.IsLocked {
		t.IsLocked = true
		t.LockedReason = fmt.Sprintf("excess stock %d exceeds maximum %d", t.CurrentExcess, t.MaxExcessUnits)
		t.LockedAt = &now
		return true, true
	}
	if !over && t.IsLocked {
		t.IsLocked = false
		t.LockedReason = ""
		t.LockedAt = nil
		return true, false
	}
	return false, t.IsLocked
}
