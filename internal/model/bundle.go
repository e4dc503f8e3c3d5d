package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SizeBreakdown maps a size label to the number of units of that size packed
// into one factory bundle. Stored as a JSON column.
type SizeBreakdown map[string]int

// Value implements driver.Valuer
func (s SizeBreakdown) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner
func (s *SizeBreakdown) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into SizeBreakdown", value)
	}
	return json.Unmarshal(data, s)
}

// BundleConfig describes the fixed multi-size bundle a factory ships for a
// product. Replenishing any one size means receiving every size in the
// breakdown at once.
type BundleConfig struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	ProductID      string          `json:"product_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	BundleName     string          `json:"bundle_name" gorm:"type:varchar(100);not null"`
	TotalUnits     int             `json:"total_units" gorm:"not null"`
	SizeBreakdown  SizeBreakdown   `json:"size_breakdown" gorm:"type:jsonb"`
	BundleCost     decimal.Decimal `json:"bundle_cost" gorm:"type:decimal(12,2)"`
	MinBundleOrder int             `json:"min_bundle_order" gorm:"not null;default:1"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"deleted_at,omitempty" gorm:"index"`
}

// UnitsFor returns the units of the given size packed into one bundle
func (b *BundleConfig) UnitsFor(size string) int {
	return b.SizeBreakdown[size]
}
