package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"warehouse-service/internal/model"
	"warehouse-service/prometheus"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OverflowVariant describes one size whose excess would exceed its
// tolerance if a full bundle were restocked
type OverflowVariant struct {
	Size           string `json:"size"`
	VariantID      string `json:"variant_id"`
	CurrentExcess  int    `json:"current_excess"`
	UnitsInBundle  int    `json:"units_in_bundle"`
	AfterBundle    int    `json:"after_bundle"`
	MaxExcessUnits int    `json:"max_excess_units"`
}

// BundleCheckResult answers whether a variant can be ordered given grosir
// tolerances. CanOrder false with OverflowVariants means restocking the
// bundle would push those sizes past their excess limits.
type BundleCheckResult struct {
	IsLocked         bool              `json:"is_locked"`
	CanOrder         bool              `json:"can_order"`
	Reason           string            `json:"reason"`
	OverflowVariants []OverflowVariant `json:"overflow_variants,omitempty"`
}

// VariantOverflowStatus is the per-size view of orderability for a bundled
// product
type VariantOverflowStatus struct {
	Size              string `json:"size"`
	VariantID         string `json:"variant_id"`
	IsLocked          bool   `json:"is_locked"`
	CanOrder          bool   `json:"can_order"`
	Reason            string `json:"reason"`
	AvailableQuantity int    `json:"available_quantity"`
}

// CreateBundleRequest registers the wholesale composition of a product
type CreateBundleRequest struct {
	ProductID      string
	BundleName     string
	TotalUnits     int
	SizeBreakdown  model.SizeBreakdown
	BundleCost     decimal.Decimal
	MinBundleOrder int
}

// UpsertToleranceRequest sets the excess limit for one (product, variant).
// CurrentExcess is optional; when nil the existing counter is kept.
type UpsertToleranceRequest struct {
	ProductID      string
	VariantID      string
	MaxExcessUnits int
	CurrentExcess  *int
}

// CheckBundleOverflow decides whether one variant of a grosir product can
// be ordered. A variant with stock on hand needs no restock and passes
// immediately; otherwise restocking means buying a whole bundle, and every
// size in the bundle must stay within its excess tolerance.
func (s *Service) CheckBundleOverflow(ctx context.Context, productID, variantID string) (*BundleCheckResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.CheckBundleOverflow")
	defer span.End()

	db := s.db.WithContext(ctx)

	var tol model.GrosirTolerance
	err := db.Where("product_id = ? AND variant_id = ?", productID, variantID).First(&tol).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && tol.IsLocked {
		return &BundleCheckResult{
			IsLocked: true,
			CanOrder: false,
			Reason:   tol.LockedReason,
		}, nil
	}

	var rec model.InventoryRecord
	err = db.Where("product_id = ? AND variant_id = ?", productID, variantID).First(&rec).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && rec.AvailableQuantity > 0 {
		return &BundleCheckResult{CanOrder: true, Reason: "stock available"}, nil
	}

	var bundle model.BundleConfig
	err = db.Where("product_id = ?", productID).First(&bundle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &BundleCheckResult{CanOrder: true, Reason: "no bundle composition configured"}, nil
	}
	if err != nil {
		return nil, err
	}

	overflows, err := s.simulateBundleRestock(db, productID, &bundle)
	if err != nil {
		return nil, err
	}
	if len(overflows) > 0 {
		return &BundleCheckResult{
			CanOrder:         false,
			Reason:           overflowReason(overflows),
			OverflowVariants: overflows,
		}, nil
	}
	return &BundleCheckResult{CanOrder: true, Reason: "bundle restock within tolerance"}, nil
}

// CheckAllVariantsOverflow reports orderability for every size of a bundled
// product in one pass, sorted by size for stable output.
func (s *Service) CheckAllVariantsOverflow(ctx context.Context, productID string) ([]VariantOverflowStatus, error) {
	ctx, span := tracer.Start(ctx, "inventory.CheckAllVariantsOverflow")
	defer span.End()

	db := s.db.WithContext(ctx)

	var bundle model.BundleConfig
	err := db.Where("product_id = ?", productID).First(&bundle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}

	tolerances, err := s.loadTolerances(db, productID)
	if err != nil {
		return nil, err
	}

	var records []model.InventoryRecord
	if err := db.Where("product_id = ?", productID).Find(&records).Error; err != nil {
		return nil, err
	}
	available := make(map[string]int, len(records))
	for _, rec := range records {
		available[rec.VariantID] = rec.AvailableQuantity
	}

	overflows, err := s.simulateBundleRestock(db, productID, &bundle)
	if err != nil {
		return nil, err
	}
	blockReason := overflowReason(overflows)

	statuses := make([]VariantOverflowStatus, 0, len(bundle.SizeBreakdown))
	for _, size := range sortedSizes(bundle.SizeBreakdown) {
		status := VariantOverflowStatus{
			Size:              size,
			VariantID:         size,
			AvailableQuantity: available[size],
		}
		tol, hasTol := tolerances[size]
		switch {
		case hasTol && tol.IsLocked:
			status.IsLocked = true
			status.CanOrder = false
			status.Reason = tol.LockedReason
		case available[size] > 0:
			status.CanOrder = true
			status.Reason = "stock available"
		case len(overflows) > 0:
			status.CanOrder = false
			status.Reason = blockReason
		default:
			status.CanOrder = true
			status.Reason = "bundle restock within tolerance"
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

// simulateBundleRestock applies one bundle on top of current excess levels
// and collects every size that would land past its limit. Sizes without a
// tolerance row have no cap and cannot overflow.
func (s *Service) simulateBundleRestock(db *gorm.DB, productID string, bundle *model.BundleConfig) ([]OverflowVariant, error) {
	tolerances, err := s.loadTolerances(db, productID)
	if err != nil {
		return nil, err
	}

	var overflows []OverflowVariant
	for _, size := range sortedSizes(bundle.SizeBreakdown) {
		units := bundle.UnitsFor(size)
		tol, ok := tolerances[size]
		if !ok {
			continue
		}
		if tol.WouldOverflow(units) {
			overflows = append(overflows, OverflowVariant{
				Size:           size,
				VariantID:      tol.VariantID,
				CurrentExcess:  tol.CurrentExcess,
				UnitsInBundle:  units,
				AfterBundle:    tol.CurrentExcess + units,
				MaxExcessUnits: tol.MaxExcessUnits,
			})
		}
	}
	return overflows, nil
}

func (s *Service) loadTolerances(db *gorm.DB, productID string) (map[string]model.GrosirTolerance, error) {
	var rows []model.GrosirTolerance
	if err := db.Where("product_id = ?", productID).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]model.GrosirTolerance, len(rows))
	for _, row := range rows {
		out[row.VariantID] = row
	}
	return out, nil
}

func sortedSizes(breakdown model.SizeBreakdown) []string {
	sizes := make([]string, 0, len(breakdown))
	for size := range breakdown {
		sizes = append(sizes, size)
	}
	sort.Strings(sizes)
	return sizes
}

func overflowReason(overflows []OverflowVariant) string {
	if len(overflows) == 0 {
		return ""
	}
	sizes := make([]string, 0, len(overflows))
	for _, o := range overflows {
		sizes = append(sizes, o.Size)
	}
	return fmt.Sprintf("restocking bundle would exceed tolerance for sizes: %s", strings.Join(sizes, ", "))
}

// CreateBundleConfig registers a product's wholesale composition. TotalUnits
// may be zero, in which case it is derived from the size breakdown.
func (s *Service) CreateBundleConfig(ctx context.Context, req CreateBundleRequest) (*model.BundleConfig, error) {
	if req.ProductID == "" {
		return nil, &ValidationError{Field: "product_id", Reason: "must not be empty"}
	}
	if len(req.SizeBreakdown) == 0 {
		return nil, &ValidationError{Field: "size_breakdown", Reason: "must not be empty"}
	}

	sum := 0
	for size, units := range req.SizeBreakdown {
		if units <= 0 {
			return nil, &ValidationError{Field: "size_breakdown", Reason: fmt.Sprintf("units for size %q must be positive", size)}
		}
		sum += units
	}
	if req.TotalUnits == 0 {
		req.TotalUnits = sum
	} else if req.TotalUnits != sum {
		return nil, &ValidationError{Field: "total_units", Reason: fmt.Sprintf("does not match size breakdown sum %d", sum)}
	}
	if req.MinBundleOrder <= 0 {
		req.MinBundleOrder = 1
	}

	var bundle *model.BundleConfig
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.BundleConfig{}).Where("product_id = ?", req.ProductID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRecord
		}

		bundle = &model.BundleConfig{
			ProductID:      req.ProductID,
			BundleName:     req.BundleName,
			TotalUnits:     req.TotalUnits,
			SizeBreakdown:  req.SizeBreakdown,
			BundleCost:     req.BundleCost,
			MinBundleOrder: req.MinBundleOrder,
		}
		return tx.Create(bundle).Error
	})
	if err != nil {
		return nil, err
	}
	return bundle, nil
}

// GetBundleConfig reads a product's wholesale composition
func (s *Service) GetBundleConfig(ctx context.Context, productID string) (*model.BundleConfig, error) {
	var bundle model.BundleConfig
	err := s.db.WithContext(ctx).Where("product_id = ?", productID).First(&bundle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotConfigured
	}
	if err != nil {
		return nil, err
	}
	return &bundle, nil
}

// UpsertTolerance creates or updates the excess limit for a (product,
// variant). Tightening the limit can lock the variant on the spot, and
// loosening it can unlock; both transitions stage an event.
func (s *Service) UpsertTolerance(ctx context.Context, req UpsertToleranceRequest) (*model.GrosirTolerance, error) {
	if req.ProductID == "" {
		return nil, &ValidationError{Field: "product_id", Reason: "must not be empty"}
	}
	if req.MaxExcessUnits < 0 {
		return nil, &ValidationError{Field: "max_excess_units", Reason: "must not be negative"}
	}
	if req.CurrentExcess != nil && *req.CurrentExcess < 0 {
		return nil, &ValidationError{Field: "current_excess", Reason: "must not be negative"}
	}

	var tol model.GrosirTolerance
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		err := tx.Where("product_id = ? AND variant_id = ?", req.ProductID, req.VariantID).First(&tol).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if errors.Is(err, gorm.ErrRecordNotFound) {
			tol = model.GrosirTolerance{
				ProductID:      req.ProductID,
				VariantID:      req.VariantID,
				MaxExcessUnits: req.MaxExcessUnits,
			}
			if req.CurrentExcess != nil {
				tol.CurrentExcess = *req.CurrentExcess
			}
			changed, locked := tol.RecalculateLock(now)
			if err := tx.Create(&tol).Error; err != nil {
				return err
			}
			if changed {
				return s.stageLockTransition(tx, &tol, locked)
			}
			return nil
		}

		tol.MaxExcessUnits = req.MaxExcessUnits
		if req.CurrentExcess != nil {
			tol.CurrentExcess = *req.CurrentExcess
		}
		changed, locked := tol.RecalculateLock(now)
		if err := tx.Model(&model.GrosirTolerance{}).
			Where("id = ?", tol.ID).
			Updates(map[string]interface{}{
				"max_excess_units": tol.MaxExcessUnits,
				"current_excess":   tol.CurrentExcess,
				"is_locked":        tol.IsLocked,
				"locked_reason":    tol.LockedReason,
				"locked_at":        tol.LockedAt,
			}).Error; err != nil {
			return err
		}
		if changed {
			return s.stageLockTransition(tx, &tol, locked)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tol, nil
}

func (s *Service) stageLockTransition(tx *gorm.DB, tol *model.GrosirTolerance, locked bool) error {
	eventType := model.EventVariantUnlocked
	action := "unlocked"
	if locked {
		eventType = model.EventVariantLocked
		action = "locked"
	}
	prometheus.RecordVariantLock(action)
	return stageEvent(tx, eventType, model.AggregateVariant, tol.ProductID+":"+tol.VariantID, VariantLockEvent{
		ProductID:      tol.ProductID,
		VariantID:      tol.VariantID,
		CurrentExcess:  tol.CurrentExcess,
		MaxExcessUnits: tol.MaxExcessUnits,
		Reason:         tol.LockedReason,
		Locked:         locked,
	})
}
