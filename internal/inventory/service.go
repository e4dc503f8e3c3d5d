package inventory

import (
	"context"
	"errors"
	"time"

	"warehouse-service/internal/model"
	"warehouse-service/pkg/cache"
	"warehouse-service/prometheus"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxUpdateAttempts bounds the optimistic-lock retry loop. Conflicts are
// rare and transactions are short, so no backoff between attempts.
const maxUpdateAttempts = 3

var tracer = otel.Tracer("warehouse-service/inventory")

// Service is the inventory reservation and grosir overflow engine. Every
// public operation runs in a single database transaction; correctness under
// concurrent demand is delegated to the version column on the ledger, so
// the service holds no locks and no state between calls.
type Service struct {
	db    *gorm.DB
	cache *cache.Cache
	ttl   time.Duration
}

// NewService creates the engine over a database handle. statusCache may be
// nil to run without the read cache. reservationTTL is the hold duration
// applied to new reservations.
func NewService(db *gorm.DB, statusCache *cache.Cache, reservationTTL time.Duration) *Service {
	return &Service{
		db:    db,
		cache: statusCache,
		ttl:   reservationTTL,
	}
}

// ReserveRequest identifies the stock to hold and the order holding it
type ReserveRequest struct {
	ProductID   string
	VariantID   string
	Quantity    int
	OrderID     string
	OrderItemID string
}

// ReserveResult reports the outcome of a reserve call. Reserved false with
// a Shortage is a business outcome, not an error: the caller asked for more
// than is available.
type ReserveResult struct {
	Reserved       bool   `json:"reserved"`
	ReservationID  string `json:"reservation_id,omitempty"`
	AvailableAfter int    `json:"available_after"`
	Shortage       int    `json:"shortage,omitempty"`
}

// ReleaseResult reports the quantity credited back and the resulting
// available stock
type ReleaseResult struct {
	Quantity       int    `json:"quantity"`
	AvailableAfter int    `json:"available_after"`
	Status         string `json:"status"`
}

// ConfirmResult reports the quantity deducted and the remaining counters
type ConfirmResult struct {
	Quantity          int `json:"quantity"`
	RemainingQuantity int `json:"remaining_quantity"`
	ReservedAfter     int `json:"reserved_after"`
}

// StatusResult is the inventory status view served to ordering flows
type StatusResult struct {
	Status            string `json:"status"`
	Quantity          int    `json:"quantity"`
	AvailableQuantity int    `json:"available_quantity"`
	ReservedQuantity  int    `json:"reserved_quantity"`
}

// CreateInventoryRequest provisions a new ledger row
type CreateInventoryRequest struct {
	ProductID     string
	VariantID     string
	SKU           string
	Quantity      int
	MinStockLevel int
	MaxStockLevel int
	ReorderPoint  int
}

// AdjustRequest is a signed manual stock correction
type AdjustRequest struct {
	ProductID string
	VariantID string
	Delta     int
	Reason    string
}

// AdjustResult reports the counters after a manual correction
type AdjustResult struct {
	Quantity          int `json:"quantity"`
	AvailableQuantity int `json:"available_quantity"`
}

// Reserve places a hold on available stock for an order. It retries lost
// version races up to maxUpdateAttempts times and returns
// ErrConcurrencyConflict once exhausted.
func (s *Service) Reserve(ctx context.Context, req ReserveRequest) (*ReserveResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.Reserve")
	defer span.End()

	if req.ProductID == "" {
		return nil, &ValidationError{Field: "product_id", Reason: "must not be empty"}
	}
	if req.OrderID == "" {
		return nil, &ValidationError{Field: "order_id", Reason: "must not be empty"}
	}
	if req.Quantity <= 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must be positive"}
	}

	var result *ReserveResult
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.reserveTx(tx, req, &result)
		})
		if errors.Is(err, errVersionConflict) {
			prometheus.ConcurrencyConflictCounter.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}
		if result.Reserved {
			s.invalidateStatus(ctx, req.ProductID, req.VariantID)
		}
		return result, nil
	}
	return nil, ErrConcurrencyConflict
}

func (s *Service) reserveTx(tx *gorm.DB, req ReserveRequest, out **ReserveResult) error {
	var rec model.InventoryRecord
	if err := tx.Where("product_id = ? AND variant_id = ?", req.ProductID, req.VariantID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotConfigured
		}
		return err
	}

	if rec.AvailableQuantity < req.Quantity {
		prometheus.InsufficientStockCounter.Inc()
		*out = &ReserveResult{
			Reserved:       false,
			AvailableAfter: rec.AvailableQuantity,
			Shortage:       req.Quantity - rec.AvailableQuantity,
		}
		return nil
	}

	prevVersion := rec.Version
	if err := rec.Reserve(req.Quantity); err != nil {
		return err
	}

	upd := tx.Model(&model.InventoryRecord{}).
		Where("id = ? AND version = ?", rec.ID, prevVersion).
		Updates(map[string]interface{}{
			"available_quantity": rec.AvailableQuantity,
			"reserved_quantity":  rec.ReservedQuantity,
			"version":            prevVersion + 1,
		})
	if upd.Error != nil {
		return upd.Error
	}
	if upd.RowsAffected == 0 {
		return errVersionConflict
	}

	now := time.Now()
	reservation := model.StockReservation{
		ID:          uuid.New().String(),
		InventoryID: rec.ID,
		OrderID:     req.OrderID,
		OrderItemID: req.OrderItemID,
		Quantity:    req.Quantity,
		Status:      model.ReservationStatusReserved,
		ExpiresAt:   now.Add(s.ttl),
	}
	if err := tx.Create(&reservation).Error; err != nil {
		return err
	}

	if err := stageEvent(tx, model.EventInventoryReserved, model.AggregateReservation, reservation.ID, ReservedEvent{
		ReservationID:  reservation.ID,
		OrderID:        req.OrderID,
		OrderItemID:    req.OrderItemID,
		ProductID:      rec.ProductID,
		VariantID:      rec.VariantID,
		Quantity:       req.Quantity,
		AvailableAfter: rec.AvailableQuantity,
		ExpiresAt:      reservation.ExpiresAt,
	}); err != nil {
		return err
	}

	if err := s.stageStockAlert(tx, &rec); err != nil {
		return err
	}

	*out = &ReserveResult{
		Reserved:       true,
		ReservationID:  reservation.ID,
		AvailableAfter: rec.AvailableQuantity,
	}
	return nil
}

// stageStockAlert writes at most one alert per call: out_of_stock when
// nothing is left, else low_stock when at or below the minimum level.
func (s *Service) stageStockAlert(tx *gorm.DB, rec *model.InventoryRecord) error {
	var alertType string
	var threshold int
	switch {
	case rec.AvailableQuantity <= 0:
		alertType = model.AlertTypeOutOfStock
		threshold = 0
	case rec.AvailableQuantity <= rec.MinStockLevel:
		alertType = model.AlertTypeLowStock
		threshold = rec.MinStockLevel
	default:
		return nil
	}

	alert := model.StockAlert{
		InventoryID:     rec.ID,
		ProductID:       rec.ProductID,
		VariantID:       rec.VariantID,
		SKU:             rec.SKU,
		AlertType:       alertType,
		CurrentQuantity: rec.AvailableQuantity,
		Threshold:       threshold,
	}
	if err := tx.Create(&alert).Error; err != nil {
		return err
	}
	prometheus.RecordStockAlert(alertType)

	eventType := model.EventInventoryLowStock
	if alertType == model.AlertTypeOutOfStock {
		eventType = model.EventInventoryOutOfStock
	}
	return stageEvent(tx, eventType, model.AggregateInventory, rec.ProductID, StockAlertEvent{
		ProductID:         rec.ProductID,
		VariantID:         rec.VariantID,
		SKU:               rec.SKU,
		AvailableQuantity: rec.AvailableQuantity,
		Threshold:         threshold,
		AlertType:         alertType,
	})
}

// Release credits a reserved hold back to available stock. Valid only while
// the reservation is still in the reserved state.
func (s *Service) Release(ctx context.Context, reservationID, reason string) (*ReleaseResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.Release")
	defer span.End()
	return s.creditBack(ctx, reservationID, reason, model.ReservationStatusReleased)
}

// expire is the sweeper's variant of Release: same ledger credit, terminal
// status expired instead of released.
func (s *Service) expire(ctx context.Context, reservationID string) (*ReleaseResult, error) {
	return s.creditBack(ctx, reservationID, model.ReleaseReasonExpired, model.ReservationStatusExpired)
}

func (s *Service) creditBack(ctx context.Context, reservationID, reason, toStatus string) (*ReleaseResult, error) {
	verb := "released"
	if toStatus == model.ReservationStatusExpired {
		verb = "expired"
	}

	var result *ReleaseResult
	var productID, variantID string
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var res model.StockReservation
			if err := tx.Where("id = ?", reservationID).First(&res).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReservationNotFound
				}
				return err
			}
			if !res.IsActive() {
				return &StateTransitionError{ReservationID: res.ID, Current: res.Status, Attempted: verb}
			}

			var rec model.InventoryRecord
			if err := tx.Where("id = ?", res.InventoryID).First(&rec).Error; err != nil {
				return err
			}

			prevVersion := rec.Version
			if err := rec.ReleaseHold(res.Quantity); err != nil {
				return err
			}

			upd := tx.Model(&model.InventoryRecord{}).
				Where("id = ? AND version = ?", rec.ID, prevVersion).
				Updates(map[string]interface{}{
					"available_quantity": rec.AvailableQuantity,
					"reserved_quantity":  rec.ReservedQuantity,
					"version":            prevVersion + 1,
				})
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return errVersionConflict
			}

			now := time.Now()
			if toStatus == model.ReservationStatusExpired {
				res.Expire(now)
			} else {
				res.Release(now, reason)
			}

			// Conditional on status too, so a concurrent transition can
			// never credit the same hold twice.
			resUpd := tx.Model(&model.StockReservation{}).
				Where("id = ? AND status = ?", res.ID, model.ReservationStatusReserved).
				Updates(map[string]interface{}{
					"status":         res.Status,
					"released_at":    res.ReleasedAt,
					"release_reason": res.ReleaseReason,
				})
			if resUpd.Error != nil {
				return resUpd.Error
			}
			if resUpd.RowsAffected == 0 {
				return errVersionConflict
			}

			if err := stageEvent(tx, model.EventInventoryReleased, model.AggregateReservation, res.ID, ReleasedEvent{
				ReservationID:  res.ID,
				OrderID:        res.OrderID,
				ProductID:      rec.ProductID,
				VariantID:      rec.VariantID,
				Quantity:       res.Quantity,
				Reason:         res.ReleaseReason,
				Status:         res.Status,
				AvailableAfter: rec.AvailableQuantity,
			}); err != nil {
				return err
			}

			productID, variantID = rec.ProductID, rec.VariantID
			result = &ReleaseResult{
				Quantity:       res.Quantity,
				AvailableAfter: rec.AvailableQuantity,
				Status:         res.Status,
			}
			return nil
		})
		if errors.Is(err, errVersionConflict) {
			prometheus.ConcurrencyConflictCounter.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}
		s.invalidateStatus(ctx, productID, variantID)
		return result, nil
	}
	return nil, ErrConcurrencyConflict
}

// Confirm turns a reserved hold into a physical deduction: quantity and
// reserved both drop, a sale movement is appended, and the matching grosir
// tolerance sheds the confirmed units.
func (s *Service) Confirm(ctx context.Context, reservationID string) (*ConfirmResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.Confirm")
	defer span.End()

	var result *ConfirmResult
	var productID, variantID string
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var res model.StockReservation
			if err := tx.Where("id = ?", reservationID).First(&res).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrReservationNotFound
				}
				return err
			}
			if !res.IsActive() {
				return &StateTransitionError{ReservationID: res.ID, Current: res.Status, Attempted: "confirmed"}
			}

			var rec model.InventoryRecord
			if err := tx.Where("id = ?", res.InventoryID).First(&rec).Error; err != nil {
				return err
			}

			prevVersion := rec.Version
			prevQuantity := rec.Quantity
			if err := rec.ConsumeHold(res.Quantity); err != nil {
				return err
			}

			now := time.Now()
			rec.LastSoldAt = &now
			upd := tx.Model(&model.InventoryRecord{}).
				Where("id = ? AND version = ?", rec.ID, prevVersion).
				Updates(map[string]interface{}{
					"quantity":          rec.Quantity,
					"reserved_quantity": rec.ReservedQuantity,
					"version":           prevVersion + 1,
					"last_sold_at":      now,
				})
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return errVersionConflict
			}

			res.Confirm(now)
			resUpd := tx.Model(&model.StockReservation{}).
				Where("id = ? AND status = ?", res.ID, model.ReservationStatusReserved).
				Updates(map[string]interface{}{
					"status":       res.Status,
					"confirmed_at": res.ConfirmedAt,
				})
			if resUpd.Error != nil {
				return resUpd.Error
			}
			if resUpd.RowsAffected == 0 {
				return errVersionConflict
			}

			movement := model.InventoryMovement{
				InventoryID:    rec.ID,
				ProductID:      rec.ProductID,
				VariantID:      rec.VariantID,
				MovementType:   model.MovementTypeSale,
				QuantityBefore: prevQuantity,
				QuantityChange: -res.Quantity,
				QuantityAfter:  rec.Quantity,
				ReferenceType:  model.ReferenceTypeReservation,
				ReferenceID:    res.ID,
				Note:           "order " + res.OrderID,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}

			if err := stageEvent(tx, model.EventInventoryConfirmed, model.AggregateReservation, res.ID, ConfirmedEvent{
				ReservationID:     res.ID,
				OrderID:           res.OrderID,
				ProductID:         rec.ProductID,
				VariantID:         rec.VariantID,
				Quantity:          res.Quantity,
				RemainingQuantity: rec.Quantity,
			}); err != nil {
				return err
			}

			if err := s.reduceTolerance(tx, rec.ProductID, rec.VariantID, res.Quantity, now); err != nil {
				return err
			}

			productID, variantID = rec.ProductID, rec.VariantID
			result = &ConfirmResult{
				Quantity:          res.Quantity,
				RemainingQuantity: rec.Quantity,
				ReservedAfter:     rec.ReservedQuantity,
			}
			return nil
		})
		if errors.Is(err, errVersionConflict) {
			prometheus.ConcurrencyConflictCounter.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}
		s.invalidateStatus(ctx, productID, variantID)
		return result, nil
	}
	return nil, ErrConcurrencyConflict
}

// reduceTolerance sheds confirmed units from the matching grosir tolerance,
// floored at zero, and clears the lock when the excess drops back under the
// maximum. Products without a tolerance row are skipped.
func (s *Service) reduceTolerance(tx *gorm.DB, productID, variantID string, quantity int, now time.Time) error {
	var tol model.GrosirTolerance
	err := tx.Where("product_id = ? AND variant_id = ?", productID, variantID).First(&tol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	tol.ReduceExcess(quantity)
	changed, locked := tol.RecalculateLock(now)

	if err := tx.Model(&model.GrosirTolerance{}).
		Where("id = ?", tol.ID).
		Updates(map[string]interface{}{
			"current_excess": tol.CurrentExcess,
			"is_locked":      tol.IsLocked,
			"locked_reason":  tol.LockedReason,
			"locked_at":      tol.LockedAt,
		}).Error; err != nil {
		return err
	}

	if changed {
		return s.stageLockTransition(tx, &tol, locked)
	}
	return nil
}

// GetStatus serves the inventory status view, read-through cached. A
// missing ledger row is reported as not_configured, not as an error.
func (s *Service) GetStatus(ctx context.Context, productID, variantID string) (*StatusResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.GetStatus")
	defer span.End()

	key := cache.StockStatusKey(productID, variantID)
	var cached StatusResult
	hit, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		zap.L().Warn("Failed to read stock status cache", zap.String("key", key), zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	var rec model.InventoryRecord
	err = s.db.WithContext(ctx).Where("product_id = ? AND variant_id = ?", productID, variantID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &StatusResult{Status: model.StockStatusNotConfigured}, nil
	}
	if err != nil {
		return nil, err
	}

	result := &StatusResult{
		Status:            rec.StockStatus(),
		Quantity:          rec.Quantity,
		AvailableQuantity: rec.AvailableQuantity,
		ReservedQuantity:  rec.ReservedQuantity,
	}
	if err := s.cache.SetJSON(ctx, key, result); err != nil {
		zap.L().Warn("Failed to cache stock status", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

func (s *Service) invalidateStatus(ctx context.Context, productID, variantID string) {
	if err := s.cache.Delete(ctx, cache.StockStatusKey(productID, variantID)); err != nil {
		zap.L().Warn("Failed to invalidate stock status cache",
			zap.String("product_id", productID),
			zap.String("variant_id", variantID),
			zap.Error(err))
	}
}

// CreateInventory provisions the ledger row for a (product, variant) pair.
// Initial stock is recorded as a movement so the audit trail starts at zero.
func (s *Service) CreateInventory(ctx context.Context, req CreateInventoryRequest) (*model.InventoryRecord, error) {
	if req.ProductID == "" {
		return nil, &ValidationError{Field: "product_id", Reason: "must not be empty"}
	}
	if req.Quantity < 0 {
		return nil, &ValidationError{Field: "quantity", Reason: "must not be negative"}
	}

	var rec *model.InventoryRecord
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.InventoryRecord{}).
			Where("product_id = ? AND variant_id = ?", req.ProductID, req.VariantID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRecord
		}

		now := time.Now()
		rec = &model.InventoryRecord{
			ProductID:         req.ProductID,
			VariantID:         req.VariantID,
			SKU:               req.SKU,
			Quantity:          req.Quantity,
			AvailableQuantity: req.Quantity,
			MinStockLevel:     req.MinStockLevel,
			MaxStockLevel:     req.MaxStockLevel,
			ReorderPoint:      req.ReorderPoint,
		}
		if req.Quantity > 0 {
			rec.LastRestockedAt = &now
		}
		if err := tx.Create(rec).Error; err != nil {
			return err
		}

		if req.Quantity > 0 {
			movement := model.InventoryMovement{
				InventoryID:    rec.ID,
				ProductID:      rec.ProductID,
				VariantID:      rec.VariantID,
				MovementType:   model.MovementTypeInitial,
				QuantityBefore: 0,
				QuantityChange: req.Quantity,
				QuantityAfter:  req.Quantity,
				ReferenceType:  model.ReferenceTypeManual,
				Note:           "initial stock",
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Adjust applies a signed manual correction to physical stock, guarded
// against driving any counter negative.
func (s *Service) Adjust(ctx context.Context, req AdjustRequest) (*AdjustResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.Adjust")
	defer span.End()

	if req.Delta == 0 {
		return nil, &ValidationError{Field: "delta", Reason: "must not be zero"}
	}

	var result *AdjustResult
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var rec model.InventoryRecord
			if err := tx.Where("product_id = ? AND variant_id = ?", req.ProductID, req.VariantID).First(&rec).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotConfigured
				}
				return err
			}

			prevVersion := rec.Version
			prevQuantity := rec.Quantity
			if err := rec.AdjustStock(req.Delta); err != nil {
				return err
			}

			upd := tx.Model(&model.InventoryRecord{}).
				Where("id = ? AND version = ?", rec.ID, prevVersion).
				Updates(map[string]interface{}{
					"quantity":           rec.Quantity,
					"available_quantity": rec.AvailableQuantity,
					"version":            prevVersion + 1,
				})
			if upd.Error != nil {
				return upd.Error
			}
			if upd.RowsAffected == 0 {
				return errVersionConflict
			}

			movement := model.InventoryMovement{
				InventoryID:    rec.ID,
				ProductID:      rec.ProductID,
				VariantID:      rec.VariantID,
				MovementType:   model.MovementTypeAdjustment,
				QuantityBefore: prevQuantity,
				QuantityChange: req.Delta,
				QuantityAfter:  rec.Quantity,
				ReferenceType:  model.ReferenceTypeManual,
				Note:           req.Reason,
			}
			if err := tx.Create(&movement).Error; err != nil {
				return err
			}

			if rec.AvailableQuantity > rec.MinStockLevel {
				if err := resolveOpenAlerts(tx, rec.ID, time.Now()); err != nil {
					return err
				}
			} else if err := s.stageStockAlert(tx, &rec); err != nil {
				return err
			}

			result = &AdjustResult{
				Quantity:          rec.Quantity,
				AvailableQuantity: rec.AvailableQuantity,
			}
			return nil
		})
		if errors.Is(err, errVersionConflict) {
			prometheus.ConcurrencyConflictCounter.Inc()
			continue
		}
		if err != nil {
			return nil, err
		}
		s.invalidateStatus(ctx, req.ProductID, req.VariantID)
		return result, nil
	}
	return nil, ErrConcurrencyConflict
}

func resolveOpenAlerts(tx *gorm.DB, inventoryID uint, now time.Time) error {
	return tx.Model(&model.StockAlert{}).
		Where("inventory_id = ? AND is_resolved = ?", inventoryID, false).
		Updates(map[string]interface{}{
			"is_resolved": true,
			"resolved_at": now,
		}).Error
}

// GetReservation reads one reservation by ID
func (s *Service) GetReservation(ctx context.Context, reservationID string) (*model.StockReservation, error) {
	var res model.StockReservation
	err := s.db.WithContext(ctx).Where("id = ?", reservationID).First(&res).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListMovements returns the most recent movements for a product, newest first
func (s *Service) ListMovements(ctx context.Context, productID string, limit int) ([]model.InventoryMovement, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var movements []model.InventoryMovement
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id desc").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}

// ListAlerts returns stock alerts, optionally filtered by resolution state,
// newest first
func (s *Service) ListAlerts(ctx context.Context, resolved *bool, limit int) ([]model.StockAlert, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	query := s.db.WithContext(ctx).Model(&model.StockAlert{})
	if resolved != nil {
		query = query.Where("is_resolved = ?", *resolved)
	}
	var alerts []model.StockAlert
	err := query.Order("id desc").Limit(limit).Find(&alerts).Error
	return alerts, err
}
