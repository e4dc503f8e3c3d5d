package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"warehouse-service/internal/model"
	"warehouse-service/prometheus"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseOrderItemRequest is one line of a new purchase order
type PurchaseOrderItemRequest struct {
	ProductID  string
	VariantID  string
	SKU        string
	TotalUnits int
	UnitCost   decimal.Decimal
}

// CreatePurchaseOrderRequest opens a purchase order against a supplier
type CreatePurchaseOrderRequest struct {
	PONumber   string
	SupplierID string
	Items      []PurchaseOrderItemRequest
}

// ReceiveItemDelivery reports one item's units arriving on the dock.
// ReceivedUnits includes the damaged ones; only the difference is stocked.
type ReceiveItemDelivery struct {
	ItemID        uint
	ReceivedUnits int
	DamagedUnits  int
}

// ReceiveResult reports the purchase order's cumulative totals after a
// delivery is applied
type ReceiveResult struct {
	TotalReceived int    `json:"total_received"`
	TotalDamaged  int    `json:"total_damaged"`
	Status        string `json:"status"`
}

// CreatePurchaseOrder opens a purchase order with its items in one
// transaction. The total cost is the sum of each line's units times unit
// cost.
func (s *Service) CreatePurchaseOrder(ctx context.Context, req CreatePurchaseOrderRequest) (*model.PurchaseOrder, error) {
	if req.PONumber == "" {
		return nil, &ValidationError{Field: "po_number", Reason: "must not be empty"}
	}
	if req.SupplierID == "" {
		return nil, &ValidationError{Field: "supplier_id", Reason: "must not be empty"}
	}
	if len(req.Items) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	for i, item := range req.Items {
		if item.ProductID == "" {
			return nil, &ValidationError{Field: "items", Reason: fmt.Sprintf("item %d: product_id must not be empty", i)}
		}
		if item.TotalUnits <= 0 {
			return nil, &ValidationError{Field: "items", Reason: fmt.Sprintf("item %d: total_units must be positive", i)}
		}
	}

	var po *model.PurchaseOrder
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.PurchaseOrder{}).Where("po_number = ?", req.PONumber).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateRecord
		}

		items := make([]model.PurchaseOrderItem, 0, len(req.Items))
		totalCost := decimal.Zero
		for _, item := range req.Items {
			line := model.PurchaseOrderItem{
				ProductID:  item.ProductID,
				VariantID:  item.VariantID,
				SKU:        item.SKU,
				TotalUnits: item.TotalUnits,
				UnitCost:   item.UnitCost,
				Status:     model.POItemStatusPending,
			}
			totalCost = totalCost.Add(line.LineCost())
			items = append(items, line)
		}

		po = &model.PurchaseOrder{
			ID:         uuid.New().String(),
			PONumber:   req.PONumber,
			SupplierID: req.SupplierID,
			Status:     model.PurchaseOrderStatusPending,
			TotalCost:  totalCost,
			OrderedAt:  time.Now(),
			Items:      items,
		}
		if err := tx.Create(po).Error; err != nil {
			return err
		}

		return stageEvent(tx, model.EventPurchaseOrderCreated, model.AggregatePurchaseOrder, po.ID, PurchaseOrderCreatedEvent{
			PurchaseOrderID: po.ID,
			PONumber:        po.PONumber,
			SupplierID:      po.SupplierID,
			ItemCount:       len(po.Items),
			TotalCost:       po.TotalCost.String(),
		})
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}

// GetPurchaseOrder reads a purchase order with its items
func (s *Service) GetPurchaseOrder(ctx context.Context, purchaseOrderID string) (*model.PurchaseOrder, error) {
	var po model.PurchaseOrder
	err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", purchaseOrderID).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPurchaseOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &po, nil
}

// Receive applies a delivery to a purchase order: item counters accumulate,
// good units land on the ledger with a movement, grosir excess grows, and
// the order status is recomputed from the full item set. The whole delivery
// commits or rolls back as one unit.
func (s *Service) Receive(ctx context.Context, purchaseOrderID string, deliveries []ReceiveItemDelivery) (*ReceiveResult, error) {
	ctx, span := tracer.Start(ctx, "inventory.Receive")
	defer span.End()

	if len(deliveries) == 0 {
		return nil, &ValidationError{Field: "items", Reason: "must not be empty"}
	}
	for i, d := range deliveries {
		if d.ReceivedUnits <= 0 {
			return nil, &ValidationError{Field: "items", Reason: fmt.Sprintf("item %d: received_units must be positive", i)}
		}
		if d.DamagedUnits < 0 {
			return nil, &ValidationError{Field: "items", Reason: fmt.Sprintf("item %d: damaged_units must not be negative", i)}
		}
		if d.DamagedUnits > d.ReceivedUnits {
			return nil, &ValidationError{Field: "items", Reason: fmt.Sprintf("item %d: damaged_units exceeds received_units", i)}
		}
	}

	var result *ReceiveResult
	var touched [][2]string
	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		touched = nil
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var po model.PurchaseOrder
			if err := tx.Preload("Items").Where("id = ?", purchaseOrderID).First(&po).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrPurchaseOrderNotFound
				}
				return err
			}
			if po.Status == model.PurchaseOrderStatusCancelled {
				return ErrPurchaseOrderCancelled
			}

			itemsByID := make(map[uint]*model.PurchaseOrderItem, len(po.Items))
			for i := range po.Items {
				itemsByID[po.Items[i].ID] = &po.Items[i]
			}

			now := time.Now()
			for _, d := range deliveries {
				item, ok := itemsByID[d.ItemID]
				if !ok {
					return &ValidationError{Field: "item_id", Reason: fmt.Sprintf("item %d does not belong to purchase order %s", d.ItemID, po.PONumber)}
				}

				item.ApplyDelivery(d.ReceivedUnits, d.DamagedUnits)
				if err := tx.Model(&model.PurchaseOrderItem{}).
					Where("id = ?", item.ID).
					Updates(map[string]interface{}{
						"received_units": item.ReceivedUnits,
						"damaged_units":  item.DamagedUnits,
						"status":         item.Status,
					}).Error; err != nil {
					return err
				}

				good := d.ReceivedUnits - d.DamagedUnits
				if good > 0 {
					if err := s.applyReceivedStock(tx, item, good, po.ID, now); err != nil {
						return err
					}
					if err := s.growTolerance(tx, item.ProductID, item.VariantID, good, now); err != nil {
						return err
					}
					touched = append(touched, [2]string{item.ProductID, item.VariantID})
				}
			}

			po.RecomputeStatus(now)
			if err := tx.Model(&model.PurchaseOrder{}).
				Where("id = ?", po.ID).
				Updates(map[string]interface{}{
					"status":      po.Status,
					"received_at": po.ReceivedAt,
				}).Error; err != nil {
				return err
			}

			if err := stageEvent(tx, model.EventPurchaseOrderReceived, model.AggregatePurchaseOrder, po.ID, PurchaseOrderReceivedEvent{
				PurchaseOrderID: po.ID,
				PONumber:        po.PONumber,
				TotalReceived:   po.TotalReceivedUnits(),
				TotalDamaged:    po.TotalDamagedUnits(),
				Status:          po.Status,
			}); err != nil {
				return err
			}

			result = &ReceiveResult{
				TotalReceived: po.TotalReceivedUnits(),
				TotalDamaged:  po.TotalDamagedUnits(),
				Status:        po.Status,
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
		for _, d := range deliveries {
			prometheus.UnitsReceivedCounter.Add(float64(d.ReceivedUnits))
			prometheus.UnitsDamagedCounter.Add(float64(d.DamagedUnits))
		}
		for _, pair := range touched {
			s.invalidateStatus(ctx, pair[0], pair[1])
		}
		return result, nil
	}
	return nil, ErrConcurrencyConflict
}

// applyReceivedStock lands good units on the ledger under the version guard
// and appends the purchase_order movement.
func (s *Service) applyReceivedStock(tx *gorm.DB, item *model.PurchaseOrderItem, good int, purchaseOrderID string, now time.Time) error {
	var rec model.InventoryRecord
	if err := tx.Where("product_id = ? AND variant_id = ?", item.ProductID, item.VariantID).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotConfigured
		}
		return err
	}

	prevVersion := rec.Version
	prevQuantity := rec.Quantity
	if err := rec.AddStock(good); err != nil {
		return err
	}

	upd := tx.Model(&model.InventoryRecord{}).
		Where("id = ? AND version = ?", rec.ID, prevVersion).
		Updates(map[string]interface{}{
			"quantity":           rec.Quantity,
			"available_quantity": rec.AvailableQuantity,
			"version":            prevVersion + 1,
			"last_restocked_at":  now,
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
		MovementType:   model.MovementTypePurchaseOrder,
		QuantityBefore: prevQuantity,
		QuantityChange: good,
		QuantityAfter:  rec.Quantity,
		ReferenceType:  model.ReferenceTypePurchaseOrder,
		ReferenceID:    purchaseOrderID,
	}
	if err := tx.Create(&movement).Error; err != nil {
		return err
	}

	if rec.AvailableQuantity > rec.MinStockLevel {
		if err := resolveOpenAlerts(tx, rec.ID, now); err != nil {
			return err
		}
	}

	return stageEvent(tx, model.EventInventoryRestocked, model.AggregateInventory, rec.ProductID, RestockedEvent{
		ProductID:      rec.ProductID,
		VariantID:      rec.VariantID,
		Quantity:       good,
		AvailableAfter: rec.AvailableQuantity,
		ReferenceType:  model.ReferenceTypePurchaseOrder,
		ReferenceID:    purchaseOrderID,
	})
}

// growTolerance adds received units to the variant's excess counter and
// locks the variant when the limit is crossed. Products without a tolerance
// row are skipped.
func (s *Service) growTolerance(tx *gorm.DB, productID, variantID string, good int, now time.Time) error {
	var tol model.GrosirTolerance
	err := tx.Where("product_id = ? AND variant_id = ?", productID, variantID).First(&tol).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	tol.AddExcess(good)
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
