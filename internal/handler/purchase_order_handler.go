package handler

import (
	"net/http"
	"time"

	"warehouse-service/internal/inventory"
	"warehouse-service/pkg/logger"
	"warehouse-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PurchaseOrderItemRequest is one line of a purchase order creation request
type PurchaseOrderItemRequest struct {
	ProductID  string `json:"product_id" validate:"required"`
	VariantID  string `json:"variant_id"`
	SKU        string `json:"sku"`
	TotalUnits int    `json:"total_units" validate:"required,gt=0"`
	UnitCost   string `json:"unit_cost"`
}

// PurchaseOrderRequest defines the structure for purchase order creation
type PurchaseOrderRequest struct {
	PONumber   string                     `json:"po_number" validate:"required"`
	SupplierID string                     `json:"supplier_id" validate:"required"`
	Items      []PurchaseOrderItemRequest `json:"items" validate:"required"`
}

// ReceiveItemRequest is one delivery line of a receive request
type ReceiveItemRequest struct {
	ItemID        uint `json:"item_id" validate:"required"`
	ReceivedUnits int  `json:"received_units" validate:"required,gt=0"`
	DamagedUnits  int  `json:"damaged_units"`
}

// ReceiveDeliveryRequest defines the structure for receiving a delivery
type ReceiveDeliveryRequest struct {
	Items []ReceiveItemRequest `json:"items" validate:"required"`
}

// CreatePurchaseOrder handles opening a purchase order with its items
func CreatePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var req PurchaseOrderRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	items := make([]inventory.PurchaseOrderItemRequest, 0, len(req.Items))
	for _, item := range req.Items {
		cost := decimal.Zero
		if item.UnitCost != "" {
			parsed, err := decimal.NewFromString(item.UnitCost)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{
					"error": "unit_cost must be a decimal number",
				})
			}
			cost = parsed
		}
		items = append(items, inventory.PurchaseOrderItemRequest{
			ProductID:  item.ProductID,
			VariantID:  item.VariantID,
			SKU:        item.SKU,
			TotalUnits: item.TotalUnits,
			UnitCost:   cost,
		})
	}

	log.Info("Creating purchase order",
		zap.String("po_number", req.PONumber),
		zap.String("supplier_id", req.SupplierID),
		zap.Int("item_count", len(items)))

	po, err := svc.CreatePurchaseOrder(c.Request().Context(), inventory.CreatePurchaseOrderRequest{
		PONumber:   req.PONumber,
		SupplierID: req.SupplierID,
		Items:      items,
	})
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Purchase order created",
		zap.String("purchase_order_id", po.ID),
		zap.String("po_number", po.PONumber),
		zap.String("total_cost", po.TotalCost.String()))
	return c.JSON(http.StatusCreated, po)
}

// GetPurchaseOrder handles retrieving a purchase order with its items
func GetPurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	defer prometheus.TrackDBOperation("query")(time.Now())

	po, err := svc.GetPurchaseOrder(c.Request().Context(), id)
	if err != nil {
		return respondEngineError(c, log, err)
	}
	return c.JSON(http.StatusOK, po)
}

// ReceivePurchaseOrder handles applying a delivery against a purchase order
func ReceivePurchaseOrder(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	defer prometheus.TrackDBOperation("receive")(time.Now())

	var req ReceiveDeliveryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	deliveries := make([]inventory.ReceiveItemDelivery, 0, len(req.Items))
	for _, item := range req.Items {
		deliveries = append(deliveries, inventory.ReceiveItemDelivery{
			ItemID:        item.ItemID,
			ReceivedUnits: item.ReceivedUnits,
			DamagedUnits:  item.DamagedUnits,
		})
	}

	log.Info("Receiving purchase order delivery",
		zap.String("purchase_order_id", id),
		zap.Int("line_count", len(deliveries)))

	result, err := svc.Receive(c.Request().Context(), id, deliveries)
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Delivery received",
		zap.String("purchase_order_id", id),
		zap.Int("total_received", result.TotalReceived),
		zap.Int("total_damaged", result.TotalDamaged),
		zap.String("status", result.Status))
	return c.JSON(http.StatusOK, result)
}
