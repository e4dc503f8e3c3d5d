package handler

import (
	"net/http"
	"strconv"
	"time"

	"warehouse-service/internal/inventory"
	"warehouse-service/pkg/logger"
	"warehouse-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// InventoryRequest defines the structure for inventory provisioning requests
type InventoryRequest struct {
	ProductID     string `json:"product_id" validate:"required"`
	VariantID     string `json:"variant_id"`
	SKU           string `json:"sku"`
	Quantity      int    `json:"quantity"`
	MinStockLevel int    `json:"min_stock_level"`
	MaxStockLevel int    `json:"max_stock_level"`
	ReorderPoint  int    `json:"reorder_point"`
}

// AdjustInventoryRequest defines the structure for manual stock corrections
type AdjustInventoryRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	VariantID string `json:"variant_id"`
	Delta     int    `json:"delta" validate:"required"`
	Reason    string `json:"reason"`
}

// CreateInventory handles provisioning a ledger row for a product variant
func CreateInventory(c echo.Context) error {
	log := logger.FromContext(c)
	log.Info("Creating inventory record")
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var req InventoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	rec, err := svc.CreateInventory(c.Request().Context(), inventory.CreateInventoryRequest{
		ProductID:     req.ProductID,
		VariantID:     req.VariantID,
		SKU:           req.SKU,
		Quantity:      req.Quantity,
		MinStockLevel: req.MinStockLevel,
		MaxStockLevel: req.MaxStockLevel,
		ReorderPoint:  req.ReorderPoint,
	})
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Inventory record created",
		zap.String("product_id", rec.ProductID),
		zap.String("variant_id", rec.VariantID),
		zap.String("sku", rec.SKU),
		zap.Int("quantity", rec.Quantity))
	return c.JSON(http.StatusCreated, rec)
}

// AdjustInventory handles signed manual corrections to physical stock
func AdjustInventory(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("update")(time.Now())

	var req AdjustInventoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	log.Info("Adjusting inventory",
		zap.String("product_id", req.ProductID),
		zap.String("variant_id", req.VariantID),
		zap.Int("delta", req.Delta),
		zap.String("reason", req.Reason))

	result, err := svc.Adjust(c.Request().Context(), inventory.AdjustRequest{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Delta:     req.Delta,
		Reason:    req.Reason,
	})
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Inventory adjusted",
		zap.String("product_id", req.ProductID),
		zap.Int("quantity", result.Quantity),
		zap.Int("available", result.AvailableQuantity))
	return c.JSON(http.StatusOK, result)
}

// GetInventoryStatus handles the stock status view used by ordering flows
func GetInventoryStatus(c echo.Context) error {
	log := logger.FromContext(c)

	productID := c.QueryParam("product_id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "product_id is required",
		})
	}
	variantID := c.QueryParam("variant_id")

	status, err := svc.GetStatus(c.Request().Context(), productID, variantID)
	if err != nil {
		return respondEngineError(c, log, err)
	}
	return c.JSON(http.StatusOK, status)
}

// ListMovements handles retrieving the audit trail for a product
func ListMovements(c echo.Context) error {
	log := logger.FromContext(c)
	productID := c.Param("product_id")
	defer prometheus.TrackDBOperation("query")(time.Now())

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "limit must be a number",
			})
		}
		limit = parsed
	}

	movements, err := svc.ListMovements(c.Request().Context(), productID, limit)
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Movements retrieved",
		zap.String("product_id", productID),
		zap.Int("count", len(movements)))
	return c.JSON(http.StatusOK, movements)
}

// ListAlerts handles retrieving stock alerts with optional resolution filter
func ListAlerts(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("query")(time.Now())

	var resolved *bool
	if raw := c.QueryParam("resolved"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "resolved must be true or false",
			})
		}
		resolved = &parsed
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "limit must be a number",
			})
		}
		limit = parsed
	}

	alerts, err := svc.ListAlerts(c.Request().Context(), resolved, limit)
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Alerts retrieved", zap.Int("count", len(alerts)))
	return c.JSON(http.StatusOK, alerts)
}
