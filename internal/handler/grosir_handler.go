package handler

import (
	"net/http"
	"time"

	"warehouse-service/internal/inventory"
	"warehouse-service/internal/model"
	"warehouse-service/pkg/logger"
	"warehouse-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BundleConfigRequest defines the structure for bundle registration requests
type BundleConfigRequest struct {
	ProductID      string         `json:"product_id" validate:"required"`
	BundleName     string         `json:"bundle_name"`
	TotalUnits     int            `json:"total_units"`
	SizeBreakdown  map[string]int `json:"size_breakdown" validate:"required"`
	BundleCost     string         `json:"bundle_cost"`
	MinBundleOrder int            `json:"min_bundle_order"`
}

// ToleranceRequest defines the structure for excess tolerance upserts
type ToleranceRequest struct {
	ProductID      string `json:"product_id" validate:"required"`
	VariantID      string `json:"variant_id"`
	MaxExcessUnits int    `json:"max_excess_units"`
	CurrentExcess  *int   `json:"current_excess"`
}

// CheckBundleOverflow handles the orderability check for one variant of a
// grosir product
func CheckBundleOverflow(c echo.Context) error {
	log := logger.FromContext(c)

	productID := c.QueryParam("product_id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "product_id is required",
		})
	}
	variantID := c.QueryParam("variant_id")

	result, err := svc.CheckBundleOverflow(c.Request().Context(), productID, variantID)
	if err != nil {
		return respondEngineError(c, log, err)
	}

	if !result.CanOrder {
		log.Info("Variant blocked by grosir tolerance",
			zap.String("product_id", productID),
			zap.String("variant_id", variantID),
			zap.Bool("is_locked", result.IsLocked),
			zap.String("reason", result.Reason))
	}
	return c.JSON(http.StatusOK, result)
}

// CheckAllVariantsOverflow handles the per-size orderability view of a
// bundled product
func CheckAllVariantsOverflow(c echo.Context) error {
	log := logger.FromContext(c)

	productID := c.QueryParam("product_id")
	if productID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "product_id is required",
		})
	}

	statuses, err := svc.CheckAllVariantsOverflow(c.Request().Context(), productID)
	if err != nil {
		return respondEngineError(c, log, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"product_id": productID,
		"variants":   statuses,
	})
}

// CreateBundleConfig handles registering a product's wholesale composition
func CreateBundleConfig(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("insert")(time.Now())

	var req BundleConfigRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	cost := decimal.Zero
	if req.BundleCost != "" {
		parsed, err := decimal.NewFromString(req.BundleCost)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "bundle_cost must be a decimal number",
			})
		}
		cost = parsed
	}

	bundle, err := svc.CreateBundleConfig(c.Request().Context(), inventory.CreateBundleRequest{
		ProductID:      req.ProductID,
		BundleName:     req.BundleName,
		TotalUnits:     req.TotalUnits,
		SizeBreakdown:  model.SizeBreakdown(req.SizeBreakdown),
		BundleCost:     cost,
		MinBundleOrder: req.MinBundleOrder,
	})
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Bundle config created",
		zap.String("product_id", bundle.ProductID),
		zap.String("bundle_name", bundle.BundleName),
		zap.Int("total_units", bundle.TotalUnits))
	return c.JSON(http.StatusCreated, bundle)
}

// GetBundleConfig handles retrieving a product's wholesale composition
func GetBundleConfig(c echo.Context) error {
	log := logger.FromContext(c)
	productID := c.Param("product_id")

	bundle, err := svc.GetBundleConfig(c.Request().Context(), productID)
	if err != nil {
		return respondEngineError(c, log, err)
	}
	return c.JSON(http.StatusOK, bundle)
}

// UpsertTolerance handles setting the excess limit for a product variant
func UpsertTolerance(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("upsert")(time.Now())

	var req ToleranceRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	tol, err := svc.UpsertTolerance(c.Request().Context(), inventory.UpsertToleranceRequest{
		ProductID:      req.ProductID,
		VariantID:      req.VariantID,
		MaxExcessUnits: req.MaxExcessUnits,
		CurrentExcess:  req.CurrentExcess,
	})
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Tolerance upserted",
		zap.String("product_id", tol.ProductID),
		zap.String("variant_id", tol.VariantID),
		zap.Int("max_excess_units", tol.MaxExcessUnits),
		zap.Int("current_excess", tol.CurrentExcess),
		zap.Bool("is_locked", tol.IsLocked))
	return c.JSON(http.StatusOK, tol)
}
