package handler

import (
	"net/http"
	"time"

	"warehouse-service/internal/inventory"
	"warehouse-service/pkg/logger"
	"warehouse-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ReservationRequest defines the structure for stock reservation requests
type ReservationRequest struct {
	ProductID   string `json:"product_id" validate:"required"`
	VariantID   string `json:"variant_id"`
	Quantity    int    `json:"quantity" validate:"required,gt=0"`
	OrderID     string `json:"order_id" validate:"required"`
	OrderItemID string `json:"order_item_id"`
}

// ReleaseRequest carries the optional reason for releasing a hold
type ReleaseRequest struct {
	Reason string `json:"reason"`
}

// CreateReservation handles placing a hold on available stock for an order
func CreateReservation(c echo.Context) error {
	log := logger.FromContext(c)
	defer prometheus.TrackDBOperation("reserve")(time.Now())
	prometheus.RecordReservationOperation("reserve")

	var req ReservationRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}

	log.Info("Reserving stock",
		zap.String("product_id", req.ProductID),
		zap.String("variant_id", req.VariantID),
		zap.String("order_id", req.OrderID),
		zap.Int("quantity", req.Quantity))

	result, err := svc.Reserve(c.Request().Context(), inventory.ReserveRequest{
		ProductID:   req.ProductID,
		VariantID:   req.VariantID,
		Quantity:    req.Quantity,
		OrderID:     req.OrderID,
		OrderItemID: req.OrderItemID,
	})
	if err != nil {
		return respondEngineError(c, log, err)
	}

	if !result.Reserved {
		log.Warn("Insufficient stock for reservation",
			zap.String("product_id", req.ProductID),
			zap.String("order_id", req.OrderID),
			zap.Int("requested", req.Quantity),
			zap.Int("available", result.AvailableAfter),
			zap.Int("shortage", result.Shortage))
		return c.JSON(http.StatusOK, echo.Map{
			"success":   false,
			"reserved":  false,
			"available": result.AvailableAfter,
			"shortage":  result.Shortage,
		})
	}

	log.Info("Stock reserved",
		zap.String("reservation_id", result.ReservationID),
		zap.String("order_id", req.OrderID),
		zap.Int("quantity", req.Quantity),
		zap.Int("available_after", result.AvailableAfter))
	return c.JSON(http.StatusCreated, echo.Map{
		"success":         true,
		"reserved":        true,
		"reservation_id":  result.ReservationID,
		"available_after": result.AvailableAfter,
	})
}

// GetReservation handles retrieving a single reservation by ID
func GetReservation(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	defer prometheus.TrackDBOperation("query")(time.Now())

	res, err := svc.GetReservation(c.Request().Context(), id)
	if err != nil {
		return respondEngineError(c, log, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ReleaseReservation handles returning a held quantity to available stock
func ReleaseReservation(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	defer prometheus.TrackDBOperation("release")(time.Now())
	prometheus.RecordReservationOperation("release")

	var req ReleaseRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request data",
		})
	}
	if req.Reason == "" {
		req.Reason = "manual_release"
	}

	log.Info("Releasing reservation",
		zap.String("reservation_id", id),
		zap.String("reason", req.Reason))

	result, err := svc.Release(c.Request().Context(), id, req.Reason)
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Reservation released",
		zap.String("reservation_id", id),
		zap.Int("quantity", result.Quantity),
		zap.Int("available_after", result.AvailableAfter))
	return c.JSON(http.StatusOK, result)
}

// ConfirmReservation handles converting a hold into a completed sale
func ConfirmReservation(c echo.Context) error {
	log := logger.FromContext(c)
	id := c.Param("id")
	defer prometheus.TrackDBOperation("confirm")(time.Now())
	prometheus.RecordReservationOperation("confirm")

	log.Info("Confirming reservation", zap.String("reservation_id", id))

	result, err := svc.Confirm(c.Request().Context(), id)
	if err != nil {
		return respondEngineError(c, log, err)
	}

	log.Info("Reservation confirmed",
		zap.String("reservation_id", id),
		zap.Int("quantity", result.Quantity),
		zap.Int("remaining_quantity", result.RemainingQuantity))
	return c.JSON(http.StatusOK, result)
}
