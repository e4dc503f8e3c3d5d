package handler

import (
	"errors"
	"net/http"

	"warehouse-service/internal/inventory"
	"warehouse-service/internal/model"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

var svc *inventory.Service

// Init wires the handlers to the inventory engine
func Init(service *inventory.Service) {
	svc = service
}

// respondEngineError maps engine errors onto HTTP responses. Conflicts that
// make sense to retry carry a retryable flag.
func respondEngineError(c echo.Context, log *zap.Logger, err error) error {
	var stateErr *inventory.StateTransitionError
	var validationErr *inventory.ValidationError
	var negativeErr *model.NegativeQuantityError

	switch {
	case errors.Is(err, inventory.ErrNotConfigured):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "inventory not configured for this product",
		})
	case errors.Is(err, inventory.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "reservation not found",
		})
	case errors.Is(err, inventory.ErrPurchaseOrderNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "purchase order not found",
		})
	case errors.Is(err, inventory.ErrDuplicateRecord):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "record already exists",
		})
	case errors.Is(err, inventory.ErrPurchaseOrderCancelled):
		return c.JSON(http.StatusConflict, echo.Map{
			"error": "purchase order is cancelled",
		})
	case errors.Is(err, inventory.ErrConcurrencyConflict):
		log.Warn("Concurrent update conflict", zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "stock was updated concurrently, retry the request",
			"retryable": true,
		})
	case errors.As(err, &stateErr):
		log.Warn("Invalid reservation state transition",
			zap.String("reservation_id", stateErr.ReservationID),
			zap.String("current_status", stateErr.Current),
			zap.String("attempted", stateErr.Attempted))
		return c.JSON(http.StatusConflict, echo.Map{
			"error":          stateErr.Error(),
			"current_status": stateErr.Current,
		})
	case errors.As(err, &validationErr):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": validationErr.Error(),
		})
	case errors.As(err, &negativeErr):
		log.Error("Negative quantity guard tripped", zap.Error(err))
		return c.JSON(http.StatusUnprocessableEntity, echo.Map{
			"error": negativeErr.Error(),
		})
	case errors.Is(err, model.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	default:
		log.Error("Inventory operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": "internal server error",
		})
	}
}
