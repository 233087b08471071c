package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"ecowear/internal/common"
	"ecowear/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// OrderHandlers handles checkout and the order endpoints that follow it.
type OrderHandlers struct {
	checkoutService services.CheckoutService
}

func NewOrderHandlers(checkoutService services.CheckoutService) *OrderHandlers {
	return &OrderHandlers{checkoutService: checkoutService}
}

// Checkout handles POST /checkout: converts the user's cart into an order.
func (h *OrderHandlers) Checkout(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	receipt, err := h.checkoutService.Convert(ctx, userID)
	if err != nil {
		var stockErr *services.InsufficientStockError
		switch {
		case errors.Is(err, services.ErrEmptyCart):
			return c.JSON(http.StatusBadRequest, common.CreateErrorResponse(
				"EMPTY_CART", "Cart is empty", nil))
		case errors.As(err, &stockErr):
			return c.JSON(http.StatusBadRequest, common.CreateErrorResponse(
				"INSUFFICIENT_STOCK",
				stockErr.Error(),
				map[string]string{
					"product_id": stockErr.ProductID.String(),
					"product":    stockErr.ProductName,
					"available":  fmt.Sprintf("%d", stockErr.Available),
					"requested":  fmt.Sprintf("%d", stockErr.Requested),
				},
			))
		case errors.Is(err, services.ErrProductNotFound):
			return common.SendNotFoundError(c, "Product")
		default:
			return common.SendServerError(c)
		}
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"order_id": receipt.OrderID,
		"total":    receipt.Total,
	})
}

// ListOrders handles GET /orders
func (h *OrderHandlers) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit, offset := paginationParams(c)
	orders, err := h.checkoutService.ListOrders(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"orders": orders,
		"limit":  limit,
		"offset": offset,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandlers) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	order, err := h.checkoutService.GetOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			return common.SendNotFoundError(c, "Order")
		}
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, order)
}

// PayOrder handles POST /orders/:id/pay (payment is simulated).
func (h *OrderHandlers) PayOrder(c echo.Context) error {
	return h.transition(c, h.checkoutService.MarkPaid, "Order marked as paid")
}

// CancelOrder handles POST /orders/:id/cancel.
func (h *OrderHandlers) CancelOrder(c echo.Context) error {
	return h.transition(c, h.checkoutService.Cancel, "Order cancelled")
}

func (h *OrderHandlers) transition(c echo.Context, op func(ctx context.Context, userID, orderID uuid.UUID) error, message string) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	orderID, err := common.ValidateUUID(c.Param("id"), "order_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := op(ctx, userID, orderID); err != nil {
		switch {
		case errors.Is(err, services.ErrOrderNotFound):
			return common.SendNotFoundError(c, "Order")
		case errors.Is(err, services.ErrInvalidStatus):
			return common.SendClientError(c, "Order status does not allow this operation")
		default:
			return common.SendServerError(c)
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": message,
	})
}
