package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"ecowear/internal/common"
	"ecowear/internal/services"

	"github.com/labstack/echo/v4"
)

// CartHandlers handles the authenticated shopping cart endpoints.
type CartHandlers struct {
	cartService services.CartService
}

func NewCartHandlers(cartService services.CartService) *CartHandlers {
	return &CartHandlers{cartService: cartService}
}

// CartLineRequest is the payload for adding or updating a cart line.
type CartLineRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// sendCartError maps cart service errors onto the response envelope.
func sendCartError(c echo.Context, err error) error {
	var stockErr *services.InsufficientStockError
	switch {
	case errors.Is(err, services.ErrInvalidQuantity):
		return common.SendValidationError(c, "quantity", "Quantity must be a positive integer")
	case errors.Is(err, services.ErrProductNotFound):
		return common.SendNotFoundError(c, "Product")
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
	default:
		return common.SendServerError(c)
	}
}

// GetCart handles GET /cart
func (h *CartHandlers) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	cart, err := h.cartService.Get(ctx, userID)
	if err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, cart)
}

// AddToCart handles POST /cart/items
func (h *CartHandlers) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req CartLineRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	productID, err := common.ValidateUUID(req.ProductID, "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.cartService.Add(ctx, userID, productID, req.Quantity); err != nil {
		return sendCartError(c, err)
	}
	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Product added to cart",
	})
}

// UpdateCartLine handles PUT /cart/items/:productID
func (h *CartHandlers) UpdateCartLine(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("productID"), "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.cartService.UpdateQuantity(ctx, userID, productID, req.Quantity); err != nil {
		return sendCartError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Cart updated",
	})
}

// RemoveCartLine handles DELETE /cart/items/:productID
func (h *CartHandlers) RemoveCartLine(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	productID, err := common.ValidateUUID(c.Param("productID"), "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.cartService.Remove(ctx, userID, productID); err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product removed from cart",
	})
}

// ClearCart handles DELETE /cart
func (h *CartHandlers) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	if err := h.cartService.Clear(ctx, userID); err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Cart cleared",
	})
}
