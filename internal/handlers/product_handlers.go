package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"ecowear/internal/common"
	"ecowear/internal/models"
	"ecowear/internal/services"

	"github.com/labstack/echo/v4"
)

// ProductHandlers serves the public storefront catalog.
type ProductHandlers struct {
	catalogService services.CatalogService
}

func NewProductHandlers(catalogService services.CatalogService) *ProductHandlers {
	return &ProductHandlers{catalogService: catalogService}
}

func paginationParams(c echo.Context) (int, int) {
	limit := 20
	offset := 0
	if limitParam := c.QueryParam("limit"); limitParam != "" {
		if l, err := strconv.Atoi(limitParam); err == nil && l > 0 {
			limit = l
		}
	}
	if offsetParam := c.QueryParam("offset"); offsetParam != "" {
		if o, err := strconv.Atoi(offsetParam); err == nil && o >= 0 {
			offset = o
		}
	}
	return limit, offset
}

// ListProducts handles GET /products
func (h *ProductHandlers) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	products, err := h.catalogService.ListProducts(ctx, limit, offset)
	if err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandlers) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	product, err := h.catalogService.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, product)
}

// FeaturedProducts handles GET /products/featured
func (h *ProductHandlers) FeaturedProducts(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.FeaturedProducts(ctx)
	if err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
	})
}

// SearchProducts handles GET /products/search?q=
func (h *ProductHandlers) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	filter := &models.ProductSearchFilter{
		Query:     c.QueryParam("q"),
		SortBy:    c.QueryParam("sort_by"),
		SortOrder: c.QueryParam("sort_order"),
		Limit:     limit,
		Offset:    offset,
	}
	if category := c.QueryParam("category"); category != "" {
		filter.Category = &category
	}
	if c.QueryParam("in_stock") == "true" {
		filter.InStock = true
	}

	products, err := h.catalogService.SearchProducts(ctx, filter)
	if err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"query":    filter.Query,
	})
}

// ListByCategory handles GET /categories/:category/products
func (h *ProductHandlers) ListByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	limit, offset := paginationParams(c)

	category := c.Param("category")
	if category == "" {
		return common.SendValidationError(c, "category", "Category is required")
	}

	products, err := h.catalogService.ListByCategory(ctx, category, limit, offset)
	if err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"category": category,
	})
}
