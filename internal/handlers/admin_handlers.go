package handlers

import (
	"errors"
	"net/http"
	"strings"

	"ecowear/internal/analytics"
	"ecowear/internal/common"
	"ecowear/internal/models"
	"ecowear/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// AdminHandlers handles the admin panel: product CRUD, store stats and the
// sustainability dashboard.
type AdminHandlers struct {
	catalogService services.CatalogService
	dashboardSvc   *analytics.DashboardService
}

func NewAdminHandlers(catalogService services.CatalogService, dashboardSvc *analytics.DashboardService) *AdminHandlers {
	return &AdminHandlers{
		catalogService: catalogService,
		dashboardSvc:   dashboardSvc,
	}
}

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Size        string          `json:"size"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url"`
	Stock       int             `json:"stock"`
}

func (r *ProductRequest) validate(c echo.Context) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return common.SendValidationError(c, "name", "Name is required")
	}
	if err := common.ValidateNonNegativeDecimal(r.UnitPrice, "unit_price"); err != nil {
		return common.SendValidationError(c, "unit_price", err.Error())
	}
	if r.Stock < 0 {
		return common.SendValidationError(c, "stock", "Stock cannot be negative")
	}
	return nil
}

// CreateProduct handles POST /admin/products
func (h *AdminHandlers) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := req.validate(c); err != nil {
		return err
	}

	product := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Size:        req.Size,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	}
	if err := h.catalogService.CreateProduct(ctx, product); err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct handles PUT /admin/products/:id
func (h *AdminHandlers) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := req.validate(c); err != nil {
		return err
	}

	product := &models.Product{
		ID:          productID,
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
		Size:        req.Size,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
		Stock:       req.Stock,
	}
	if err := h.catalogService.UpdateProduct(ctx, product); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, product)
}

// DeleteProduct handles DELETE /admin/products/:id
func (h *AdminHandlers) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := common.ValidateUUID(c.Param("id"), "product_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.catalogService.DeleteProduct(ctx, productID); err != nil {
		if errors.Is(err, services.ErrProductNotFound) {
			return common.SendNotFoundError(c, "Product")
		}
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Product deleted",
	})
}

// Stats handles GET /admin/stats
func (h *AdminHandlers) Stats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.catalogService.Stats(ctx)
	if err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, stats)
}

// Dashboard handles GET /admin/dashboard
func (h *AdminHandlers) Dashboard(c echo.Context) error {
	ctx := c.Request().Context()

	metrics, err := h.dashboardSvc.Metrics(ctx)
	if err != nil {
		return common.SendServerError(c)
	}
	return c.JSON(http.StatusOK, metrics)
}
