package analytics

import (
	"context"
	"fmt"
	"time"

	"ecowear/internal/caching"
	"ecowear/internal/models"
	"ecowear/internal/repositories"
)

const dashboardCacheTTL = 5 * time.Minute

// Per-garment savings attributed to buying upcycled instead of new.
const (
	co2KgPerGarment    = 15
	waterLitersPerItem = 2700
)

// DashboardService aggregates storefront metrics for the admin dashboard:
// store-wide inventory figures, category distribution, order status
// breakdown and the environmental impact of the catalog.
type DashboardService struct {
	productRepo repositories.ProductRepository
	orderRepo   repositories.OrderRepository
	cacheSvc    caching.CacheService
}

func NewDashboardService(productRepo repositories.ProductRepository, orderRepo repositories.OrderRepository, cacheSvc caching.CacheService) *DashboardService {
	return &DashboardService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cacheSvc:    cacheSvc,
	}
}

// Metrics returns the dashboard payload, served from cache when fresh.
func (s *DashboardService) Metrics(ctx context.Context) (map[string]interface{}, error) {
	if cached, err := s.cacheSvc.GetDashboard(ctx); err == nil && cached != nil {
		return cached, nil
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the dashboard metrics and stores them in the cache.
func (s *DashboardService) Refresh(ctx context.Context) (map[string]interface{}, error) {
	stats, err := s.productRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("load store stats: %w", err)
	}

	categories, err := s.productRepo.CategoryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("load category counts: %w", err)
	}

	orderCounts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("load order counts: %w", err)
	}
	statusBreakdown := map[string]int{
		string(models.OrderStatusPending):   orderCounts[models.OrderStatusPending],
		string(models.OrderStatusPaid):      orderCounts[models.OrderStatusPaid],
		string(models.OrderStatusCancelled): orderCounts[models.OrderStatusCancelled],
	}

	metrics := map[string]interface{}{
		"total_products":  stats.TotalProducts,
		"total_stock":     stats.TotalStock,
		"inventory_value": stats.InventoryValue,
		"unique_pieces":   stats.UniquePieces,
		"categories":      categories,
		"orders":          statusBreakdown,
		"impact": map[string]interface{}{
			"kg_co2_saved":       stats.TotalProducts * co2KgPerGarment,
			"liters_water_saved": stats.TotalProducts * waterLitersPerItem,
		},
		"generated_at": time.Now().UTC().Format(time.RFC3339),
	}

	_ = s.cacheSvc.SetDashboard(ctx, metrics, dashboardCacheTTL)
	return metrics, nil
}
