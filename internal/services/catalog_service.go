package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecowear/internal/caching"
	"ecowear/internal/common"
	"ecowear/internal/models"
	"ecowear/internal/repositories"

	"github.com/google/uuid"
)

const productCacheTTL = 5 * time.Minute

// featuredCount matches the storefront home page: four highlighted pieces.
const featuredCount = 4

type CatalogService interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
	ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Product, error)
	// FeaturedProducts returns one-of-a-kind pieces first, topped up with
	// the newest arrivals when fewer than four exist.
	FeaturedProducts(ctx context.Context) ([]*models.Product, error)
	SearchProducts(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	Stats(ctx context.Context) (*models.StoreStats, error)
}

type catalogService struct {
	productRepo repositories.ProductRepository
	cacheSvc    caching.CacheService
}

func NewCatalogService(productRepo repositories.ProductRepository, cacheSvc caching.CacheService) CatalogService {
	return &catalogService{
		productRepo: productRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price cannot be negative")
	}
	if product.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}
	if product.Category == "" {
		product.Category = "General"
	}
	return s.productRepo.Create(ctx, product)
}

func (s *catalogService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	// Read-through cache; a cache failure falls back to the database.
	if cached, err := s.cacheSvc.GetProduct(ctx, productID); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	_ = s.cacheSvc.SetProduct(ctx, product, productCacheTTL)
	return product, nil
}

func (s *catalogService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if product.UnitPrice.IsNegative() {
		return fmt.Errorf("unit price cannot be negative")
	}
	if product.Stock < 0 {
		return fmt.Errorf("stock cannot be negative")
	}

	existing, err := s.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return err
	}
	_ = s.cacheSvc.DeleteProduct(ctx, product.ID)
	return nil
}

func (s *catalogService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	existing, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}
	_ = s.cacheSvc.DeleteProduct(ctx, productID)
	return nil
}

func (s *catalogService) ListProducts(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.List(ctx, limit, offset)
}

func (s *catalogService) ListByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Product, error) {
	return s.productRepo.ListByCategory(ctx, category, limit, offset)
}

func (s *catalogService) FeaturedProducts(ctx context.Context) ([]*models.Product, error) {
	featured, err := s.productRepo.ListUnique(ctx, featuredCount)
	if err != nil {
		return nil, err
	}
	if len(featured) >= featuredCount {
		return featured, nil
	}

	seen := make(map[uuid.UUID]bool, len(featured))
	for _, p := range featured {
		seen[p.ID] = true
	}

	newest, err := s.productRepo.ListNewest(ctx, featuredCount+len(featured))
	if err != nil {
		return nil, err
	}
	for _, p := range newest {
		if len(featured) >= featuredCount {
			break
		}
		if !seen[p.ID] {
			featured = append(featured, p)
			seen[p.ID] = true
		}
	}
	return featured, nil
}

func (s *catalogService) SearchProducts(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter == nil {
		return nil, fmt.Errorf("filter cannot be nil")
	}
	filter.Query = strings.TrimSpace(filter.Query)

	var err error
	filter.Limit, filter.Offset, err = common.ValidatePaginationParams(filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	return s.productRepo.Search(ctx, filter)
}

func (s *catalogService) Stats(ctx context.Context) (*models.StoreStats, error) {
	return s.productRepo.Stats(ctx)
}
