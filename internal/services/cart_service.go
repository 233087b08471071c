package services

import (
	"context"
	"fmt"

	"ecowear/internal/models"
	"ecowear/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartService interface {
	// Add merges quantity into the user's cart line for the product. The
	// merged quantity is checked against current stock; nothing is
	// persisted when it would exceed availability.
	Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	// UpdateQuantity sets the line's quantity outright, under the same
	// stock check.
	UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	Remove(ctx context.Context, userID, productID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error)
}

type cartService struct {
	cartRepo    repositories.CartItemRepository
	productRepo repositories.ProductRepository
}

func NewCartService(cartRepo repositories.CartItemRepository, productRepo repositories.ProductRepository) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

func (s *cartService) Add(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}

	merged := quantity
	existing, err := s.cartRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("load cart line: %w", err)
	}
	if existing != nil {
		merged += existing.Quantity
	}

	// The stock check runs against the merged quantity, not the delta.
	if merged > product.Stock {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   merged,
		}
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return s.cartRepo.Upsert(ctx, item)
}

func (s *cartService) UpdateQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("load product: %w", err)
	}
	if product == nil {
		return ErrProductNotFound
	}
	if quantity > product.Stock {
		return &InsufficientStockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock,
			Requested:   quantity,
		}
	}

	existing, err := s.cartRepo.GetByUserAndProduct(ctx, userID, productID)
	if err != nil {
		return fmt.Errorf("load cart line: %w", err)
	}
	if existing == nil {
		item := &models.CartItem{
			ID:        uuid.New(),
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		}
		return s.cartRepo.Upsert(ctx, item)
	}
	return s.cartRepo.SetQuantity(ctx, userID, productID, quantity)
}

func (s *cartService) Remove(ctx context.Context, userID, productID uuid.UUID) error {
	return s.cartRepo.Delete(ctx, userID, productID)
}

func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.cartRepo.DeleteByUser(ctx, userID)
}

func (s *cartService) Get(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	lines, err := s.cartRepo.ListLinesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	cart := &models.Cart{Lines: lines, Total: decimal.Zero}
	for _, line := range lines {
		line.Subtotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		cart.Total = cart.Total.Add(line.Subtotal)
	}
	return cart, nil
}
