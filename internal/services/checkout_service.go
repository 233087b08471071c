package services

import (
	"context"
	"fmt"

	"ecowear/internal/models"
	"ecowear/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Store is the database handle the checkout service works against. It is
// satisfied by *pgxpool.Pool and by pgxmock pools. Transactions opened from
// it are request-scoped; the service never holds one across requests.
type Store interface {
	repositories.DB
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Receipt is the result of a successful cart conversion.
type Receipt struct {
	OrderID uuid.UUID       `json:"order_id"`
	Total   decimal.Decimal `json:"total"`
}

// CheckoutService converts carts into orders and manages the order
// lifecycle that follows.
type CheckoutService interface {
	// Convert turns the user's cart into a pending order: validates stock
	// for every line, snapshots names and prices, decrements inventory and
	// empties the cart, all inside one transaction. Either everything
	// persists or nothing does.
	Convert(ctx context.Context, userID uuid.UUID) (*Receipt, error)
	// MarkPaid simulates payment for a pending order.
	MarkPaid(ctx context.Context, userID, orderID uuid.UUID) error
	// Cancel cancels a pending order and restores the decremented stock.
	Cancel(ctx context.Context, userID, orderID uuid.UUID) error
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, error)
}

type checkoutService struct {
	db     Store
	logger zerolog.Logger
}

func NewCheckoutService(db Store, logger zerolog.Logger) CheckoutService {
	return &checkoutService{db: db, logger: logger}
}

func (s *checkoutService) Convert(ctx context.Context, userID uuid.UUID) (*Receipt, error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin checkout transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	carts := repositories.NewCartItemRepo(tx)
	products := repositories.NewProductRepo(tx)
	orders := repositories.NewOrderRepo(tx)
	orderItems := repositories.NewOrderItemRepo(tx)

	items, err := carts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// Lock every product row first and validate availability for the whole
	// cart before touching anything. ListByUser orders lines by product id,
	// which keeps the lock order deterministic across concurrent checkouts.
	locked := make([]*models.Product, len(items))
	for i, item := range items {
		product, err := products.GetByIDForUpdate(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("lock product %s: %w", item.ProductID, err)
		}
		if product == nil {
			return nil, fmt.Errorf("cart references product %s: %w", item.ProductID, ErrProductNotFound)
		}
		if product.Stock < item.Quantity {
			return nil, &InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Available:   product.Stock,
				Requested:   item.Quantity,
			}
		}
		locked[i] = product
	}

	total := decimal.Zero
	subtotals := make([]decimal.Decimal, len(items))
	for i, item := range items {
		subtotals[i] = locked[i].UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(subtotals[i])
	}

	order := &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: models.OrderStatusPending,
		Total:  total,
	}
	if err := orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	for i, item := range items {
		snapshot := &models.OrderItem{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   item.ProductID,
			ProductName: locked[i].Name,
			UnitPrice:   locked[i].UnitPrice,
			Quantity:    item.Quantity,
			Subtotal:    subtotals[i],
		}
		if err := orderItems.Create(ctx, snapshot); err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}

		rows, err := products.AdjustStock(ctx, item.ProductID, -item.Quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for %s: %w", item.ProductID, err)
		}
		if rows == 0 {
			// The row lock makes this unreachable; the guard stays as the
			// stock >= 0 invariant's final line of defense.
			return nil, &InsufficientStockError{
				ProductID:   item.ProductID,
				ProductName: locked[i].Name,
				Available:   locked[i].Stock,
				Requested:   item.Quantity,
			}
		}
	}

	if err := carts.DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Str("total", total.String()).
		Int("lines", len(items)).
		Msg("cart converted to order")

	return &Receipt{OrderID: order.ID, Total: total}, nil
}

func (s *checkoutService) MarkPaid(ctx context.Context, userID, orderID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin payment transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orders := repositories.NewOrderRepo(tx)
	order, err := orders.GetByUserAndID(ctx, userID, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		return ErrInvalidStatus
	}

	if err := orders.UpdateStatus(ctx, orderID, models.OrderStatusPaid); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit payment: %w", err)
	}

	s.logger.Info().Str("order_id", orderID.String()).Msg("order marked paid")
	return nil
}

func (s *checkoutService) Cancel(ctx context.Context, userID, orderID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin cancel transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	orders := repositories.NewOrderRepo(tx)
	orderItems := repositories.NewOrderItemRepo(tx)
	products := repositories.NewProductRepo(tx)

	order, err := orders.GetByUserAndID(ctx, userID, orderID)
	if err != nil {
		return fmt.Errorf("load order: %w", err)
	}
	if order == nil {
		return ErrOrderNotFound
	}
	if order.Status != models.OrderStatusPending {
		return ErrInvalidStatus
	}

	// Put the decremented units back before the order leaves the pending
	// state. Items deleted from the catalog since the order was placed are
	// skipped; their stock has nowhere to return to.
	items, err := orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	for _, item := range items {
		if _, err := products.AdjustStock(ctx, item.ProductID, item.Quantity); err != nil {
			return fmt.Errorf("restore stock for %s: %w", item.ProductID, err)
		}
	}

	if err := orders.UpdateStatus(ctx, orderID, models.OrderStatusCancelled); err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit cancel: %w", err)
	}

	s.logger.Info().Str("order_id", orderID.String()).Msg("order cancelled, stock restored")
	return nil
}

func (s *checkoutService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	orders := repositories.NewOrderRepo(s.db)
	order, err := orders.GetByUserAndID(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}

	items, err := repositories.NewOrderItemRepo(s.db).ListByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *checkoutService) ListOrders(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	return repositories.NewOrderRepo(s.db).ListByUser(ctx, userID, limit, offset)
}
