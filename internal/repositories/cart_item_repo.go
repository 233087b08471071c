package repositories

import (
	"context"
	"errors"
	"time"

	"ecowear/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CartItemRepository interface {
	// Upsert merges a quantity delta into the (user, product) line, creating
	// it when missing. The UNIQUE(user_id, product_id) constraint keeps the
	// cart free of duplicate lines.
	Upsert(ctx context.Context, item *models.CartItem) error
	SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error
	GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CartItem, error)
	// ListLinesByUser joins cart items with products for display, pricing
	// each line at the product's current unit price.
	ListLinesByUser(ctx context.Context, userID uuid.UUID) ([]*models.CartLine, error)
	Delete(ctx context.Context, userID, productID uuid.UUID) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
	// DeleteStale removes abandoned cart lines not touched since the cutoff.
	DeleteStale(ctx context.Context, cutoff time.Time) (int64, error)
}

type cartItemRepo struct {
	db DB
}

func NewCartItemRepo(db DB) CartItemRepository {
	return &cartItemRepo{db: db}
}

func (r *cartItemRepo) Upsert(ctx context.Context, item *models.CartItem) error {
	query := `
		INSERT INTO cart_items (id, user_id, product_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id, product_id) DO UPDATE
		SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()
	`
	_, err := r.db.Exec(ctx, query, item.ID, item.UserID, item.ProductID, item.Quantity)
	return err
}

func (r *cartItemRepo) SetQuantity(ctx context.Context, userID, productID uuid.UUID, quantity int) error {
	query := `
		UPDATE cart_items
		SET quantity = $3, updated_at = NOW()
		WHERE user_id = $1 AND product_id = $2
	`
	_, err := r.db.Exec(ctx, query, userID, productID, quantity)
	return err
}

func (r *cartItemRepo) GetByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	item := &models.CartItem{}
	query := `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1 AND product_id = $2
	`
	err := r.db.QueryRow(ctx, query, userID, productID).Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *cartItemRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.CartItem, error) {
	query := `
		SELECT id, user_id, product_id, quantity, created_at, updated_at
		FROM cart_items
		WHERE user_id = $1
		ORDER BY product_id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{}
		if err := rows.Scan(&item.ID, &item.UserID, &item.ProductID, &item.Quantity, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *cartItemRepo) ListLinesByUser(ctx context.Context, userID uuid.UUID) ([]*models.CartLine, error) {
	query := `
		SELECT c.product_id, p.name, p.unit_price, c.quantity, p.stock
		FROM cart_items c
		JOIN products p ON p.id = c.product_id
		WHERE c.user_id = $1
		ORDER BY c.created_at
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*models.CartLine
	for rows.Next() {
		line := &models.CartLine{}
		if err := rows.Scan(&line.ProductID, &line.ProductName, &line.UnitPrice, &line.Quantity, &line.Stock); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *cartItemRepo) Delete(ctx context.Context, userID, productID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`
	_, err := r.db.Exec(ctx, query, userID, productID)
	return err
}

func (r *cartItemRepo) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM cart_items WHERE user_id = $1`
	_, err := r.db.Exec(ctx, query, userID)
	return err
}

func (r *cartItemRepo) DeleteStale(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM cart_items WHERE updated_at < $1`
	tag, err := r.db.Exec(ctx, query, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
