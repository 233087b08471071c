package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ecowear/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// GetByIDForUpdate locks the product row for the duration of the
	// surrounding transaction. Only meaningful when the repository is
	// backed by a pgx.Tx.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Product, error)
	ListByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Product, error)
	ListUnique(ctx context.Context, limit int) ([]*models.Product, error)
	ListNewest(ctx context.Context, limit int) ([]*models.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error)
	Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error)
	// AdjustStock applies a relative stock change guarded so stock never
	// goes negative. Returns the number of rows updated: 0 means the guard
	// rejected the change (or the product is gone).
	AdjustStock(ctx context.Context, id uuid.UUID, change int) (int64, error)
	Stats(ctx context.Context) (*models.StoreStats, error)
	CategoryCounts(ctx context.Context) (map[string]int, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, name, description, unit_price, size, category, image_url, stock, created_at, updated_at`

func scanProduct(row pgx.Row) (*models.Product, error) {
	product := &models.Product{}
	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.UnitPrice, &product.Size, &product.Category, &product.ImageURL, &product.Stock, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) collect(ctx context.Context, query string, args ...any) ([]*models.Product, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}
	return products, rows.Err()
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, unit_price, size, category, image_url, stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Description, product.UnitPrice, product.Size, product.Category, product.ImageURL, product.Stock)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1 FOR UPDATE`
	product, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, unit_price = $3, size = $4, category = $5, image_url = $6, stock = $7, updated_at = NOW()
		WHERE id = $8
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.Description, product.UnitPrice, product.Size, product.Category, product.ImageURL, product.Stock, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *productRepo) List(ctx context.Context, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.collect(ctx, query, limit, offset)
}

func (r *productRepo) ListByCategory(ctx context.Context, category string, limit, offset int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE category = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.collect(ctx, query, category, limit, offset)
}

// ListUnique returns one-of-a-kind pieces: upcycled garments with exactly
// one unit in stock.
func (r *productRepo) ListUnique(ctx context.Context, limit int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE stock = 1
		ORDER BY created_at DESC
		LIMIT $1
	`
	return r.collect(ctx, query, limit)
}

func (r *productRepo) ListNewest(ctx context.Context, limit int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		ORDER BY created_at DESC
		LIMIT $1
	`
	return r.collect(ctx, query, limit)
}

func (r *productRepo) ListLowStock(ctx context.Context, threshold int) ([]*models.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE stock <= $1
		ORDER BY stock ASC, name ASC
	`
	return r.collect(ctx, query, threshold)
}

func (r *productRepo) Search(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, error) {
	if filter.Limit == 0 {
		filter.Limit = 50
	}

	queryBase := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}
	conditionCount := 0

	if filter.Query != "" {
		conditionCount++
		queryBase += fmt.Sprintf(` AND (name ILIKE $%d OR description ILIKE $%d OR category ILIKE $%d)`, conditionCount, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.Category != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND category = $%d`, conditionCount)
		args = append(args, *filter.Category)
	}
	if filter.MinPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND unit_price >= $%d`, conditionCount)
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		conditionCount++
		queryBase += fmt.Sprintf(` AND unit_price <= $%d`, conditionCount)
		args = append(args, *filter.MaxPrice)
	}
	if filter.InStock {
		queryBase += ` AND stock > 0`
	}

	validSortFields := map[string]bool{
		"name": true, "created_at": true, "unit_price": true, "stock": true,
	}
	sortField := "created_at"
	if validSortFields[filter.SortBy] {
		sortField = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}
	queryBase += fmt.Sprintf(` ORDER BY %s %s`, sortField, sortOrder)

	conditionCount++
	queryBase += fmt.Sprintf(` LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	if filter.Offset > 0 {
		conditionCount++
		queryBase += fmt.Sprintf(` OFFSET $%d`, conditionCount)
		args = append(args, filter.Offset)
	}

	return r.collect(ctx, queryBase, args...)
}

func (r *productRepo) AdjustStock(ctx context.Context, id uuid.UUID, change int) (int64, error) {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
	`
	tag, err := r.db.Exec(ctx, query, id, change)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *productRepo) Stats(ctx context.Context) (*models.StoreStats, error) {
	stats := &models.StoreStats{}
	query := `
		SELECT COUNT(*), COALESCE(SUM(stock), 0), COALESCE(SUM(unit_price * stock), 0), COUNT(*) FILTER (WHERE stock = 1)
		FROM products
	`
	err := r.db.QueryRow(ctx, query).Scan(&stats.TotalProducts, &stats.TotalStock, &stats.InventoryValue, &stats.UniquePieces)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *productRepo) CategoryCounts(ctx context.Context) (map[string]int, error) {
	query := `
		SELECT category, COUNT(*)
		FROM products
		GROUP BY category
		ORDER BY category
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, err
		}
		counts[category] = count
	}
	return counts, rows.Err()
}
