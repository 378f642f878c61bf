package repository

import (
	"context"
	"errors"
	"fmt"

	"jerseylab-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// catalogRepository implements the CatalogRepository interface using PostgreSQL.
type catalogRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool *pgxpool.Pool, logger zerolog.Logger) CatalogRepository {
	return &catalogRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "catalog").Logger(),
	}
}

const categoryColumns = `id, key, title, description, hero_image, status, created_at, updated_at`

// ListCategories returns all categories ordered by creation time.
func (r *catalogRepository) ListCategories(ctx context.Context) ([]model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Key, &c.Title, &c.Description, &c.HeroImage, &c.Status, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetCategoryByKey returns the category with the given key, or nil.
func (r *catalogRepository) GetCategoryByKey(ctx context.Context, key string) (*model.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE key = $1`

	var c model.Category
	err := r.pool.QueryRow(ctx, query, key).Scan(&c.ID, &c.Key, &c.Title, &c.Description, &c.HeroImage, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("key", key).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	return &c, nil
}

// UpdateCategory applies upd and returns the updated row, or nil.
func (r *catalogRepository) UpdateCategory(ctx context.Context, id uuid.UUID, upd model.CategoryUpdate) (*model.Category, error) {
	query := `
		UPDATE categories
		SET title = $2, description = $3, hero_image = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + categoryColumns

	var c model.Category
	err := r.pool.QueryRow(ctx, query, id, upd.Title, upd.Description, upd.HeroImage, upd.Status).
		Scan(&c.ID, &c.Key, &c.Title, &c.Description, &c.HeroImage, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("category_id", id.String()).Msg("failed to update category")
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return &c, nil
}

const productColumns = `id, name, price, category_key, image, sizes, created_at`

// ListProducts retrieves products with pagination support.
func (r *catalogRepository) ListProducts(ctx context.Context, limit, offset int) ([]model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY id LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CategoryKey, &p.Image, &p.Sizes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// GetProduct retrieves a single product by its ID, or nil.
func (r *catalogRepository) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	var p model.Product
	err := r.pool.QueryRow(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.CategoryKey, &p.Image, &p.Sizes, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	return &p, nil
}

// GetProductPrices returns the current unit price for each of the given IDs.
func (r *catalogRepository) GetProductPrices(ctx context.Context, ids []string) (map[string]float64, error) {
	query := `SELECT id, price FROM products WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query product prices")
		return nil, fmt.Errorf("failed to query product prices: %w", err)
	}
	defer rows.Close()

	prices := make(map[string]float64, len(ids))
	for rows.Next() {
		var id string
		var price float64
		if err := rows.Scan(&id, &price); err != nil {
			return nil, fmt.Errorf("failed to scan product price: %w", err)
		}
		prices[id] = price
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product prices: %w", err)
	}

	return prices, nil
}
