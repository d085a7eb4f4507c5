package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"derinfoods/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

const productColumns = `id, name, description, category, price, stock, sold, image, is_active, created_at, updated_at`

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Category, &p.Price,
		&p.Stock, &p.Sold, &p.Image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create inserts a product and the initial price history entry.
func (r *productRepository) Create(ctx context.Context, p *model.Product) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO products (id, name, description, category, price, stock, sold, image, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, p.ID, p.Name, p.Description, p.Category, p.Price, p.Stock, p.Sold, p.Image, p.IsActive, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO price_history (product_id, price, changed_at)
		VALUES ($1, $2, $3)
	`, p.ID, p.Price, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record initial price: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit product creation: %w", err)
	}

	r.logger.Debug().Str("product_id", p.ID.String()).Msg("product created")
	return nil
}

// Update persists product fields, appending a price history entry when the
// price changed.
func (r *productRepository) Update(ctx context.Context, p *model.Product, priceChanged bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Stock is deliberately absent: it moves only through the conditional
	// updates in AdjustStock and ReserveStock, so a stale read here can
	// never overwrite a concurrent sale.
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, category = $4, price = $5, image = $6, updated_at = $7
		WHERE id = $1
	`, p.ID, p.Name, p.Description, p.Category, p.Price, p.Image, p.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", p.ID.String()).Msg("failed to update product")
		return fmt.Errorf("failed to update product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	if priceChanged {
		_, err = tx.Exec(ctx, `
			INSERT INTO price_history (product_id, price, changed_at)
			VALUES ($1, $2, $3)
		`, p.ID, p.Price, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to record price change: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit product update: %w", err)
	}

	return nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*model.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	if !includeInactive {
		query += ` AND is_active`
	}

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// ListActive retrieves active products with pagination.
func (r *productRepository) ListActive(ctx context.Context, category string, limit, offset int) ([]model.Product, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE is_active`
	countArgs := []any{}
	if category != "" {
		countQuery += ` AND category = $1`
		countArgs = append(countArgs, category)
	}
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE is_active`
	args := []any{}
	if category != "" {
		query += ` AND category = $1 ORDER BY name LIMIT $2 OFFSET $3`
		args = append(args, category, limit, offset)
	} else {
		query += ` ORDER BY name LIMIT $1 OFFSET $2`
		args = append(args, limit, offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Int("limit", limit).Int("offset", offset).Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var p model.Product
		err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Category, &p.Price,
			&p.Stock, &p.Sold, &p.Image, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	return products, total, nil
}

// GetPriceHistory returns the append-only price history for a product.
func (r *productRepository) GetPriceHistory(ctx context.Context, id uuid.UUID) ([]model.PricePoint, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT price, changed_at
		FROM price_history
		WHERE product_id = $1
		ORDER BY changed_at
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query price history: %w", err)
	}
	defer rows.Close()

	var history []model.PricePoint
	for rows.Next() {
		var pp model.PricePoint
		if err := rows.Scan(&pp.Price, &pp.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan price point: %w", err)
		}
		history = append(history, pp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price history: %w", err)
	}

	return history, nil
}

// AdjustStock atomically applies stock += delta. The availability check and
// the mutation are a single conditional UPDATE, so concurrent callers on the
// same product cannot drive stock negative.
func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products
		SET stock = stock + $2,
		    sold  = sold + CASE WHEN $2 < 0 THEN -$2 ELSE 0 END,
		    updated_at = $3
		WHERE id = $1 AND stock + $2 >= 0
	`, id, delta, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Int("delta", delta).Msg("failed to adjust stock")
		return fmt.Errorf("failed to adjust stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.classifyStockFailure(ctx, id)
	}

	return nil
}

// ReserveStock decrements stock for a sale within the provided transaction.
func (r *productRepository) ReserveStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error {
	tag, err := tx.Exec(ctx, `
		UPDATE products
		SET stock = stock - $2, sold = sold + $2, updated_at = $3
		WHERE id = $1 AND is_active AND stock >= $2
	`, id, quantity, time.Now())
	if err != nil {
		return fmt.Errorf("failed to reserve stock: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return r.classifyStockFailure(ctx, id)
	}

	r.logger.Debug().
		Str("product_id", id.String()).
		Int("quantity", quantity).
		Msg("stock reserved")

	return nil
}

// classifyStockFailure distinguishes a missing or inactive product from a
// genuine stock shortfall after a conditional update matched no rows.
func (r *productRepository) classifyStockFailure(ctx context.Context, id uuid.UUID) error {
	var stock int
	var isActive bool
	err := r.pool.QueryRow(ctx, `SELECT stock, is_active FROM products WHERE id = $1`, id).Scan(&stock, &isActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProductUnavailable
		}
		return fmt.Errorf("failed to inspect product: %w", err)
	}
	if !isActive {
		return model.ErrProductUnavailable
	}

	r.logger.Warn().
		Str("product_id", id.String()).
		Int("stock", stock).
		Msg("stock adjustment rejected")

	return model.ErrInsufficientStock
}

// Deactivate soft-deletes a product.
func (r *productRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE products SET is_active = FALSE, updated_at = $2 WHERE id = $1
	`, id, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to deactivate product")
		return fmt.Errorf("failed to deactivate product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}

	r.logger.Debug().Str("product_id", id.String()).Msg("product deactivated")
	return nil
}
