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

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

const orderColumns = `id, user_id, guest_email, status, payment_method, payment_reference,
	items_price, shipping_price, total_price,
	ship_address, ship_city, ship_postal_code, ship_country,
	is_paid, paid_at, payment_provider_id, payment_status, payer_email,
	is_delivered, delivered_at, reward_credited, created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	var providerID, paymentStatus, payerEmail *string
	err := row.Scan(
		&o.ID, &o.UserID, &o.GuestEmail, &o.Status, &o.PaymentMethod, &o.PaymentReference,
		&o.ItemsPrice, &o.ShippingPrice, &o.TotalPrice,
		&o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.IsPaid, &o.PaidAt, &providerID, &paymentStatus, &payerEmail,
		&o.IsDelivered, &o.DeliveredAt, &o.RewardCredited, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if providerID != nil && o.PaidAt != nil {
		o.PaymentResult = &model.PaymentResult{
			ProviderID: *providerID,
			PaidAt:     *o.PaidAt,
		}
		if paymentStatus != nil {
			o.PaymentResult.Status = *paymentStatus
		}
		if payerEmail != nil {
			o.PaymentResult.PayerEmail = *payerEmail
		}
	}

	return &o, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO orders (
			id, user_id, guest_email, status, payment_method, payment_reference,
			items_price, shipping_price, total_price,
			ship_address, ship_city, ship_postal_code, ship_country,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		order.ID, order.UserID, order.GuestEmail, order.Status, order.PaymentMethod, order.PaymentReference,
		order.ItemsPrice, order.ShippingPrice, order.TotalPrice,
		order.ShippingAddress.Address, order.ShippingAddress.City,
		order.ShippingAddress.PostalCode, order.ShippingAddress.Country,
		order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to create order")
		return fmt.Errorf("failed to create order: %w", err)
	}

	r.logger.Debug().Str("order_id", order.ID.String()).Msg("order created")
	return nil
}

// CreateOrderItems inserts multiple order item snapshots within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (id, order_id, product_id, name, unit_price, quantity, image)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.ID, item.OrderID, item.ProductID, item.Name, item.UnitPrice, item.Quantity, item.Image)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().
				Err(err).
				Str("order_id", items[i].OrderID.String()).
				Str("product_id", items[i].ProductID.String()).
				Msg("failed to create order item")
			return fmt.Errorf("failed to create order item: %w", err)
		}
	}

	return nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID uuid.UUID) ([]model.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, order_id, product_id, name, unit_price, quantity, image
		FROM order_items
		WHERE order_id = $1
		ORDER BY id
	`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Name, &item.UnitPrice, &item.Quantity, &item.Image)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order items: %w", err)
	}

	return items, nil
}

func (r *orderRepository) getByQuery(ctx context.Context, query string, arg any) (*model.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	items, err := r.getItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	return r.getByQuery(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetByPaymentReference retrieves the order holding the given payment reference.
func (r *orderRepository) GetByPaymentReference(ctx context.Context, reference string) (*model.Order, error) {
	return r.getByQuery(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_reference = $1`, reference)
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	return r.attachItems(ctx, orders)
}

// ListAll retrieves all orders with pagination.
func (r *orderRepository) ListAll(ctx context.Context, limit, offset int) ([]model.Order, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}

	orders, err := collectOrders(rows)
	if err != nil {
		return nil, 0, err
	}

	orders, err = r.attachItems(ctx, orders)
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) attachItems(ctx context.Context, orders []model.Order) ([]model.Order, error) {
	for i := range orders {
		items, err := r.getItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// MarkPaid applies the PAID transition as a single state-conditioned update.
// Calling it again for an already-paid order is a no-op.
func (r *orderRepository) MarkPaid(ctx context.Context, id uuid.UUID, result model.PaymentResult) (bool, error) {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET is_paid = TRUE,
		    paid_at = $2,
		    status = CASE WHEN status = 'pending' THEN 'processing' ELSE status END,
		    payment_provider_id = $3,
		    payment_status = $4,
		    payer_email = $5,
		    updated_at = $6
		WHERE id = $1 AND is_paid = FALSE AND status <> 'cancelled'
	`, id, result.PaidAt, result.ProviderID, result.Status, result.PayerEmail, time.Now())
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order paid")
		return false, fmt.Errorf("failed to mark order paid: %w", err)
	}

	if tag.RowsAffected() == 1 {
		r.logger.Info().Str("order_id", id.String()).Msg("order marked paid")
		return true, nil
	}

	var isPaid bool
	var status model.OrderStatus
	err = r.pool.QueryRow(ctx, `SELECT is_paid, status FROM orders WHERE id = $1`, id).Scan(&isPaid, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, model.ErrOrderNotFound
		}
		return false, fmt.Errorf("failed to inspect order: %w", err)
	}
	if isPaid {
		return false, nil
	}

	return false, model.ErrOrderCancelled
}

// MarkDelivered applies the DELIVERED transition. Already-delivered orders
// are a no-op; cancelled orders are rejected.
func (r *orderRepository) MarkDelivered(ctx context.Context, id uuid.UUID) (bool, error) {
	now := time.Now()
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET is_delivered = TRUE, delivered_at = $2, status = 'delivered', updated_at = $2
		WHERE id = $1 AND is_delivered = FALSE AND status <> 'cancelled'
	`, id, now)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to mark order delivered")
		return false, fmt.Errorf("failed to mark order delivered: %w", err)
	}

	if tag.RowsAffected() == 1 {
		r.logger.Info().Str("order_id", id.String()).Msg("order marked delivered")
		return true, nil
	}

	var isDelivered bool
	err = r.pool.QueryRow(ctx, `SELECT is_delivered FROM orders WHERE id = $1`, id).Scan(&isDelivered)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, model.ErrOrderNotFound
		}
		return false, fmt.Errorf("failed to inspect order: %w", err)
	}
	if isDelivered {
		return false, nil
	}

	return false, model.ErrOrderCancelled
}

// Cancel transitions a pending or processing order to cancelled and returns
// its items to stock in a single transaction.
func (r *orderRepository) Cancel(ctx context.Context, id uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status model.OrderStatus
	err = tx.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrOrderNotFound
		}
		return fmt.Errorf("failed to lock order: %w", err)
	}

	if !status.CanCancel() {
		return model.ErrOrderNotCancellable
	}

	_, err = tx.Exec(ctx, `
		UPDATE orders SET status = 'cancelled', updated_at = $2 WHERE id = $1
	`, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to cancel order: %w", err)
	}

	// Return reserved stock. The sold counter is monotonic and stays as is.
	_, err = tx.Exec(ctx, `
		UPDATE products p
		SET stock = p.stock + oi.quantity, updated_at = now()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.product_id = p.id
	`, id)
	if err != nil {
		return fmt.Errorf("failed to restock cancelled order: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit cancellation: %w", err)
	}

	r.logger.Info().Str("order_id", id.String()).Msg("order cancelled")
	return nil
}

// CreditReward credits the order total to the owning user's lifetime
// purchases at most once, guarded by the reward_credited flag flipped in the
// same transaction as the increment.
func (r *orderRepository) CreditReward(ctx context.Context, orderID uuid.UUID) (bool, int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var userID *uuid.UUID
	var totalPrice int64
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET reward_credited = TRUE, updated_at = now()
		WHERE id = $1 AND is_paid = TRUE AND reward_credited = FALSE
		RETURNING user_id, total_price
	`, orderID).Scan(&userID, &totalPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Already credited, not yet paid, or order missing.
			return false, 0, nil
		}
		return false, 0, fmt.Errorf("failed to flag reward credit: %w", err)
	}

	if userID == nil {
		// Guest orders carry no reward account; keep the flag set so the
		// question is never re-asked.
		if err := tx.Commit(ctx); err != nil {
			return false, 0, fmt.Errorf("failed to commit reward credit: %w", err)
		}
		return false, 0, nil
	}

	var newTotal int64
	err = tx.QueryRow(ctx, `
		UPDATE users
		SET total_purchases = total_purchases + $2
		WHERE id = $1
		RETURNING total_purchases
	`, userID, totalPrice).Scan(&newTotal)
	if err != nil {
		return false, 0, fmt.Errorf("failed to credit user purchases: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to commit reward credit: %w", err)
	}

	r.logger.Info().
		Str("order_id", orderID.String()).
		Str("user_id", userID.String()).
		Int64("amount", totalPrice).
		Msg("reward credited")

	return true, newTotal, nil
}
