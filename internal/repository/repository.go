package repository

import (
	"context"

	"derinfoods/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
// It is the only legal path to mutate stock or price.
type ProductRepository interface {
	// Create inserts a product and the initial price history entry.
	Create(ctx context.Context, p *model.Product) error

	// Update persists product fields. If priceChanged is true, a new
	// price history entry is appended in the same transaction.
	Update(ctx context.Context, p *model.Product, priceChanged bool) error

	// GetByID retrieves a single product. Customer-facing callers pass
	// includeInactive=false; admin read paths may bypass the filter.
	// Returns nil if not found.
	GetByID(ctx context.Context, id uuid.UUID, includeInactive bool) (*model.Product, error)

	// ListActive retrieves active products with pagination, optionally
	// filtered by category. Returns the page and the total active count.
	ListActive(ctx context.Context, category string, limit, offset int) ([]model.Product, int, error)

	// GetPriceHistory returns the append-only price history for a product.
	GetPriceHistory(ctx context.Context, id uuid.UUID) ([]model.PricePoint, error)

	// AdjustStock atomically applies stock += delta, failing with
	// ErrInsufficientStock if the result would go negative. Negative
	// deltas also increment the sold counter.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error

	// ReserveStock decrements stock for a sale within the provided
	// transaction. The availability check and the decrement are a single
	// conditional UPDATE so concurrent checkouts cannot oversell.
	ReserveStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, quantity int) error

	// Deactivate soft-deletes a product. Stock is left untouched.
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines the interface for order data access and the
// order state machine's durable transitions.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderItems inserts the order's line-item snapshots within the
	// provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// GetByID retrieves an order with its items. Returns nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// GetByPaymentReference retrieves the order holding the given payment
	// reference. Returns nil if none matches.
	GetByPaymentReference(ctx context.Context, reference string) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// ListAll retrieves all orders with pagination (admin).
	ListAll(ctx context.Context, limit, offset int) ([]model.Order, int, error)

	// MarkPaid applies the PAID transition as a state-conditioned update.
	// Returns true if the state changed, false if the order was already
	// paid (a no-op, not an error).
	MarkPaid(ctx context.Context, id uuid.UUID, result model.PaymentResult) (bool, error)

	// MarkDelivered applies the DELIVERED transition. Returns true if the
	// state changed, false if already delivered.
	MarkDelivered(ctx context.Context, id uuid.UUID) (bool, error)

	// Cancel transitions a pending or processing order to cancelled and
	// returns its items to stock, all in one transaction.
	Cancel(ctx context.Context, id uuid.UUID) error

	// CreditReward credits the order total to the owning user's lifetime
	// purchases, at most once per order. Returns whether the credit was
	// applied and the user's resulting lifetime total.
	CreditReward(ctx context.Context, orderID uuid.UUID) (bool, int64, error)
}

// UserRepository defines the interface for user account data access.
type UserRepository interface {
	// Create inserts a user, failing with ErrEmailTaken on a duplicate email.
	Create(ctx context.Context, u *model.User) error

	// GetByEmail retrieves a user by email. Returns nil if not found.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by id. Returns nil if not found.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// NotificationRepository defines the interface for the admin notification
// side-channel.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	List(ctx context.Context, limit, offset int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
