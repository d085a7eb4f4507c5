package service

import (
	"context"

	"derinfoods/internal/model"

	"github.com/google/uuid"
)

// ProductService defines operations on the product catalogue.
type ProductService interface {
	// Create validates and inserts a new product with its initial price
	// history entry.
	Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error)

	// Update applies a partial patch; price changes append to the price history.
	Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error)

	// AdjustStock applies stock += delta atomically, failing if the
	// result would go negative. Returns the product after the adjustment.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*model.Product, error)

	// Deactivate soft-deletes a product.
	Deactivate(ctx context.Context, id uuid.UUID) error

	// GetActiveByID retrieves a single active product.
	GetActiveByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// ListActive retrieves a page of active products.
	ListActive(ctx context.Context, category string, page, pageSize int) (*model.ProductPage, error)

	// AdminGetByID retrieves any product, active or not, with price history.
	AdminGetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// OrderService owns order creation and every state transition.
type OrderService interface {
	// Submit validates a candidate order against the catalogue, recomputes
	// authoritative pricing, and persists the order together with its
	// stock decrements in one transaction.
	Submit(ctx context.Context, req *model.OrderRequest, actor *model.AuthUser) (*model.Order, error)

	// GetByID retrieves an order subject to access control: owner, admin,
	// or guest order with matching guest email.
	GetByID(ctx context.Context, id uuid.UUID, actor *model.AuthUser, guestEmail string) (*model.Order, error)

	// ListMine retrieves the acting user's orders.
	ListMine(ctx context.Context, actor *model.AuthUser) ([]model.Order, error)

	// ListAll retrieves a page of all orders (admin).
	ListAll(ctx context.Context, page, pageSize int) (*model.OrderPage, error)

	// MarkPaid applies the PAID transition manually (admin, offline
	// payment methods). Idempotent.
	MarkPaid(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// MarkDelivered applies the DELIVERED transition. Idempotent.
	MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// Cancel cancels a pending or processing order and restocks its items.
	Cancel(ctx context.Context, id uuid.UUID, actor *model.AuthUser, guestEmail string) (*model.Order, error)
}

// PaymentService reconciles external payment confirmations with orders,
// exactly once per payment reference.
type PaymentService interface {
	// Verify pull-verifies a payment reference against the processor and
	// applies the PAID transition idempotently.
	Verify(ctx context.Context, reference string) (*model.Order, error)

	// HandleWebhook authenticates and applies a processor push notification.
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// UserService manages user accounts and credentials.
type UserService interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

// NotificationService exposes the admin notification side-channel.
type NotificationService interface {
	List(ctx context.Context, limit, offset int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}
