package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus describes where an order sits in its lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// CanCancel reports whether an order in this status may still be cancelled.
func (s OrderStatus) CanCancel() bool {
	return s == OrderStatusPending || s == OrderStatusProcessing
}

// Terminal reports whether the status admits no further transitions.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// Payment methods accepted at checkout.
const (
	PaymentMethodCard           = "card"
	PaymentMethodBankTransfer   = "bank_transfer"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// ValidPaymentMethods is the set of accepted payment methods.
var ValidPaymentMethods = map[string]bool{
	PaymentMethodCard:           true,
	PaymentMethodBankTransfer:   true,
	PaymentMethodCashOnDelivery: true,
}

// ShippingAddress is the destination recorded on an order.
type ShippingAddress struct {
	Address    string `json:"address" db:"ship_address"`
	City       string `json:"city" db:"ship_city"`
	PostalCode string `json:"postalCode" db:"ship_postal_code"`
	Country    string `json:"country" db:"ship_country"`
}

// PaymentResult is the snapshot of a processor confirmation stored on the order.
type PaymentResult struct {
	ProviderID string    `json:"providerId"`
	Status     string    `json:"status"`
	PaidAt     time.Time `json:"paidAt"`
	PayerEmail string    `json:"payerEmail"`
}

// Order is a durable financial record. Line items are snapshots taken at
// creation time; they are never re-joined against live product prices.
// All amounts are in kobo.
type Order struct {
	ID               uuid.UUID       `json:"id"`
	UserID           *uuid.UUID      `json:"userId,omitempty"`
	GuestEmail       *string         `json:"guestEmail,omitempty"`
	Items            []OrderItem     `json:"items"`
	ShippingAddress  ShippingAddress `json:"shippingAddress"`
	PaymentMethod    string          `json:"paymentMethod"`
	PaymentReference *string         `json:"paymentReference,omitempty"`
	ItemsPrice       int64           `json:"itemsPrice"`
	ShippingPrice    int64           `json:"shippingPrice"`
	TotalPrice       int64           `json:"totalPrice"`
	Status           OrderStatus     `json:"status"`
	IsPaid           bool            `json:"isPaid"`
	PaidAt           *time.Time      `json:"paidAt,omitempty"`
	PaymentResult    *PaymentResult  `json:"paymentResult,omitempty"`
	IsDelivered      bool            `json:"isDelivered"`
	DeliveredAt      *time.Time      `json:"deliveredAt,omitempty"`
	RewardCredited   bool            `json:"-"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// OrderItem is an immutable snapshot of a purchased product.
type OrderItem struct {
	ID        uuid.UUID `json:"-" db:"id"`
	OrderID   uuid.UUID `json:"-" db:"order_id"`
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	UnitPrice int64     `json:"unitPrice" db:"unit_price"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Image     string    `json:"image" db:"image"`
}

// OrderRequest is the payload for submitting an order. Client-supplied
// totals are verified against the server-side computation, never trusted.
type OrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress ShippingAddress    `json:"shippingAddress"`
	PaymentMethod   string             `json:"paymentMethod"`
	GuestEmail      *string            `json:"guestEmail,omitempty"`
	ItemsPrice      int64              `json:"itemsPrice"`
	ShippingPrice   int64              `json:"shippingPrice"`
	TotalPrice      int64              `json:"totalPrice"`
}

// OrderItemRequest is a single requested line in an order submission.
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// OrderPage is the paginated envelope for admin order listings.
type OrderPage struct {
	Items []Order `json:"items"`
	Page  int     `json:"page"`
	Pages int     `json:"pages"`
	Total int     `json:"total"`
}
