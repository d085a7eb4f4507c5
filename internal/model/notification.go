package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types emitted by order and payment events.
const (
	NotificationOrderCreated   = "order_created"
	NotificationOrderPaid      = "order_paid"
	NotificationOrderCancelled = "order_cancelled"
	NotificationProductChanged = "product_changed"
)

// Notification is an administrative side-channel record. It is never on the
// critical path: failure to persist one must not fail the originating event.
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	OrderID   *uuid.UUID `json:"orderId,omitempty"`
	UserID    *uuid.UUID `json:"userId,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"createdAt"`
}
