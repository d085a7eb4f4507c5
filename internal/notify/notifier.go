// Package notify emits administrative notifications for order and catalogue
// events. Emission is fire-and-forget: it never blocks or fails the
// originating mutation.
package notify

import (
	"context"
	"fmt"
	"time"

	"derinfoods/internal/model"
	"derinfoods/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Notifier publishes events to the admin notification side-channel.
type Notifier interface {
	OrderCreated(order *model.Order)
	OrderPaid(order *model.Order)
	OrderCancelled(order *model.Order)
	ProductChanged(message string)
}

const emitTimeout = 5 * time.Second

// storeNotifier persists notifications asynchronously.
type storeNotifier struct {
	repo   repository.NotificationRepository
	logger zerolog.Logger
}

// NewNotifier creates a notifier backed by the notification repository.
func NewNotifier(repo repository.NotificationRepository, logger zerolog.Logger) Notifier {
	return &storeNotifier{
		repo:   repo,
		logger: logger.With().Str("component", "notifier").Logger(),
	}
}

func (n *storeNotifier) emit(notification model.Notification) {
	notification.ID = uuid.New()
	notification.CreatedAt = time.Now()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), emitTimeout)
		defer cancel()

		if err := n.repo.Create(ctx, &notification); err != nil {
			n.logger.Warn().
				Err(err).
				Str("type", notification.Type).
				Msg("failed to store notification")
		}
	}()
}

func naira(kobo int64) string {
	return fmt.Sprintf("₦%d.%02d", kobo/100, kobo%100)
}

func (n *storeNotifier) OrderCreated(order *model.Order) {
	n.emit(model.Notification{
		Type:    model.NotificationOrderCreated,
		Message: fmt.Sprintf("New order %s for %s", order.ID, naira(order.TotalPrice)),
		OrderID: &order.ID,
		UserID:  order.UserID,
	})
}

func (n *storeNotifier) OrderPaid(order *model.Order) {
	n.emit(model.Notification{
		Type:    model.NotificationOrderPaid,
		Message: fmt.Sprintf("Order %s paid: %s", order.ID, naira(order.TotalPrice)),
		OrderID: &order.ID,
		UserID:  order.UserID,
	})
}

func (n *storeNotifier) OrderCancelled(order *model.Order) {
	n.emit(model.Notification{
		Type:    model.NotificationOrderCancelled,
		Message: fmt.Sprintf("Order %s cancelled", order.ID),
		OrderID: &order.ID,
		UserID:  order.UserID,
	})
}

func (n *storeNotifier) ProductChanged(message string) {
	n.emit(model.Notification{
		Type:    model.NotificationProductChanged,
		Message: message,
	})
}
