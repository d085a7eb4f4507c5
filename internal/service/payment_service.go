package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"derinfoods/internal/model"
	"derinfoods/internal/notify"
	"derinfoods/internal/payment"
	"derinfoods/internal/repository"

	"github.com/rs/zerolog"
)

// paymentService implements PaymentService. Both the pull path (client-side
// verify) and the push path (processor webhook) funnel into reconcile, so a
// payment reference can only ever be applied once regardless of how many
// confirmations arrive or in what order.
type paymentService struct {
	orderRepo repository.OrderRepository
	client    *payment.Client
	secretKey string
	notifier  notify.Notifier
	logger    zerolog.Logger
}

// NewPaymentService creates a new payment reconciliation service.
func NewPaymentService(
	orderRepo repository.OrderRepository,
	client *payment.Client,
	secretKey string,
	notifier notify.Notifier,
	logger zerolog.Logger,
) PaymentService {
	return &paymentService{
		orderRepo: orderRepo,
		client:    client,
		secretKey: secretKey,
		notifier:  notifier,
		logger:    logger.With().Str("service", "payment").Logger(),
	}
}

// Verify pull-verifies a reference against the processor and applies the
// PAID transition. Safe to call any number of times for the same reference.
func (s *paymentService) Verify(ctx context.Context, reference string) (*model.Order, error) {
	if reference == "" {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Payment reference is required")
	}
	return s.reconcile(ctx, reference)
}

// webhookEvent is the subset of the processor's webhook payload we act on.
type webhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
	} `json:"data"`
}

// HandleWebhook authenticates a processor push notification and applies it.
// The signature is checked before the payload is parsed; an unsigned or
// mis-signed body is rejected outright.
func (s *paymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	if !payment.VerifySignature(s.secretKey, payload, signature) {
		s.logger.Warn().Msg("webhook rejected: invalid signature")
		return model.ErrInvalidSignature
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return model.NewDomainError(model.ErrCodeValidation, "Malformed webhook payload")
	}

	if event.Event != "charge.success" {
		s.logger.Debug().Str("event", event.Event).Msg("ignoring webhook event")
		return nil
	}
	if event.Data.Reference == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Webhook payload missing payment reference")
	}

	// Webhooks are advisory: the reference is still re-verified against
	// the processor's verify endpoint before any state changes.
	_, err := s.reconcile(ctx, event.Data.Reference)
	return err
}

// reconcile is the single path from a payment reference to a paid order.
func (s *paymentService) reconcile(ctx context.Context, reference string) (*model.Order, error) {
	txn, err := s.client.VerifyTransaction(ctx, reference)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Str("reference", reference).
			Bool("retryable", payment.Retryable(err)).
			Msg("transaction verification failed")
		return nil, err
	}
	if !txn.Successful() {
		s.logger.Info().
			Str("reference", reference).
			Str("txn_status", txn.Status).
			Msg("transaction not successful")
		return nil, model.ErrPaymentNotSuccessful
	}

	order, err := s.orderRepo.GetByPaymentReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to look up order: %w", err)
	}
	if order == nil {
		s.logger.Warn().Str("reference", reference).Msg("confirmed payment has no matching order")
		return nil, model.ErrOrderNotFound
	}

	if txn.Amount != order.TotalPrice {
		s.logger.Error().
			Str("order_id", order.ID.String()).
			Int64("order_total", order.TotalPrice).
			Int64("txn_amount", txn.Amount).
			Msg("paid amount does not match order total")
		return nil, model.NewDomainError(model.ErrCodePaymentNotSuccessful,
			"Paid amount does not match the order total")
	}

	result := model.PaymentResult{
		ProviderID: strconv.FormatInt(txn.ID, 10),
		Status:     txn.Status,
		PaidAt:     txn.PaidAt,
		PayerEmail: txn.CustomerEmail,
	}

	changed, err := s.orderRepo.MarkPaid(ctx, order.ID, result)
	if err != nil {
		return nil, err
	}

	// Credit on every reconcile, not just the transitioning one: the
	// reward_credited flag makes it a no-op once applied, and a crash
	// between MarkPaid and the credit heals on the next verify.
	if _, _, err := s.orderRepo.CreditReward(ctx, order.ID); err != nil {
		return nil, fmt.Errorf("failed to credit reward: %w", err)
	}

	if changed {
		s.logger.Info().
			Str("order_id", order.ID.String()).
			Str("reference", reference).
			Msg("order marked paid")
	} else {
		s.logger.Debug().
			Str("order_id", order.ID.String()).
			Str("reference", reference).
			Msg("order already paid, confirmation ignored")
	}

	order, err = s.orderRepo.GetByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if changed {
		s.notifier.OrderPaid(order)
	}

	return order, nil
}
