package handler

import (
	"io"
	"net/http"

	"derinfoods/internal/model"
	"derinfoods/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// PaymentHandler handles payment verification and webhook requests.
type PaymentHandler struct {
	service service.PaymentService
	logger  zerolog.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(service service.PaymentService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger.With().Str("handler", "payment").Logger(),
	}
}

// Verify handles GET /api/payments/verify/{reference}. Clients call this
// after being redirected back from the payment page.
func (h *PaymentHandler) Verify(w http.ResponseWriter, r *http.Request) {
	reference := chi.URLParam(r, "reference")

	order, err := h.service.Verify(r.Context(), reference)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Webhook handles POST /api/payments/webhook, the processor's push channel.
// The processor retries on non-2xx responses, so transient failures return
// 5xx and permanent rejections return 4xx.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeValidation, "Unreadable webhook body"), h.logger)
		return
	}

	signature := r.Header.Get("X-Paystack-Signature")

	if err := h.service.HandleWebhook(r.Context(), payload, signature); err != nil {
		writeError(w, err, h.logger)
		return
	}

	w.WriteHeader(http.StatusOK)
}
