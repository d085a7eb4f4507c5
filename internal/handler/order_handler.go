package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"derinfoods/internal/middleware"
	"derinfoods/internal/model"
	"derinfoods/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Create handles POST /api/orders. Authenticated users and guests may both
// submit; guests supply their email in the request body.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, model.NewDomainError(model.ErrCodeValidation, "Invalid request body"), h.logger)
		return
	}

	actor := middleware.UserFromContext(r.Context())

	order, err := h.service.Submit(r.Context(), &req, actor)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id}. Guests identify themselves with the
// X-Guest-Email header.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	actor := middleware.UserFromContext(r.Context())
	guestEmail := r.Header.Get("X-Guest-Email")

	order, err := h.service.GetByID(r.Context(), id, actor, guestEmail)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// ListMine handles GET /api/orders/myorders.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	actor := middleware.UserFromContext(r.Context())

	orders, err := h.service.ListMine(r.Context(), actor)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

// ListAll handles GET /api/orders (admin).
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	pageSize, _ := strconv.Atoi(q.Get("pageSize"))

	result, err := h.service.ListAll(r.Context(), page, pageSize)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// MarkPaid handles PUT /api/orders/{id}/pay (admin), for offline payment
// methods confirmed out of band.
func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	order, err := h.service.MarkPaid(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// MarkDelivered handles PUT /api/orders/{id}/deliver (admin).
func (h *OrderHandler) MarkDelivered(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	order, err := h.service.MarkDelivered(r.Context(), id)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Cancel handles PUT /api/orders/{id}/cancel.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, model.ErrOrderNotFound, h.logger)
		return
	}

	actor := middleware.UserFromContext(r.Context())
	guestEmail := r.Header.Get("X-Guest-Email")

	order, err := h.service.Cancel(r.Context(), id, actor, guestEmail)
	if err != nil {
		writeError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
