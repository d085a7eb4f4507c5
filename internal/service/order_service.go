package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"derinfoods/internal/config"
	"derinfoods/internal/model"
	"derinfoods/internal/notify"
	"derinfoods/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	notifier    notify.Notifier
	shipping    config.ShippingConfig
	logger      zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	notifier notify.Notifier,
	shipping config.ShippingConfig,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		notifier:    notifier,
		shipping:    shipping,
		logger:      logger.With().Str("service", "order").Logger(),
	}
}

// shippingFee applies the configured shipping rule: free at or above the
// threshold, flat fee otherwise.
func (s *orderService) shippingFee(itemsPrice int64) int64 {
	if itemsPrice >= s.shipping.FreeThreshold {
		return 0
	}
	return s.shipping.FlatFee
}

// Submit turns a client-submitted cart into a durable, price-correct order.
// The order insert and every stock decrement commit or roll back together.
func (s *orderService) Submit(ctx context.Context, req *model.OrderRequest, actor *model.AuthUser) (*model.Order, error) {
	if err := s.validateOrderRequest(req, actor); err != nil {
		return nil, err
	}

	// Revalidate every line against the catalogue and recompute
	// authoritative pricing from current server-known prices. Client
	// prices are never trusted.
	var itemsPrice int64
	items := make([]model.OrderItem, len(req.Items))
	for i, line := range req.Items {
		product, err := s.productRepo.GetByID(ctx, line.ProductID, false)
		if err != nil {
			return nil, fmt.Errorf("failed to load product: %w", err)
		}
		if product == nil {
			s.logger.Warn().Str("product_id", line.ProductID.String()).Msg("order references unavailable product")
			return nil, model.ErrProductUnavailable
		}
		if product.Stock < line.Quantity {
			return nil, model.ErrInsufficientStock
		}

		itemsPrice += product.Price * int64(line.Quantity)
		items[i] = model.OrderItem{
			ID:        uuid.New(),
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  line.Quantity,
			Image:     product.Image,
		}
	}

	shippingPrice := s.shippingFee(itemsPrice)
	totalPrice := itemsPrice + shippingPrice

	// Exact comparison, integer kobo. Any deviation means the client
	// computed against stale or tampered prices.
	if req.ItemsPrice != itemsPrice || req.ShippingPrice != shippingPrice || req.TotalPrice != totalPrice {
		s.logger.Warn().
			Int64("client_total", req.TotalPrice).
			Int64("server_total", totalPrice).
			Msg("order totals mismatch")
		return nil, model.ErrTotalMismatch
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      totalPrice,
		Status:          model.OrderStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if actor != nil {
		userID := actor.ID
		order.UserID = &userID
	} else {
		email := strings.ToLower(strings.TrimSpace(*req.GuestEmail))
		order.GuestEmail = &email
	}
	if req.PaymentMethod == model.PaymentMethodCard {
		ref := "DF-" + uuid.NewString()
		order.PaymentReference = &ref
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	order.Items = items

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	// The availability check and decrement are one conditional UPDATE per
	// product; a failure here rolls back the order and every prior
	// decrement, so concurrent checkouts can never oversell.
	for _, item := range items {
		if err = s.productRepo.ReserveStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
			s.logger.Warn().
				Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", item.ProductID.String()).
				Msg("stock reservation failed, rolling back order")
			return nil, err
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Int("item_count", len(items)).
		Int64("total_price", totalPrice).
		Msg("order created")

	s.notifier.OrderCreated(order)

	return order, nil
}

// validateOrderRequest rejects malformed submissions before any catalogue reads.
func (s *orderService) validateOrderRequest(req *model.OrderRequest, actor *model.AuthUser) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "Order request is required")
	}
	if len(req.Items) == 0 {
		return model.ErrEmptyOrder
	}
	for i, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return model.NewDomainError(model.ErrCodeValidation, fmt.Sprintf("Item %d: product ID is required", i))
		}
		if item.Quantity <= 0 {
			return model.ErrInvalidQuantity
		}
	}
	if !model.ValidPaymentMethods[req.PaymentMethod] {
		return model.NewDomainError(model.ErrCodeValidation, "Unknown payment method")
	}
	addr := req.ShippingAddress
	if addr.Address == "" || addr.City == "" || addr.Country == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Shipping address, city and country are required")
	}
	if actor == nil {
		if req.GuestEmail == nil || !strings.Contains(*req.GuestEmail, "@") {
			return model.NewDomainError(model.ErrCodeValidation, "Guest orders require a valid email address")
		}
	}
	return nil
}

// GetByID retrieves an order subject to access control.
func (s *orderService) GetByID(ctx context.Context, id uuid.UUID, actor *model.AuthUser, guestEmail string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if err := authorizeOrderAccess(order, actor, guestEmail); err != nil {
		return nil, err
	}

	return order, nil
}

// authorizeOrderAccess enforces the order read rule: admin, owner, or guest
// order with the matching guest email.
func authorizeOrderAccess(order *model.Order, actor *model.AuthUser, guestEmail string) error {
	if actor.IsAdmin() {
		return nil
	}
	if actor != nil && order.UserID != nil && *order.UserID == actor.ID {
		return nil
	}
	if order.UserID == nil && order.GuestEmail != nil && guestEmail != "" &&
		strings.EqualFold(*order.GuestEmail, strings.TrimSpace(guestEmail)) {
		return nil
	}
	return model.ErrNotAuthorized
}

// ListMine retrieves the acting user's orders.
func (s *orderService) ListMine(ctx context.Context, actor *model.AuthUser) ([]model.Order, error) {
	if actor == nil {
		return nil, model.ErrNotAuthorized
	}

	orders, err := s.orderRepo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	if orders == nil {
		orders = []model.Order{}
	}
	return orders, nil
}

// ListAll retrieves a page of all orders.
func (s *orderService) ListAll(ctx context.Context, page, pageSize int) (*model.OrderPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	orders, total, err := s.orderRepo.ListAll(ctx, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	if orders == nil {
		orders = []model.Order{}
	}

	return &model.OrderPage{
		Items: orders,
		Page:  page,
		Pages: pages,
		Total: total,
	}, nil
}

// MarkPaid applies the PAID transition manually, for offline payment
// methods confirmed by an administrator.
func (s *orderService) MarkPaid(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	result := model.PaymentResult{
		ProviderID: "manual",
		Status:     "success",
		PaidAt:     time.Now(),
	}

	changed, err := s.orderRepo.MarkPaid(ctx, id, result)
	if err != nil {
		return nil, err
	}

	// The reward_credited flag makes this a no-op once applied, so an
	// interrupted earlier attempt is repaired on the next call.
	if _, _, err := s.orderRepo.CreditReward(ctx, id); err != nil {
		return nil, fmt.Errorf("failed to credit reward: %w", err)
	}

	order, err := s.orderRepo.GetByID(ctx, id)
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

// MarkDelivered applies the DELIVERED transition.
func (s *orderService) MarkDelivered(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	if _, err := s.orderRepo.MarkDelivered(ctx, id); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	return order, nil
}

// Cancel cancels a pending or processing order, restocking its items.
func (s *orderService) Cancel(ctx context.Context, id uuid.UUID, actor *model.AuthUser, guestEmail string) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	if err := authorizeOrderAccess(order, actor, guestEmail); err != nil {
		return nil, err
	}

	// Terminal orders can never become cancellable again, so fail before
	// taking the row lock. Non-terminal states are re-checked under the
	// lock inside the repository.
	if order.Status.Terminal() {
		return nil, model.ErrOrderNotCancellable
	}

	if err := s.orderRepo.Cancel(ctx, id); err != nil {
		return nil, err
	}

	order, err = s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to reload order: %w", err)
	}

	s.logger.Info().Str("order_id", id.String()).Msg("order cancelled")
	s.notifier.OrderCancelled(order)

	return order, nil
}
