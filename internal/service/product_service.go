package service

import (
	"context"
	"fmt"
	"time"

	"derinfoods/internal/model"
	"derinfoods/internal/notify"
	"derinfoods/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// productService implements ProductService.
type productService struct {
	repo     repository.ProductRepository
	notifier notify.Notifier
	logger   zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(repo repository.ProductRepository, notifier notify.Notifier, logger zerolog.Logger) ProductService {
	return &productService{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With().Str("service", "product").Logger(),
	}
}

// Create validates and inserts a new product.
func (s *productService) Create(ctx context.Context, req *model.CreateProductRequest) (*model.Product, error) {
	if err := validateProductFields(req.Name, req.Description, req.Category, req.Price, req.Stock); err != nil {
		return nil, err
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Image:       req.Image,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().
		Str("product_id", product.ID.String()).
		Str("name", product.Name).
		Msg("product created")

	s.notifier.ProductChanged(fmt.Sprintf("Product %q added to the catalogue", product.Name))

	return product, nil
}

// Update applies a partial patch to an existing product.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateProductRequest) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	priceChanged := false
	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Price != nil && *req.Price != product.Price {
		product.Price = *req.Price
		priceChanged = true
	}
	if req.Image != nil {
		product.Image = *req.Image
	}

	if err := validateProductFields(product.Name, product.Description, product.Category, product.Price, product.Stock); err != nil {
		return nil, err
	}

	product.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, product, priceChanged); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("product_id", id.String()).
		Bool("price_changed", priceChanged).
		Msg("product updated")

	s.notifier.ProductChanged(fmt.Sprintf("Product %q updated", product.Name))

	return product, nil
}

// AdjustStock applies an explicit stock delta (restock, return, manual
// correction). The check and the mutation are one atomic update, so
// concurrent adjustments can never drive stock negative.
func (s *productService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*model.Product, error) {
	if delta == 0 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Stock delta cannot be zero")
	}

	if err := s.repo.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}

	product, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to reload product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().
		Str("product_id", id.String()).
		Int("delta", delta).
		Int("stock", product.Stock).
		Msg("stock adjusted")

	s.notifier.ProductChanged(fmt.Sprintf("Stock for %q adjusted by %d", product.Name, delta))

	return product, nil
}

// Deactivate soft-deletes a product. Historical orders keep their snapshots.
func (s *productService) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("product_id", id.String()).Msg("product deactivated")
	s.notifier.ProductChanged(fmt.Sprintf("Product %s removed from the catalogue", id))

	return nil
}

// GetActiveByID retrieves a single active product.
func (s *productService) GetActiveByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}
	return product, nil
}

// ListActive retrieves a page of active products.
func (s *productService) ListActive(ctx context.Context, category string, page, pageSize int) (*model.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 50 {
		pageSize = 10
	}
	if category != "" && !model.ValidCategories[category] {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Unknown category")
	}

	offset := (page - 1) * pageSize
	products, total, err := s.repo.ListActive(ctx, category, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	pages := (total + pageSize - 1) / pageSize
	if pages == 0 {
		pages = 1
	}

	if products == nil {
		products = []model.Product{}
	}

	return &model.ProductPage{
		Items: products,
		Page:  page,
		Pages: pages,
		Total: total,
	}, nil
}

// AdminGetByID retrieves any product with its price history.
func (s *productService) AdminGetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.repo.GetByID(ctx, id, true)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	history, err := s.repo.GetPriceHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get price history: %w", err)
	}
	product.PriceHistory = history

	return product, nil
}

func validateProductFields(name, description, category string, price int64, stock int) error {
	if name == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Product name is required")
	}
	if description == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Product description is required")
	}
	if !model.ValidCategories[category] {
		return model.NewDomainError(model.ErrCodeValidation, "Unknown category")
	}
	if price < 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Price cannot be negative")
	}
	if stock < 0 {
		return model.NewDomainError(model.ErrCodeValidation, "Stock cannot be negative")
	}
	return nil
}
