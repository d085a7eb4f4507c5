package main

import (
	"context"
	"log"
	"os"
	"time"

	"derinfoods/internal/config"
	"derinfoods/internal/database"
	"derinfoods/internal/model"
	"derinfoods/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Seeds the catalogue with a starter set of products. Safe to run against an
// empty database after migrations; duplicate names are not checked.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	if err := repository.Migrate(ctx, pool); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	repo := repository.NewProductRepository(pool, logger)

	products := []model.CreateProductRequest{
		{Name: "Egusi (Ground Melon Seeds) 1kg", Description: "Finely ground melon seeds for soups", Category: "spices", Price: 3_500_00, Stock: 80},
		{Name: "Suya Spice Mix 100g", Description: "Yaji blend of groundnut and pepper", Category: "spices", Price: 1_200_00, Stock: 150},
		{Name: "Ofada Rice 5kg", Description: "Locally grown unpolished rice", Category: "grains", Price: 8_500_00, Stock: 40},
		{Name: "Honey Beans (Oloyin) 4kg", Description: "Sweet Nigerian brown beans", Category: "grains", Price: 7_000_00, Stock: 55},
		{Name: "Red Palm Oil 2L", Description: "Unrefined palm oil from Edo state", Category: "oils", Price: 4_500_00, Stock: 60},
		{Name: "Groundnut Oil 3L", Description: "Cold-pressed groundnut oil", Category: "oils", Price: 6_500_00, Stock: 35},
		{Name: "Plantain Chips 200g", Description: "Crunchy ripe plantain chips", Category: "snacks", Price: 800_00, Stock: 200},
		{Name: "Chin Chin 350g", Description: "Crunchy fried pastry snack", Category: "snacks", Price: 1_500_00, Stock: 120},
		{Name: "Zobo Leaves 250g", Description: "Dried hibiscus for zobo drink", Category: "beverages", Price: 1_000_00, Stock: 90},
		{Name: "Frozen Chopped Ugu 500g", Description: "Flash-frozen fluted pumpkin leaves", Category: "frozen", Price: 2_000_00, Stock: 45},
	}

	now := time.Now()
	for _, req := range products {
		p := &model.Product{
			ID:          uuid.New(),
			Name:        req.Name,
			Description: req.Description,
			Category:    req.Category,
			Price:       req.Price,
			Stock:       req.Stock,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := repo.Create(ctx, p); err != nil {
			log.Fatalf("Failed to seed product %q: %v", p.Name, err)
		}
		logger.Info().Str("name", p.Name).Msg("seeded product")
	}

	logger.Info().Int("count", len(products)).Msg("catalogue seeded")
}
