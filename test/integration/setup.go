package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"derinfoods/internal/model"
	"derinfoods/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and runs
// the embedded migrations.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Apply the real schema migrations
	if err := repository.Migrate(ctx, pool); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedProduct inserts a product directly and returns it.
func SeedProduct(t *testing.T, pool *pgxpool.Pool, name, category string, price int64, stock int) *model.Product {
	t.Helper()

	ctx := context.Background()
	now := time.Now()
	p := &model.Product{
		ID:          uuid.New(),
		Name:        name,
		Description: name,
		Category:    category,
		Price:       price,
		Stock:       stock,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO products (id, name, description, category, price, stock, sold, image, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, 0, '', TRUE, $7, $7)
	`, p.ID, p.Name, p.Description, p.Category, p.Price, p.Stock, now)
	if err != nil {
		t.Fatalf("failed to seed product %s: %v", name, err)
	}

	return p
}

// SeedUser inserts a user with the given role and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool, email, role string) *model.User {
	t.Helper()

	ctx := context.Background()
	u := &model.User{
		ID:        uuid.New(),
		Name:      "Test User",
		Email:     email,
		Role:      role,
		CreatedAt: time.Now(),
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, total_purchases, created_at)
		VALUES ($1, $2, $3, 'x', $4, 0, $5)
	`, u.ID, u.Name, u.Email, u.Role, u.CreatedAt)
	if err != nil {
		t.Fatalf("failed to seed user %s: %v", email, err)
	}

	return u
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"notifications", "order_items", "orders", "price_history", "products", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
