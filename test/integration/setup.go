package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"jerseylab-api/internal/database"
	"jerseylab-api/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
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

// SetupTestDB creates a PostgreSQL test container, a connection pool, and
// applies the schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

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

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
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

// CleanupDB removes all data from the test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"orders", "promo_codes", "products", "categories", "teamwear_inquiries", "admins"}
	for _, table := range tables {
		if _, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}

// SeedProducts inserts test jerseys into the database.
func SeedProducts(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	products := []struct {
		id          string
		name        string
		price       float64
		categoryKey string
	}{
		{"retro-brazil-70", "Brazil 1970 Home", 51.50, "retro"},
		{"retro-italy-82", "Italy 1982 Home", 49.99, "retro"},
		{"nat-france-home", "France Home", 89.99, "national"},
	}

	for _, p := range products {
		_, err := pool.Exec(ctx,
			`INSERT INTO products (id, name, price, category_key, sizes) VALUES ($1, $2, $3, $4, '["S","M","L","XL"]')`,
			p.id, p.name, p.price, p.categoryKey,
		)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.id, err)
		}
	}
}

// NewTestOrder builds a persistable order for the given payment intent.
func NewTestOrder(paymentIntentID, orderNumber string) *model.Order {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &model.Order{
		ID:          uuid.New(),
		OrderNumber: orderNumber,
		Email:       "customer@example.com",
		Items: []model.OrderItem{
			{ProductID: "retro-brazil-70", Name: "Brazil 1970 Home", Price: 51.50, Size: "L", Quantity: 2},
		},
		ShippingAddress: model.ShippingAddress{
			Name: "Ada Example", Email: "customer@example.com",
			Address: "1 Main St", City: "Springfield", State: "IL", ZipCode: "62701", Country: "US",
		},
		Subtotal:        103,
		Total:           103,
		PaymentIntentID: paymentIntentID,
		PaymentStatus:   model.PaymentSucceeded,
		OrderStatus:     model.OrderConfirmed,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
