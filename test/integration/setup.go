package integration

import (
	"context"
	"testing"
	"time"

	"zip-gate/internal/database"
	"zip-gate/internal/model"

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

// SetupTestDB creates a PostgreSQL test container and connection pool.
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

	// Create connection pool against the container's mapped port
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Create schema
	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
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

// SeedCodes inserts test code records into the database.
func SeedCodes(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	codes := []struct {
		zipCode      string
		availability string
		message      string
	}{
		{"90210", model.AvailabilityAvailable, ""},
		{"10001", model.AvailabilityAvailable, "Free delivery on orders over $50."},
		{"60601", model.AvailabilityUnavailable, ""},
		{"K1A 0B1", model.AvailabilityAvailable, ""},
		{"SW1A 1AA", model.AvailabilityUnavailable, "Coming to your area soon!"},
	}

	for _, c := range codes {
		_, err := pool.Exec(ctx,
			"INSERT INTO codes (zip_code, availability, message) VALUES ($1, $2, $3)",
			c.zipCode, c.availability, c.message,
		)
		if err != nil {
			t.Fatalf("failed to seed code %s: %v", c.zipCode, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	if _, err := pool.Exec(ctx, "DELETE FROM codes"); err != nil {
		t.Logf("failed to clean codes table: %v", err)
	}
}
