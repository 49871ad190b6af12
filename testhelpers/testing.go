package testhelpers

import (
	"context"
	"os"
	"testing"

	"laundryops/internal/models"
	"laundryops/internal/repositories"
	"laundryops/pkg/database"
	"laundryops/pkg/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TestDatabaseURLEnv names the Postgres instance integration tests run against.
const TestDatabaseURLEnv = "LAUNDRY_TEST_DATABASE_URL"

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to the integration database, migrates it and empties the
// inventory tables. The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv(TestDatabaseURLEnv)
	if connString == "" {
		t.Skipf("%s not set; skipping integration test", TestDatabaseURLEnv)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.MigratePostgres(ctx, pool, logger.Nop()); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	truncate := func() error {
		_, err := pool.Exec(ctx, `TRUNCATE inventory_transactions, inventory_items`)
		return err
	}
	if err := truncate(); err != nil {
		pool.Close()
		t.Fatalf("Failed to reset test database: %v", err)
	}

	db := &TestDB{
		Pool: pool,
		Cleanup: func() error {
			defer pool.Close()
			return truncate()
		},
	}
	t.Cleanup(func() {
		if err := db.Cleanup(); err != nil {
			t.Errorf("cleanup test database: %v", err)
		}
	})
	return db
}

// SetupTestItem stores a detergent item whose ledger starts with a single initial entry.
func SetupTestItem(t *testing.T, db *TestDB, quantity, reorderLevel string) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:           uuid.New(),
		Name:         "Test Detergent",
		Category:     "detergent",
		Unit:         "liters",
		ReorderLevel: decimal.RequireFromString(reorderLevel),
	}
	initial := &models.InventoryTransaction{
		ID:            uuid.New(),
		Type:          models.TransactionInitial,
		QuantityDelta: decimal.RequireFromString(quantity),
	}
	if err := repositories.NewInventoryRepo(db.Pool).Create(context.Background(), item, initial); err != nil {
		t.Fatalf("Failed to create test item: %v", err)
	}
	return item
}
