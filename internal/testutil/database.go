package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	_ "github.com/go-sql-driver/mysql"

	"storefront/internal/infrastructure/migrations"
)

const defaultTestDSN = "root:@tcp(localhost:3306)/storefront_test?parseTime=true&loc=UTC"

// SetupTestDB opens the integration database named by TEST_DATABASE_DSN and skips the
// test when it cannot be reached.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		dsn = defaultTestDSN
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// SetupTestTables applies the embedded migrations.
func SetupTestTables(t *testing.T, db *sql.DB) {
	t.Helper()

	if err := migrations.Up(context.Background(), db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
}

// CleanupTestDB empties every table, children first, and closes db.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"payments", "shipping_addresses", "order_items", "orders", "products", "categories", "users"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}
