package testutil

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite" // Test Package
)

// SetupTestDB creates an in-memory SQLite database for testing.
// The database is automatically cleaned up when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// In-memory database (destroyed when connection closes)
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	// Configure SQLite for testing
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA timezone = 'UTC'",
		"PRAGMA journal_mode = MEMORY", // Faster for tests
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			t.Fatalf("Failed to set pragma: %v", err)
		}
	}

	// Create schema
	if err := createTestSchema(db); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// createTestSchema creates all database tables for testing.
// Schema is synchronized with the goose migrations.
func createTestSchema(db *sql.DB) error {
	schema := `
		-- Transaction table (quoted because transaction is a reserved keyword)
		CREATE TABLE IF NOT EXISTS "transaction" (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			date DATE NOT NULL,
			symbol VARCHAR(10) NOT NULL,
			action VARCHAR(4) NOT NULL,
			amount FLOAT NOT NULL,
			price FLOAT NOT NULL,
			fees FLOAT NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_transaction_date ON "transaction"(date);

		-- Cash flow table
		CREATE TABLE IF NOT EXISTS cash_flow (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			date DATE NOT NULL,
			amount FLOAT NOT NULL,
			flow_type VARCHAR(10) NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE INDEX IF NOT EXISTS idx_cash_flow_date ON cash_flow(date);

		-- Price cache table
		CREATE TABLE IF NOT EXISTS price_cache (
			symbol VARCHAR(10) NOT NULL,
			date DATE NOT NULL,
			price FLOAT NOT NULL,
			PRIMARY KEY (symbol, date)
		);

		CREATE INDEX IF NOT EXISTS idx_price_cache_date ON price_cache(date);
	`

	_, err := db.Exec(schema)
	return err
}
