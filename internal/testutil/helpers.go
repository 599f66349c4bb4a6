package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/marketdata"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

func NewTestLedgerService(t *testing.T, db *sql.DB) *service.LedgerService {
	t.Helper()

	return service.NewLedgerService(repository.NewLedgerRepository(db))
}

// NewTestPriceFetchConfig returns a fetch configuration tuned for tests:
// a millisecond retry delay so retry paths run near-instantly.
func NewTestPriceFetchConfig() config.PriceFetchConfig {
	return config.PriceFetchConfig{
		Provider:        "yahoo",
		RetryAttempts:   3,
		RetryDelay:      time.Millisecond,
		FallbackDays:    30,
		BenchmarkSymbol: "SPY",
	}
}

func NewTestPriceSourceService(t *testing.T, client marketdata.Client) *service.PriceSourceService {
	t.Helper()

	return service.NewPriceSourceService(client, NewTestPriceFetchConfig())
}

func NewTestPriceResolverService(t *testing.T, db *sql.DB, client marketdata.Client) *service.PriceResolverService {
	t.Helper()

	priceCacheRepo := repository.NewPriceCacheRepository(db)
	priceSourceService := service.NewPriceSourceService(client, NewTestPriceFetchConfig())

	return service.NewPriceResolverService(priceCacheRepo, priceSourceService)
}

func NewTestValuationService(t *testing.T, db *sql.DB, client marketdata.Client) *service.ValuationService {
	t.Helper()

	ledgerService := NewTestLedgerService(t, db)
	priceCacheRepo := repository.NewPriceCacheRepository(db)
	priceSourceService := service.NewPriceSourceService(client, NewTestPriceFetchConfig())
	priceResolverService := service.NewPriceResolverService(priceCacheRepo, priceSourceService)

	return service.NewValuationService(
		ledgerService,
		priceResolverService,
		priceSourceService,
		priceCacheRepo,
		"SPY",
	)
}

func NewTestRefreshService(t *testing.T, db *sql.DB, client marketdata.Client) *service.RefreshService {
	t.Helper()

	ledgerService := NewTestLedgerService(t, db)
	priceResolverService := NewTestPriceResolverService(t, db, client)

	return service.NewRefreshService(ledgerService, priceResolverService, "SPY")
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeSymbol generates a stock ticker symbol for testing.
//
// Example usage:
//
//	symbol := testutil.MakeSymbol("AAPL")
//	// Returns: "AAPL1A2B"
func MakeSymbol(base string) string {
	if base == "" {
		base = "TEST"
	}
	return base + randomAlphanumeric(4)
}

// Date parses a YYYY-MM-DD string into a UTC time, failing the test on
// malformed input.
//
// Example usage:
//
//	date := testutil.Date(t, "2024-01-15")
func Date(t *testing.T, value string) time.Time {
	t.Helper()

	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("Invalid test date %q: %v", value, err)
	}
	return date
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
