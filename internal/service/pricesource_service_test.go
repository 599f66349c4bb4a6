package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

// TestPriceSourceService_Retry tests the bounded retry loop around the
// market data client.
//
// WHY: Provider hiccups are routine. A fetch must survive transient failures
// by retrying up to the configured attempt count, and must not hammer the
// provider beyond it.
func TestPriceSourceService_Retry(t *testing.T) {
	t.Run("succeeds after transient failures within the attempt budget", func(t *testing.T) {
		// Setup: fail twice, then serve data (3 attempts configured)
		start := testutil.Date(t, "2024-01-01")
		end := testutil.Date(t, "2024-01-05")
		mock := testutil.NewMockMarketClient().
			WithDailyQuotes("AAPL", start, end, 100).
			WithFailuresBeforeSuccess(2, errors.New("connection reset"))
		svc := testutil.NewTestPriceSourceService(t, mock)

		// Execute
		table, err := svc.FetchHistorical(context.Background(), []string{"AAPL"}, start, end)

		// Assert
		if err != nil {
			t.Fatalf("FetchHistorical() returned unexpected error: %v", err)
		}
		if mock.HistoricalCalls != 3 {
			t.Errorf("Expected 3 provider calls, got %d", mock.HistoricalCalls)
		}
		if price, ok := table.Price("AAPL", start); !ok || price != 100 {
			t.Errorf("Expected price 100 on the first day, got %v (ok=%v)", price, ok)
		}
	})

	t.Run("a zero configured retry delay still retries", func(t *testing.T) {
		// Setup: PRICE_FETCH_RETRY_DELAY_SECONDS=0 is a valid configuration
		start := testutil.Date(t, "2024-01-01")
		end := testutil.Date(t, "2024-01-03")
		mock := testutil.NewMockMarketClient().
			WithDailyQuotes("AAPL", start, end, 100).
			WithFailuresBeforeSuccess(1, errors.New("connection reset"))
		cfg := testutil.NewTestPriceFetchConfig()
		cfg.RetryDelay = 0
		svc := service.NewPriceSourceService(mock, cfg)

		// Execute
		table, err := svc.FetchHistorical(context.Background(), []string{"AAPL"}, start, end)

		// Assert
		if err != nil {
			t.Fatalf("FetchHistorical() returned unexpected error: %v", err)
		}
		if mock.HistoricalCalls != 2 {
			t.Errorf("Expected 2 provider calls, got %d", mock.HistoricalCalls)
		}
		if !table.HasSymbol("AAPL") {
			t.Error("Expected data for AAPL after the retry")
		}
	})

	t.Run("falls back to a widened window after exhausting retries", func(t *testing.T) {
		// Setup: the primary window is always empty, but quotes exist just
		// before it, inside the fallback padding
		start := testutil.Date(t, "2024-02-01")
		end := testutil.Date(t, "2024-02-05")
		mock := testutil.NewMockMarketClient().
			WithDailyQuotes("AAPL", testutil.Date(t, "2024-01-20"), testutil.Date(t, "2024-01-25"), 100)
		svc := testutil.NewTestPriceSourceService(t, mock)

		// Execute
		table, err := svc.FetchHistorical(context.Background(), []string{"AAPL"}, start, end)

		// Assert
		if err != nil {
			t.Fatalf("FetchHistorical() returned unexpected error: %v", err)
		}
		// 3 primary attempts (empty result is retryable) plus 1 fallback
		if mock.HistoricalCalls != 4 {
			t.Errorf("Expected 4 provider calls, got %d", mock.HistoricalCalls)
		}
		// The fallback result lies outside [start, end], so after slicing
		// the symbol contributes nothing
		if table.HasSymbol("AAPL") {
			t.Error("Expected no in-range data for AAPL after fallback slicing")
		}
	})

	t.Run("fallback data inside the requested range is kept", func(t *testing.T) {
		// Setup: primary fetch fails outright, fallback serves quotes that
		// straddle the requested window
		start := testutil.Date(t, "2024-02-03")
		end := testutil.Date(t, "2024-02-05")
		mock := testutil.NewMockMarketClient().
			WithDailyQuotes("AAPL", testutil.Date(t, "2024-02-01"), testutil.Date(t, "2024-02-10"), 100).
			WithFailuresBeforeSuccess(3, errors.New("server error"))
		svc := testutil.NewTestPriceSourceService(t, mock)

		// Execute
		table, err := svc.FetchHistorical(context.Background(), []string{"AAPL"}, start, end)

		// Assert
		if err != nil {
			t.Fatalf("FetchHistorical() returned unexpected error: %v", err)
		}
		series := table.Series("AAPL")
		if len(series) != 3 {
			t.Fatalf("Expected 3 quotes sliced to the requested range, got %d", len(series))
		}
		if series[0].Date != start || series[len(series)-1].Date != end {
			t.Errorf("Expected series bounded by the requested range, got %v to %v",
				series[0].Date, series[len(series)-1].Date)
		}
	})

	t.Run("a symbol with no data anywhere is simply absent", func(t *testing.T) {
		// Setup
		start := testutil.Date(t, "2024-02-01")
		end := testutil.Date(t, "2024-02-05")
		mock := testutil.NewMockMarketClient().
			WithHistoricalError(errors.New("unknown symbol"))
		svc := testutil.NewTestPriceSourceService(t, mock)

		// Execute
		table, err := svc.FetchHistorical(context.Background(), []string{"BOGUS"}, start, end)

		// Assert: exhaustion is not an error at this layer
		if err != nil {
			t.Fatalf("FetchHistorical() returned unexpected error: %v", err)
		}
		if table.HasSymbol("BOGUS") {
			t.Error("Expected no data for an unfetchable symbol")
		}
	})

	t.Run("one symbol's outage does not affect the others", func(t *testing.T) {
		// Setup: GOOD has data, BAD never does
		start := testutil.Date(t, "2024-01-01")
		end := testutil.Date(t, "2024-01-03")
		mock := testutil.NewMockMarketClient().
			WithDailyQuotes("GOOD", start, end, 50)
		svc := testutil.NewTestPriceSourceService(t, mock)

		// Execute
		table, err := svc.FetchHistorical(context.Background(), []string{"BAD", "GOOD"}, start, end)

		// Assert
		if err != nil {
			t.Fatalf("FetchHistorical() returned unexpected error: %v", err)
		}
		if !table.HasSymbol("GOOD") {
			t.Error("Expected GOOD to resolve despite BAD having no data")
		}
		if table.HasSymbol("BAD") {
			t.Error("Expected BAD to contribute no data")
		}
	})
}

// TestPriceSourceService_FetchLive tests the best-effort live quote path.
//
// WHY: Live quotes feed the current-value endpoint, which has its own
// cached-price fallback. A provider failure here must surface as "no quote",
// never as an error that takes the endpoint down.
func TestPriceSourceService_FetchLive(t *testing.T) {
	t.Run("returns the provider's current price", func(t *testing.T) {
		// Setup
		mock := testutil.NewMockMarketClient().WithCurrentPrice("AAPL", 123.45)
		svc := testutil.NewTestPriceSourceService(t, mock)

		// Execute
		price, ok := svc.FetchLive("AAPL")

		// Assert
		if !ok {
			t.Fatal("Expected live quote to succeed")
		}
		if price != 123.45 {
			t.Errorf("Expected price 123.45, got %v", price)
		}
	})

	t.Run("reports failures as absent", func(t *testing.T) {
		// Setup
		mock := testutil.NewMockMarketClient().WithCurrentError(errors.New("timeout"))
		svc := testutil.NewTestPriceSourceService(t, mock)

		// Execute
		_, ok := svc.FetchLive("AAPL")

		// Assert
		if ok {
			t.Error("Expected live quote to report absent on provider failure")
		}
	})
}
