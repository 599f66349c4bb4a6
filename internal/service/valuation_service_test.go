package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/testutil"
)

// TestValuationService_ValueSeries tests the daily value series.
//
// WHY: The series is the core product of the whole system: one value per
// calendar day, combining replayed ledger state with resolved prices. It
// must price positions from the day they are bought and track price moves
// day by day.
func TestValuationService_ValueSeries(t *testing.T) {
	t.Run("emits one value per calendar day", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())
		testutil.CreateDeposit(t, db, "2024-01-10", 1000)
		testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)
		testutil.SeedPriceRange(t, db, "AAPL", "2024-01-10", "2024-01-17", 100)

		// Execute
		series, err := svc.ValueSeries(context.Background(),
			testutil.Date(t, "2024-01-10"), testutil.Date(t, "2024-01-17"))

		// Assert
		if err != nil {
			t.Fatalf("ValueSeries() returned unexpected error: %v", err)
		}
		if len(series) != 8 {
			t.Fatalf("Expected 8 daily values, got %d", len(series))
		}
		if series[0].Date != "2024-01-10" || series[7].Date != "2024-01-17" {
			t.Errorf("Expected series bounded by the requested range, got %s to %s",
				series[0].Date, series[7].Date)
		}

		// Cash before the buy, shares at the same price after: 1000 throughout
		for _, dv := range series {
			if dv.Value != 1000 {
				t.Errorf("Expected value 1000 on %s, got %v", dv.Date, dv.Value)
			}
		}
	})

	t.Run("tracks price movement after the buy", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())
		testutil.CreateDeposit(t, db, "2024-01-10", 1000)
		testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)
		testutil.SeedPriceRange(t, db, "AAPL", "2024-01-10", "2024-01-16", 100)
		testutil.SeedPrice(t, db, "AAPL", "2024-01-17", 110)

		// Execute
		series, err := svc.ValueSeries(context.Background(),
			testutil.Date(t, "2024-01-10"), testutil.Date(t, "2024-01-17"))

		// Assert
		if err != nil {
			t.Fatalf("ValueSeries() returned unexpected error: %v", err)
		}
		last := series[len(series)-1]
		if last.Value != 1100 {
			t.Errorf("Expected 1100 on the last day after the price rise, got %v", last.Value)
		}
	})

	t.Run("sell turns shares back into cash", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())
		testutil.CreateDeposit(t, db, "2024-01-10", 1000)
		testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)
		testutil.CreateSell(t, db, "2024-01-20", "AAPL", 1100, 110)
		testutil.SeedPriceRange(t, db, "AAPL", "2024-01-10", "2024-01-25", 110)

		// Execute
		series, err := svc.ValueSeries(context.Background(),
			testutil.Date(t, "2024-01-10"), testutil.Date(t, "2024-01-25"))

		// Assert
		if err != nil {
			t.Fatalf("ValueSeries() returned unexpected error: %v", err)
		}
		last := series[len(series)-1]
		if last.Value != 1100 {
			t.Errorf("Expected 1100 in cash after the full sell, got %v", last.Value)
		}
	})

	t.Run("empty ledger yields a flat zero series", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())

		// Execute
		series, err := svc.ValueSeries(context.Background(),
			testutil.Date(t, "2024-01-01"), testutil.Date(t, "2024-01-03"))

		// Assert
		if err != nil {
			t.Fatalf("ValueSeries() returned unexpected error: %v", err)
		}
		if len(series) != 3 {
			t.Fatalf("Expected 3 daily values, got %d", len(series))
		}
		for _, dv := range series {
			if dv.Value != 0 {
				t.Errorf("Expected value 0 on %s, got %v", dv.Date, dv.Value)
			}
		}
	})

	t.Run("inverted range is rejected", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())

		// Execute
		_, err := svc.ValueSeries(context.Background(),
			testutil.Date(t, "2024-02-01"), testutil.Date(t, "2024-01-01"))

		// Assert
		var rangeErr *apperrors.DateRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Expected DateRangeError, got %v", err)
		}
	})

	t.Run("future range is rejected", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())

		// Execute
		_, err := svc.ValueSeries(context.Background(),
			testutil.Date(t, "2099-01-01"), testutil.Date(t, "2099-01-05"))

		// Assert
		var rangeErr *apperrors.DateRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Expected DateRangeError, got %v", err)
		}
	})
}

// TestValuationService_CurrentValue tests the live valuation with its
// fallback ladder.
//
// WHY: The current value must stay available through provider outages by
// falling back to cached prices, and when even that fails it must say so
// explicitly instead of quietly reporting cash as the whole portfolio.
func TestValuationService_CurrentValue(t *testing.T) {
	t.Run("uses live quotes when available", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockMarketClient().WithCurrentPrice("AAPL", 120)
		svc := testutil.NewTestValuationService(t, db, mock)
		testutil.CreateDeposit(t, db, "2024-01-10", 2000)
		testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)

		// Execute
		value, err := svc.CurrentValue(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("CurrentValue() returned unexpected error: %v", err)
		}
		if value.Cash != 1000 {
			t.Errorf("Expected cash 1000, got %v", value.Cash)
		}
		if value.StockValue != 1200 {
			t.Errorf("Expected stock value 1200, got %v", value.StockValue)
		}
		if value.Value != 2200 {
			t.Errorf("Expected total value 2200, got %v", value.Value)
		}
		if value.CashOnly {
			t.Error("Expected CashOnly false when live quotes work")
		}
		if len(value.UnpricedSymbols) != 0 {
			t.Errorf("Expected no unpriced symbols, got %v", value.UnpricedSymbols)
		}
	})

	t.Run("falls back to the cached price when live quotes fail", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockMarketClient().WithCurrentError(errors.New("provider down"))
		svc := testutil.NewTestValuationService(t, db, mock)
		testutil.CreateDeposit(t, db, "2024-01-10", 2000)
		testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)
		testutil.SeedPrice(t, db, "AAPL", "2024-01-20", 115)

		// Execute
		value, err := svc.CurrentValue(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("CurrentValue() returned unexpected error: %v", err)
		}
		if value.StockValue != 1150 {
			t.Errorf("Expected stock value 1150 from the cached price, got %v", value.StockValue)
		}
		if value.CashOnly {
			t.Error("Expected CashOnly false when a cached price serves")
		}
	})

	t.Run("flags cash-only when nothing can price the holdings", func(t *testing.T) {
		// Setup: provider down, cache empty
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockMarketClient().WithCurrentError(errors.New("provider down"))
		svc := testutil.NewTestValuationService(t, db, mock)
		testutil.CreateDeposit(t, db, "2024-01-10", 2000)
		testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)

		// Execute
		value, err := svc.CurrentValue(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("CurrentValue() returned unexpected error: %v", err)
		}
		if !value.CashOnly {
			t.Error("Expected CashOnly true when no holding can be priced")
		}
		if value.Value != 1000 {
			t.Errorf("Expected value to degrade to cash 1000, got %v", value.Value)
		}
		if len(value.UnpricedSymbols) != 1 || value.UnpricedSymbols[0] != "AAPL" {
			t.Errorf("Expected unpriced symbols [AAPL], got %v", value.UnpricedSymbols)
		}
	})

	t.Run("no holdings means cash without the degraded flag", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())
		testutil.CreateDeposit(t, db, "2024-01-10", 500)

		// Execute
		value, err := svc.CurrentValue(context.Background())

		// Assert
		if err != nil {
			t.Fatalf("CurrentValue() returned unexpected error: %v", err)
		}
		if value.Value != 500 {
			t.Errorf("Expected value 500, got %v", value.Value)
		}
		if value.CashOnly {
			t.Error("Expected CashOnly false for an all-cash portfolio with no holdings")
		}
	})
}

// TestValuationService_ROI tests the return computations.
//
// WHY: ROI divides by the starting value, so the empty-portfolio window is
// the edge case that would blow up; it must read as 0, not NaN or an error.
func TestValuationService_ROI(t *testing.T) {
	t.Run("computes the percentage gain over the window", func(t *testing.T) {
		// Setup: starts at 1000, ends at 1100
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())
		testutil.CreateDeposit(t, db, "2024-01-10", 1000)
		testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)
		testutil.SeedPriceRange(t, db, "AAPL", "2024-01-10", "2024-01-16", 100)
		testutil.SeedPrice(t, db, "AAPL", "2024-01-17", 110)

		// Execute
		roi, err := svc.ROI(context.Background(),
			testutil.Date(t, "2024-01-10"), testutil.Date(t, "2024-01-17"))

		// Assert
		if err != nil {
			t.Fatalf("ROI() returned unexpected error: %v", err)
		}
		if roi != 10 {
			t.Errorf("Expected ROI 10%%, got %v", roi)
		}
	})

	t.Run("zero starting value yields zero ROI", func(t *testing.T) {
		// Setup: no records in the window
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())

		// Execute
		roi, err := svc.ROI(context.Background(),
			testutil.Date(t, "2024-01-01"), testutil.Date(t, "2024-01-05"))

		// Assert
		if err != nil {
			t.Fatalf("ROI() returned unexpected error: %v", err)
		}
		if roi != 0 {
			t.Errorf("Expected ROI 0 for an empty window, got %v", roi)
		}
	})

	t.Run("compares against the benchmark index", func(t *testing.T) {
		// Setup: portfolio gains 10%, benchmark gains 5%
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())
		testutil.CreateDeposit(t, db, "2024-01-10", 1000)
		testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)
		testutil.SeedPriceRange(t, db, "AAPL", "2024-01-10", "2024-01-16", 100)
		testutil.SeedPrice(t, db, "AAPL", "2024-01-17", 110)
		testutil.SeedPriceRange(t, db, "SPY", "2024-01-10", "2024-01-16", 400)
		testutil.SeedPrice(t, db, "SPY", "2024-01-17", 420)

		// Execute
		comparison, err := svc.CompareToBenchmark(context.Background(),
			testutil.Date(t, "2024-01-10"), testutil.Date(t, "2024-01-17"))

		// Assert
		if err != nil {
			t.Fatalf("CompareToBenchmark() returned unexpected error: %v", err)
		}
		if !comparison.BenchmarkAvailable {
			t.Fatal("Expected benchmark to be available")
		}
		if comparison.PortfolioROI != 10 {
			t.Errorf("Expected portfolio ROI 10%%, got %v", comparison.PortfolioROI)
		}
		if comparison.BenchmarkROI != 5 {
			t.Errorf("Expected benchmark ROI 5%%, got %v", comparison.BenchmarkROI)
		}
		if comparison.Difference != 5 {
			t.Errorf("Expected difference 5, got %v", comparison.Difference)
		}
	})

	t.Run("missing benchmark data reads as unavailable", func(t *testing.T) {
		// Setup: no SPY anywhere, provider down
		db := testutil.SetupTestDB(t)
		mock := testutil.NewMockMarketClient().WithHistoricalError(errors.New("provider down"))
		svc := testutil.NewTestValuationService(t, db, mock)
		testutil.CreateDeposit(t, db, "2024-01-10", 1000)

		// Execute
		comparison, err := svc.CompareToBenchmark(context.Background(),
			testutil.Date(t, "2024-01-10"), testutil.Date(t, "2024-01-12"))

		// Assert
		if err != nil {
			t.Fatalf("CompareToBenchmark() returned unexpected error: %v", err)
		}
		if comparison.BenchmarkAvailable {
			t.Error("Expected benchmark unavailable")
		}
		if comparison.Difference != 0 {
			t.Errorf("Expected difference 0 when benchmark is absent, got %v", comparison.Difference)
		}
	})
}

// TestValuationService_ValueAt tests the single-date valuation.
//
// WHY: Unlike the series, ValueAt replays the whole ledger from the
// beginning, so positions opened before the requested date must count.
func TestValuationService_ValueAt(t *testing.T) {
	t.Run("values holdings opened before the requested date", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())
		testutil.CreateDeposit(t, db, "2024-01-10", 1500)
		testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)
		testutil.SeedPrice(t, db, "AAPL", "2024-03-01", 120)

		// Execute
		value, err := svc.ValueAt(context.Background(), testutil.Date(t, "2024-03-01"))

		// Assert
		if err != nil {
			t.Fatalf("ValueAt() returned unexpected error: %v", err)
		}
		// 500 cash + 10 shares at 120
		if value != 1700 {
			t.Errorf("Expected value 1700, got %v", value)
		}
	})

	t.Run("future date is rejected", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestValuationService(t, db, testutil.NewMockMarketClient())

		// Execute
		_, err := svc.ValueAt(context.Background(), testutil.Date(t, "2099-01-01"))

		// Assert
		var rangeErr *apperrors.DateRangeError
		if !errors.As(err, &rangeErr) {
			t.Fatalf("Expected DateRangeError, got %v", err)
		}
	})
}
