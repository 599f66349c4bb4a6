package testutil

import (
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/marketdata"
)

// MockMarketClient is a mock implementation of marketdata.Client for testing.
// It returns predefined quotes instead of making actual API calls and counts
// how often each query method runs, so tests can assert on fetch behavior
// such as retry counts and cache hits.
type MockMarketClient struct {
	// Quotes holds the historical quotes to return per symbol.
	Quotes map[string][]marketdata.Quote
	// CurrentPrices holds the live price to return per symbol.
	CurrentPrices map[string]float64
	// HistoricalErr is returned from QueryHistorical when set.
	HistoricalErr error
	// CurrentErr is returned from QueryCurrent when set.
	CurrentErr error
	// FailuresBeforeSuccess makes QueryHistorical fail that many times
	// before serving data, for exercising the retry path.
	FailuresBeforeSuccess int

	// HistoricalCalls counts QueryHistorical invocations.
	HistoricalCalls int
	// CurrentCalls counts QueryCurrent invocations.
	CurrentCalls int
}

// NewMockMarketClient creates an empty mock. Add data with WithQuotes or
// WithDailyQuotes before use.
func NewMockMarketClient() *MockMarketClient {
	return &MockMarketClient{
		Quotes:        make(map[string][]marketdata.Quote),
		CurrentPrices: make(map[string]float64),
	}
}

// WithQuotes sets the historical quotes returned for a symbol.
func (m *MockMarketClient) WithQuotes(symbol string, quotes []marketdata.Quote) *MockMarketClient {
	m.Quotes[symbol] = quotes
	return m
}

// WithDailyQuotes fills the symbol with one quote per calendar day over
// [startDate, endDate], starting at basePrice and rising by 1.00 per day.
func (m *MockMarketClient) WithDailyQuotes(symbol string, startDate, endDate time.Time, basePrice float64) *MockMarketClient {
	var quotes []marketdata.Quote
	for i, day := 0, startDate; !day.After(endDate); i, day = i+1, day.AddDate(0, 0, 1) {
		quotes = append(quotes, marketdata.Quote{Date: day, Price: basePrice + float64(i)})
	}
	m.Quotes[symbol] = quotes
	return m
}

// WithCurrentPrice sets the live price returned for a symbol.
func (m *MockMarketClient) WithCurrentPrice(symbol string, price float64) *MockMarketClient {
	m.CurrentPrices[symbol] = price
	return m
}

// WithHistoricalError configures QueryHistorical to always fail.
func (m *MockMarketClient) WithHistoricalError(err error) *MockMarketClient {
	m.HistoricalErr = err
	return m
}

// WithCurrentError configures QueryCurrent to always fail.
func (m *MockMarketClient) WithCurrentError(err error) *MockMarketClient {
	m.CurrentErr = err
	return m
}

// WithFailuresBeforeSuccess configures QueryHistorical to fail the first n
// calls with err, then serve the configured quotes.
func (m *MockMarketClient) WithFailuresBeforeSuccess(n int, err error) *MockMarketClient {
	m.FailuresBeforeSuccess = n
	m.HistoricalErr = err
	return m
}

// QueryHistorical returns the configured quotes for the symbol, sliced to
// the requested date range.
func (m *MockMarketClient) QueryHistorical(symbol string, startDate, endDate time.Time) ([]marketdata.Quote, error) {
	m.HistoricalCalls++

	if m.HistoricalErr != nil {
		if m.FailuresBeforeSuccess == 0 || m.HistoricalCalls <= m.FailuresBeforeSuccess {
			return nil, m.HistoricalErr
		}
	}

	var quotes []marketdata.Quote
	for _, q := range m.Quotes[symbol] {
		if q.Date.Before(startDate) || q.Date.After(endDate) {
			continue
		}
		quotes = append(quotes, q)
	}
	return quotes, nil
}

// QueryCurrent returns the configured live price for the symbol.
func (m *MockMarketClient) QueryCurrent(symbol string) (float64, error) {
	m.CurrentCalls++

	if m.CurrentErr != nil {
		return 0, m.CurrentErr
	}
	return m.CurrentPrices[symbol], nil
}
