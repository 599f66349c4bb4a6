package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/config"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/marketdata"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// errEmptyResult marks a provider response that succeeded but carried no
// data. Treated like a transient failure: retried, then given the widened
// fallback window.
var errEmptyResult = errors.New("provider returned no data")

// PriceSourceService wraps a market data client with the bounded retry and
// fallback policy for historical fetches.
//
// Per symbol, a fetch is attempted up to the configured number of times with
// a fixed delay between attempts. After exhausting retries, one fallback
// fetch over a window widened by the configured padding on each side is
// tried and sliced back down to the requested range. A symbol for which even
// the fallback yields nothing simply contributes no data; that is the
// orchestrator's cue to use the last known price, not an error.
type PriceSourceService struct {
	client        marketdata.Client
	retryAttempts int
	retryDelay    time.Duration
	fallbackDays  int
}

// NewPriceSourceService creates a PriceSourceService applying the given
// fetch configuration to the provided client.
func NewPriceSourceService(client marketdata.Client, cfg config.PriceFetchConfig) *PriceSourceService {
	attempts := cfg.RetryAttempts
	if attempts < 1 {
		attempts = 1
	}
	// go-retry panics on a non-positive interval.
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = time.Millisecond
	}
	return &PriceSourceService{
		client:        client,
		retryAttempts: attempts,
		retryDelay:    delay,
		fallbackDays:  cfg.FallbackDays,
	}
}

// FetchHistorical fetches closing prices for every symbol over [startDate,
// endDate], applying retry and fallback per symbol independently. Symbols
// with no retrievable data are absent from the returned table; one symbol's
// outage never aborts the others.
func (s *PriceSourceService) FetchHistorical(ctx context.Context, symbols []string, startDate, endDate time.Time) (*model.PriceTable, error) {
	table := model.NewPriceTable(startDate, endDate)

	for _, symbol := range symbols {
		quotes, err := s.fetchSymbol(ctx, symbol, startDate, endDate)
		if err != nil {
			// Only context cancellation escapes the retry/fallback ladder.
			return nil, err
		}
		for _, q := range quotes {
			table.Set(symbol, q.Date, q.Price)
		}
	}

	return table, nil
}

// FetchLive returns a best-effort current quote for the symbol. Failures are
// logged and reported as absent, never raised.
func (s *PriceSourceService) FetchLive(symbol string) (float64, bool) {
	price, err := s.client.QueryCurrent(symbol)
	if err != nil {
		log.Printf("failed to fetch live price for %s: %v", symbol, err)
		return 0, false
	}
	return price, true
}

// fetchSymbol runs the primary retry loop for one symbol and falls back to a
// widened window when it is exhausted. A nil, nil return means "no data".
func (s *PriceSourceService) fetchSymbol(ctx context.Context, symbol string, startDate, endDate time.Time) ([]marketdata.Quote, error) {
	var quotes []marketdata.Quote
	attempt := 0

	backoff := retry.WithMaxRetries(uint64(s.retryAttempts-1), retry.NewConstant(s.retryDelay)) //nolint:gosec // attempts >= 1
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		result, err := s.client.QueryHistorical(symbol, startDate, endDate)
		if err != nil {
			log.Printf("fetch attempt %d for %s failed: %v", attempt, symbol, err)
			return retry.RetryableError(err)
		}
		if len(result) == 0 {
			log.Printf("fetch attempt %d for %s returned no data", attempt, symbol)
			return retry.RetryableError(errEmptyResult)
		}
		quotes = result
		return nil
	})
	if err == nil {
		return quotes, nil
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("fetch for %s cancelled: %w", symbol, ctx.Err())
	}

	return s.fetchFallback(symbol, startDate, endDate), nil
}

// fetchFallback makes one attempt over the widened window and slices the
// result back down to the originally requested range.
func (s *PriceSourceService) fetchFallback(symbol string, startDate, endDate time.Time) []marketdata.Quote {
	widenedStart := startDate.AddDate(0, 0, -s.fallbackDays)
	widenedEnd := endDate.AddDate(0, 0, s.fallbackDays)
	log.Printf("fallback fetch for %s over widened range %s to %s",
		symbol, widenedStart.Format("2006-01-02"), widenedEnd.Format("2006-01-02"))

	result, err := s.client.QueryHistorical(symbol, widenedStart, widenedEnd)
	if err != nil {
		log.Printf("fallback fetch for %s failed: %v", symbol, err)
		return nil
	}
	if len(result) == 0 {
		log.Printf("fallback fetch for %s returned no data", symbol)
		return nil
	}

	sliced := make([]marketdata.Quote, 0, len(result))
	for _, q := range result {
		if q.Date.Before(startDate) || q.Date.After(endDate) {
			continue
		}
		sliced = append(sliced, q)
	}
	return sliced
}
