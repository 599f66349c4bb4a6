package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
)

// PriceResolverService produces complete, gap-filled price tables for a set
// of symbols over a date range. It consults the price cache first, fetches
// only the missing tail from the price source, merges fetched data back into
// the cache, and falls back to the last known price when fetching fails.
//
// Symbols that turn out to have no price data at all (no cache, no fetch, no
// last-known price) are remembered as invalid for the life of the process:
// later calls fail for them immediately, without burning provider retries,
// until ResetInvalidSymbols is called.
type PriceResolverService struct {
	priceCache  *repository.PriceCacheRepository
	priceSource *PriceSourceService

	mu             sync.Mutex
	invalidSymbols map[string]struct{}
}

// NewPriceResolverService creates a PriceResolverService over the given
// cache and source.
func NewPriceResolverService(priceCache *repository.PriceCacheRepository, priceSource *PriceSourceService) *PriceResolverService {
	return &PriceResolverService{
		priceCache:     priceCache,
		priceSource:    priceSource,
		invalidSymbols: make(map[string]struct{}),
	}
}

// Resolve returns a forward-filled price table covering [startDate, endDate]
// for the given symbols. Per symbol:
//
//  1. Read the cache for the full range.
//  2. If the cached span does not cover every calendar day, fetch from the
//     day after the latest cached date (or startDate when nothing is cached)
//     through endDate.
//  3. Merge fetched data into the cache, then re-read the cache for the full
//     range so the merged view has a single source of truth.
//  4. If still empty, flat-fill with the last known price; failing that, the
//     symbol is invalid and resolution fails with a PriceDataError naming it.
//
// A symbol already known invalid fails the call up front with the same
// PriceDataError, skipping only the provider fetch: resolving the same
// inputs over unchanged state always yields the same outcome.
//
// Symbols are fetched concurrently; the table is assembled and forward-filled
// once all of them finish, so results are deterministic.
func (s *PriceResolverService) Resolve(ctx context.Context, symbols []string, startDate, endDate time.Time) (*model.PriceTable, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("startDate (%s) must be before or equal to endDate (%s)",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	}

	table := model.NewPriceTable(startDate, endDate)

	type resolved struct {
		points []model.PricePoint
		flat   *float64
	}
	results := make([]resolved, len(symbols))

	for _, symbol := range symbols {
		if s.isInvalid(symbol) {
			log.Printf("symbol %s previously failed resolution, not retrying", symbol)
			return nil, &apperrors.PriceDataError{Symbol: symbol}
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	for i, symbol := range symbols {
		g.Go(func() error {
			points, flat, err := s.resolveSymbol(ctx, symbol, startDate, endDate)
			if err != nil {
				return err
			}
			results[i] = resolved{points: points, flat: flat}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, symbol := range symbols {
		if results[i].flat != nil {
			table.FlatFill(symbol, *results[i].flat)
			continue
		}
		table.SetSeries(symbol, results[i].points)
	}
	table.ForwardFill()

	return table, nil
}

// resolveSymbol runs the cache-first resolution for one symbol. It returns
// either the cached points for the range, or a flat-fill price when only a
// last-known price exists.
func (s *PriceResolverService) resolveSymbol(ctx context.Context, symbol string, startDate, endDate time.Time) ([]model.PricePoint, *float64, error) {
	cached, err := s.priceCache.GetPrices(symbol, startDate, endDate)
	if err != nil {
		return nil, nil, err
	}

	daysInRange := int(endDate.Sub(startDate).Hours()/24) + 1
	if len(cached) < daysInRange {
		fetchStart := startDate
		if len(cached) > 0 {
			fetchStart = cached[len(cached)-1].Date.AddDate(0, 0, 1)
		}

		if !fetchStart.After(endDate) {
			log.Printf("fetching missing prices for %s from %s to %s",
				symbol, fetchStart.Format("2006-01-02"), endDate.Format("2006-01-02"))

			fetched, err := s.priceSource.FetchHistorical(ctx, []string{symbol}, fetchStart, endDate)
			if err != nil {
				return nil, nil, err
			}
			if series := fetched.Series(symbol); len(series) > 0 {
				if err := s.priceCache.PutPrices(ctx, symbol, series); err != nil {
					return nil, nil, err
				}
				// Re-read rather than merging in memory: the cache is the
				// single source of truth for the combined view.
				cached, err = s.priceCache.GetPrices(symbol, startDate, endDate)
				if err != nil {
					return nil, nil, err
				}
			} else {
				log.Printf("no new price data fetched for %s", symbol)
			}
		}
	}

	if len(cached) > 0 {
		return cached, nil, nil
	}

	lastKnown, err := s.priceCache.LastKnownPrice(symbol)
	if err == nil {
		log.Printf("no price data in range for %s, flat-filling last known price %.2f from %s",
			symbol, lastKnown.Price, lastKnown.Date.Format("2006-01-02"))
		return nil, &lastKnown.Price, nil
	}

	s.markInvalid(symbol)
	return nil, nil, &apperrors.PriceDataError{Symbol: symbol}
}

// InvalidSymbols returns the symbols that failed resolution entirely since
// the last reset, sorted.
func (s *PriceResolverService) InvalidSymbols() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	symbols := make([]string, 0, len(s.invalidSymbols))
	for symbol := range s.invalidSymbols {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// ResetInvalidSymbols clears the invalid symbol set so previously failing
// symbols are tried again.
func (s *PriceResolverService) ResetInvalidSymbols() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidSymbols = make(map[string]struct{})
}

func (s *PriceResolverService) isInvalid(symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.invalidSymbols[symbol]
	return ok
}

func (s *PriceResolverService) markInvalid(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invalidSymbols[symbol] = struct{}{}
}
