package service

import (
	"context"
	"log"
	"sort"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// RefreshService warms the price cache for every currently held symbol plus
// the benchmark. It is wired to a cron schedule at startup but can also be
// invoked directly.
type RefreshService struct {
	ledgerService   *LedgerService
	priceResolver   *PriceResolverService
	benchmarkSymbol string
}

// NewRefreshService creates a new RefreshService with the provided dependencies.
func NewRefreshService(ledgerService *LedgerService, priceResolver *PriceResolverService, benchmarkSymbol string) *RefreshService {
	return &RefreshService{
		ledgerService:   ledgerService,
		priceResolver:   priceResolver,
		benchmarkSymbol: benchmarkSymbol,
	}
}

// RefreshPrices resolves prices through today for each held symbol and the
// benchmark. Resolution itself fills only the gap after the last cached
// date, so a daily run fetches one day per symbol. Per-symbol failures are
// logged and do not abort the run.
func (s *RefreshService) RefreshPrices(ctx context.Context) error {
	holdings, err := s.ledgerService.CurrentHoldings()
	if err != nil {
		return err
	}

	symbols := make([]string, 0, len(holdings)+1)
	for symbol := range holdings {
		symbols = append(symbols, symbol)
	}
	if s.benchmarkSymbol != "" {
		symbols = append(symbols, s.benchmarkSymbol)
	}
	sort.Strings(symbols)

	if len(symbols) == 0 {
		log.Println("Price refresh: no symbols to refresh")
		return nil
	}

	today := validation.Today()
	for _, symbol := range symbols {
		start := s.priceResolver.priceCache.LastCachedDate(symbol)
		if start.IsZero() || start.After(today) {
			start = today
		}
		if _, err := s.priceResolver.Resolve(ctx, []string{symbol}, start, today); err != nil {
			log.Printf("Price refresh: %s failed: %v", symbol, err)
			continue
		}
	}

	log.Printf("Price refresh: completed for %d symbols", len(symbols))
	return nil
}
