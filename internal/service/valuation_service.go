package service

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// ValuationService computes portfolio values over time: daily value series,
// point-in-time value, live current value, and ROI against a benchmark index.
//
// Series math runs on decimals and rounds to cents only at emission, so a
// long run of small cash flows cannot drift the way float accumulation would.
type ValuationService struct {
	ledgerService   *LedgerService
	priceResolver   *PriceResolverService
	priceSource     *PriceSourceService
	priceCacheRepo  *repository.PriceCacheRepository
	benchmarkSymbol string
}

// NewValuationService creates a new ValuationService with the provided dependencies.
func NewValuationService(
	ledgerService *LedgerService,
	priceResolver *PriceResolverService,
	priceSource *PriceSourceService,
	priceCacheRepo *repository.PriceCacheRepository,
	benchmarkSymbol string,
) *ValuationService {
	return &ValuationService{
		ledgerService:   ledgerService,
		priceResolver:   priceResolver,
		priceSource:     priceSource,
		priceCacheRepo:  priceCacheRepo,
		benchmarkSymbol: benchmarkSymbol,
	}
}

// ValueSeries computes the portfolio value for every calendar day in
// [startDate, endDate], one entry per day, rounded to cents.
//
// The series replays only the ledger records dated inside the window, in a
// single ascending pass: each day's cash flows apply first, then its
// transactions, then the day is valued as cash plus shares times that day's
// price. Days where the resolved table has no price for a held symbol fall
// back to the last price seen for it, seeded from the purchase price so a
// position is never valued at zero.
func (s *ValuationService) ValueSeries(ctx context.Context, startDate, endDate time.Time) ([]model.DailyValue, error) {
	if err := validation.ValidateDateRange("value series", startDate, endDate); err != nil {
		return nil, err
	}

	transactions, cashFlows, err := s.recordsInWindow(startDate, endDate)
	if err != nil {
		return nil, err
	}

	symbols := symbolsOf(transactions)
	table := model.NewPriceTable(startDate, endDate)
	if len(symbols) > 0 {
		table, err = s.priceResolver.Resolve(ctx, symbols, startDate, endDate)
		if err != nil {
			return nil, err
		}
	}

	var (
		series    []model.DailyValue
		cash      = decimal.Zero
		holdings  = make(map[string]decimal.Decimal)
		lastPrice = make(map[string]decimal.Decimal)
		ti, ci    = 0, 0
	)
	for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
		for ci < len(cashFlows) && !cashFlows[ci].Date.After(day) {
			cash = cash.Add(decimal.NewFromFloat(cashFlows[ci].Signed()))
			ci++
		}
		for ti < len(transactions) && !transactions[ti].Date.After(day) {
			t := transactions[ti]
			shares := decimal.NewFromFloat(t.Amount).Div(decimal.NewFromFloat(t.Price))
			if t.Action == model.ActionBuy {
				cash = cash.Sub(decimal.NewFromFloat(t.TotalCost()))
				holdings[t.Symbol] = holdings[t.Symbol].Add(shares)
			} else {
				cash = cash.Add(decimal.NewFromFloat(t.NetProceeds()))
				holdings[t.Symbol] = holdings[t.Symbol].Sub(shares)
			}
			if _, ok := lastPrice[t.Symbol]; !ok {
				lastPrice[t.Symbol] = decimal.NewFromFloat(t.Price)
			}
			ti++
		}

		stockValue := decimal.Zero
		for symbol, shares := range holdings {
			if !shares.IsPositive() {
				continue
			}
			if price, ok := table.Price(symbol, day); ok {
				lastPrice[symbol] = decimal.NewFromFloat(price)
			}
			stockValue = stockValue.Add(shares.Mul(lastPrice[symbol]))
		}

		total := cash.Add(stockValue).Round(2)
		series = append(series, model.DailyValue{
			Date:  model.DateKey(day),
			Value: total.InexactFloat64(),
		})
	}

	return series, nil
}

// ValueAt computes the portfolio value as of a single date from the full
// ledger: cash balance plus each held position times its price on that date.
func (s *ValuationService) ValueAt(ctx context.Context, date time.Time) (float64, error) {
	if err := validation.ValidateNotFuture("value at date", date); err != nil {
		return 0, err
	}

	cash, err := s.ledgerService.CashAt(date)
	if err != nil {
		return 0, err
	}
	holdings, err := s.ledgerService.HoldingsAt(date)
	if err != nil {
		return 0, err
	}
	if len(holdings) == 0 {
		return cash, nil
	}

	symbols := make([]string, 0, len(holdings))
	for symbol := range holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	table, err := s.priceResolver.Resolve(ctx, symbols, date, date)
	if err != nil {
		return 0, err
	}

	total := cash
	for _, symbol := range symbols {
		price, ok := table.Price(symbol, date)
		if !ok {
			log.Printf("Warning: no price for %s at %s, position excluded from value", symbol, model.DateKey(date))
			continue
		}
		total += holdings[symbol] * price
	}

	return round(total), nil
}

// CurrentValue computes today's portfolio value with live quotes. Each held
// symbol is priced by live quote first, then last cached price. Symbols that
// cannot be priced either way are reported in UnpricedSymbols, and when no
// holding could be priced at all the result is flagged CashOnly so callers
// can tell a degraded cash-only figure from a real one.
func (s *ValuationService) CurrentValue(ctx context.Context) (*model.PortfolioValue, error) {
	cash, err := s.ledgerService.CashBalance()
	if err != nil {
		return nil, err
	}
	holdings, err := s.ledgerService.CurrentHoldings()
	if err != nil {
		return nil, err
	}

	symbols := make([]string, 0, len(holdings))
	for symbol := range holdings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	result := &model.PortfolioValue{Cash: cash}
	pricedAny := false
	for _, symbol := range symbols {
		price, ok := s.priceSource.FetchLive(symbol)
		if !ok {
			last, err := s.priceCacheRepo.LastKnownPrice(symbol)
			if err != nil {
				log.Printf("Warning: no live or cached price for %s", symbol)
				result.UnpricedSymbols = append(result.UnpricedSymbols, symbol)
				continue
			}
			log.Printf("Using cached price for %s from %s", symbol, model.DateKey(last.Date))
			price = last.Price
		}
		result.StockValue += holdings[symbol] * price
		pricedAny = true
	}

	result.StockValue = round(result.StockValue)
	result.Value = round(cash + result.StockValue)
	result.CashOnly = len(holdings) > 0 && !pricedAny

	return result, nil
}

// ROI computes the portfolio return over [startDate, endDate] as a
// percentage of the starting value. A zero starting value yields 0 rather
// than a division error.
func (s *ValuationService) ROI(ctx context.Context, startDate, endDate time.Time) (float64, error) {
	series, err := s.ValueSeries(ctx, startDate, endDate)
	if err != nil {
		return 0, err
	}
	return seriesROI(series), nil
}

// BenchmarkROI computes the benchmark index return over [startDate, endDate]
// from its resolved price series. The boolean is false when no benchmark
// prices are available, so an unreachable index reads as "no comparison"
// rather than a zero return.
func (s *ValuationService) BenchmarkROI(ctx context.Context, startDate, endDate time.Time) (float64, bool) {
	table, err := s.priceResolver.Resolve(ctx, []string{s.benchmarkSymbol}, startDate, endDate)
	if err != nil {
		log.Printf("Warning: benchmark %s unavailable: %v", s.benchmarkSymbol, err)
		return 0, false
	}

	points := table.Series(s.benchmarkSymbol)
	if len(points) == 0 {
		log.Printf("Warning: no benchmark prices for %s in range", s.benchmarkSymbol)
		return 0, false
	}

	first := points[0].Price
	last := points[len(points)-1].Price
	if first == 0 {
		return 0, false
	}
	return round((last - first) / first * 100), true
}

// CompareToBenchmark computes portfolio ROI and benchmark ROI side by side.
// Difference is portfolio minus benchmark, zero when the benchmark is absent.
func (s *ValuationService) CompareToBenchmark(ctx context.Context, startDate, endDate time.Time) (*model.ROIComparison, error) {
	portfolioROI, err := s.ROI(ctx, startDate, endDate)
	if err != nil {
		return nil, err
	}

	benchmarkROI, available := s.BenchmarkROI(ctx, startDate, endDate)
	comparison := &model.ROIComparison{
		PortfolioROI:       portfolioROI,
		BenchmarkROI:       benchmarkROI,
		BenchmarkAvailable: available,
	}
	if available {
		comparison.Difference = round(portfolioROI - benchmarkROI)
	}

	return comparison, nil
}

// recordsInWindow loads the transactions and cash flows dated within
// [startDate, endDate], both date ascending.
func (s *ValuationService) recordsInWindow(startDate, endDate time.Time) ([]model.Transaction, []model.CashFlow, error) {
	transactions, err := s.ledgerService.ledgerRepo.ListTransactions(endDate)
	if err != nil {
		return nil, nil, err
	}
	cashFlows, err := s.ledgerService.ledgerRepo.ListCashFlows(endDate)
	if err != nil {
		return nil, nil, err
	}

	var ts []model.Transaction
	for _, t := range transactions {
		if !t.Date.Before(startDate) {
			ts = append(ts, t)
		}
	}
	var cs []model.CashFlow
	for _, c := range cashFlows {
		if !c.Date.Before(startDate) {
			cs = append(cs, c)
		}
	}

	return ts, cs, nil
}

// seriesROI computes the percentage return between the first and last entry
// of a value series. Empty series or a zero start yields 0.
func seriesROI(series []model.DailyValue) float64 {
	if len(series) == 0 {
		return 0
	}
	start := series[0].Value
	end := series[len(series)-1].Value
	if start == 0 {
		return 0
	}
	return round((end - start) / start * 100)
}

// symbolsOf extracts the distinct symbols from a transaction list, sorted.
func symbolsOf(transactions []model.Transaction) []string {
	seen := make(map[string]bool)
	for _, t := range transactions {
		seen[t.Symbol] = true
	}
	symbols := make([]string, 0, len(seen))
	for symbol := range seen {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}
