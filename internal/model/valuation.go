package model

// PortfolioValue is the current total value of the portfolio.
//
// CashOnly is set when no held stock could be priced at all, in which case
// Value covers the cash balance only. UnpricedSymbols lists any individual
// holdings that had to be skipped for lack of price data, so a partially
// priced value is never mistaken for a complete one.
type PortfolioValue struct {
	Value           float64  `json:"value"`
	Cash            float64  `json:"cash"`
	StockValue      float64  `json:"stockValue"`
	CashOnly        bool     `json:"cashOnly"`
	UnpricedSymbols []string `json:"unpricedSymbols,omitempty"`
}

// DailyValue is one point in a portfolio value time series.
type DailyValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// ROIComparison holds portfolio return over a period next to the benchmark's
// return over the same period. BenchmarkAvailable is false when benchmark
// price data could not be fetched; Difference is only meaningful when true.
type ROIComparison struct {
	PortfolioROI       float64 `json:"portfolioRoi"`
	BenchmarkROI       float64 `json:"benchmarkRoi"`
	BenchmarkAvailable bool    `json:"benchmarkAvailable"`
	Difference         float64 `json:"difference"`
}
