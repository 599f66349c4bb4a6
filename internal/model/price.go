package model

import (
	"sort"
	"time"
)

// PricePoint is one cached closing price for a symbol on a date.
// (symbol, date) is the unique key in the price cache.
type PricePoint struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Price  float64   `json:"price"`
}

// DateKey formats a time as the canonical date string used for map keys and
// database storage.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// PriceTable is a dense date-by-symbol matrix of closing prices over a
// requested date range. It is assembled per valuation call and never
// persisted as a whole; only individual cache entries persist.
type PriceTable struct {
	Start time.Time
	End   time.Time

	prices map[string]map[string]float64 // symbol -> date key -> price
}

// NewPriceTable creates an empty price table covering [start, end].
func NewPriceTable(start, end time.Time) *PriceTable {
	return &PriceTable{
		Start:  start,
		End:    end,
		prices: make(map[string]map[string]float64),
	}
}

// Set records a price for the symbol on the given date.
func (pt *PriceTable) Set(symbol string, date time.Time, price float64) {
	if pt.prices[symbol] == nil {
		pt.prices[symbol] = make(map[string]float64)
	}
	pt.prices[symbol][DateKey(date)] = price
}

// SetSeries records a full series of price points for one symbol.
func (pt *PriceTable) SetSeries(symbol string, points []PricePoint) {
	for _, p := range points {
		pt.Set(symbol, p.Date, p.Price)
	}
}

// FlatFill assigns the same price to every date in the table's range for the
// symbol. Used when only a last-known price is available.
func (pt *PriceTable) FlatFill(symbol string, price float64) {
	for date := pt.Start; !date.After(pt.End); date = date.AddDate(0, 0, 1) {
		pt.Set(symbol, date, price)
	}
}

// Price returns the price for symbol on date, if present.
func (pt *PriceTable) Price(symbol string, date time.Time) (float64, bool) {
	series, ok := pt.prices[symbol]
	if !ok {
		return 0, false
	}
	price, ok := series[DateKey(date)]
	return price, ok
}

// HasSymbol reports whether the table holds any prices for the symbol.
func (pt *PriceTable) HasSymbol(symbol string) bool {
	return len(pt.prices[symbol]) > 0
}

// Symbols returns the symbols present in the table, sorted for deterministic
// iteration.
func (pt *PriceTable) Symbols() []string {
	symbols := make([]string, 0, len(pt.prices))
	for symbol := range pt.prices {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Series returns the symbol's prices as date-ascending price points.
func (pt *PriceTable) Series(symbol string) []PricePoint {
	series, ok := pt.prices[symbol]
	if !ok {
		return nil
	}
	points := make([]PricePoint, 0, len(series))
	for date := pt.Start; !date.After(pt.End); date = date.AddDate(0, 0, 1) {
		if price, ok := series[DateKey(date)]; ok {
			points = append(points, PricePoint{Symbol: symbol, Date: date, Price: price})
		}
	}
	return points
}

// ForwardFill propagates the most recent known price forward across dates with
// no entry, so weekends and market holidays carry the last traded value.
// Dates before the first known price stay empty.
func (pt *PriceTable) ForwardFill() {
	for _, series := range pt.prices {
		var last float64
		seen := false
		for date := pt.Start; !date.After(pt.End); date = date.AddDate(0, 0, 1) {
			key := DateKey(date)
			if price, ok := series[key]; ok {
				last = price
				seen = true
				continue
			}
			if seen {
				series[key] = last
			}
		}
	}
}
