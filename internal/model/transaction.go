package model

import "time"

// Transaction actions. A transaction either buys shares with cash or sells
// shares back into cash; there are no other kinds.
const (
	ActionBuy  = "Buy"
	ActionSell = "Sell"
)

// Transaction represents a single buy or sell of a stock, recorded append-only
// in the ledger. Amount is the cash value of the trade, Price the per-share
// price, and Fees any broker fees on top. The number of shares is derived,
// never stored.
type Transaction struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Symbol    string    `json:"symbol"`
	Action    string    `json:"action"`
	Amount    float64   `json:"amount"`
	Price     float64   `json:"price"`
	Fees      float64   `json:"fees"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Shares returns the number of shares this transaction moved (amount / price).
func (t Transaction) Shares() float64 {
	if t.Price == 0 {
		return 0
	}
	return t.Amount / t.Price
}

// TotalCost returns the full cash outlay of a buy: amount plus fees.
func (t Transaction) TotalCost() float64 {
	return t.Amount + t.Fees
}

// NetProceeds returns the cash received from a sell: amount minus fees.
func (t Transaction) NetProceeds() float64 {
	return t.Amount - t.Fees
}
