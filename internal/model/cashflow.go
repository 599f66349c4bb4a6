package model

import "time"

// Cash flow types. Deposits and dividends add cash to the portfolio,
// withdrawals remove it.
const (
	FlowDeposit    = "Deposit"
	FlowWithdrawal = "Withdrawal"
	FlowDividend   = "Dividend"
)

// CashFlow represents a cash movement into or out of the portfolio that is
// not tied to a stock trade.
type CashFlow struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	Amount    float64   `json:"amount"`
	FlowType  string    `json:"flowType"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Signed returns the amount with the sign this flow applies to the cash
// balance: positive for deposits and dividends, negative for withdrawals.
func (c CashFlow) Signed() float64 {
	if c.FlowType == FlowWithdrawal {
		return -c.Amount
	}
	return c.Amount
}
