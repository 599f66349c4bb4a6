package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// TransactionBuilder provides a fluent interface for creating test transactions.
//
// Example usage:
//
//	// Simple creation with defaults
//	transaction := testutil.NewTransaction().Build(t, db)
//
//	// Customized transaction
//	transaction := testutil.NewTransaction().
//	    WithSymbol("AAPL").
//	    WithDate("2024-03-01").
//	    Sell().
//	    WithAmount(500).
//	    Build(t, db)
type TransactionBuilder struct {
	ID     string
	Date   string
	Symbol string
	Action string
	Amount float64
	Price  float64
	Fees   float64
}

// NewTransaction creates a TransactionBuilder with sensible defaults:
// a 1000.00 buy of AAPL at 100.00 with no fees.
func NewTransaction() *TransactionBuilder {
	return &TransactionBuilder{
		ID:     MakeID(),
		Date:   "2024-01-15",
		Symbol: "AAPL",
		Action: model.ActionBuy,
		Amount: 1000,
		Price:  100,
		Fees:   0,
	}
}

// WithID sets a custom ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	b.ID = id
	return b
}

// WithDate sets a custom date in YYYY-MM-DD format.
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	b.Date = date
	return b
}

// WithSymbol sets a custom ticker symbol.
func (b *TransactionBuilder) WithSymbol(symbol string) *TransactionBuilder {
	b.Symbol = symbol
	return b
}

// WithAmount sets a custom monetary amount.
func (b *TransactionBuilder) WithAmount(amount float64) *TransactionBuilder {
	b.Amount = amount
	return b
}

// WithPrice sets a custom per-share price.
func (b *TransactionBuilder) WithPrice(price float64) *TransactionBuilder {
	b.Price = price
	return b
}

// WithFees sets custom fees.
func (b *TransactionBuilder) WithFees(fees float64) *TransactionBuilder {
	b.Fees = fees
	return b
}

// Sell marks the transaction as a sell.
func (b *TransactionBuilder) Sell() *TransactionBuilder {
	b.Action = model.ActionSell
	return b
}

// Build creates the transaction in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO "transaction" (id, date, symbol, action, amount, price, fees)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Date, b.Symbol, b.Action, b.Amount, b.Price, b.Fees)
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	date, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		t.Fatalf("Invalid test transaction date %q: %v", b.Date, err)
	}

	return model.Transaction{
		ID:     b.ID,
		Date:   date,
		Symbol: b.Symbol,
		Action: b.Action,
		Amount: b.Amount,
		Price:  b.Price,
		Fees:   b.Fees,
	}
}

// CashFlowBuilder provides a fluent interface for creating test cash flows.
//
// Example usage:
//
//	deposit := testutil.NewCashFlow().WithAmount(5000).Build(t, db)
//	withdrawal := testutil.NewCashFlow().Withdrawal().WithAmount(200).Build(t, db)
type CashFlowBuilder struct {
	ID       string
	Date     string
	Amount   float64
	FlowType string
}

// NewCashFlow creates a CashFlowBuilder with sensible defaults:
// a 1000.00 deposit.
func NewCashFlow() *CashFlowBuilder {
	return &CashFlowBuilder{
		ID:       MakeID(),
		Date:     "2024-01-10",
		Amount:   1000,
		FlowType: model.FlowDeposit,
	}
}

// WithID sets a custom ID.
func (b *CashFlowBuilder) WithID(id string) *CashFlowBuilder {
	b.ID = id
	return b
}

// WithDate sets a custom date in YYYY-MM-DD format.
func (b *CashFlowBuilder) WithDate(date string) *CashFlowBuilder {
	b.Date = date
	return b
}

// WithAmount sets a custom amount.
func (b *CashFlowBuilder) WithAmount(amount float64) *CashFlowBuilder {
	b.Amount = amount
	return b
}

// Withdrawal marks the cash flow as a withdrawal.
func (b *CashFlowBuilder) Withdrawal() *CashFlowBuilder {
	b.FlowType = model.FlowWithdrawal
	return b
}

// Dividend marks the cash flow as a dividend payment.
func (b *CashFlowBuilder) Dividend() *CashFlowBuilder {
	b.FlowType = model.FlowDividend
	return b
}

// Build creates the cash flow in the database and returns it.
func (b *CashFlowBuilder) Build(t *testing.T, db *sql.DB) model.CashFlow {
	t.Helper()

	query := `
		INSERT INTO cash_flow (id, date, amount, flow_type)
		VALUES (?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Date, b.Amount, b.FlowType)
	if err != nil {
		t.Fatalf("Failed to create test cash flow: %v", err)
	}

	date, err := time.Parse("2006-01-02", b.Date)
	if err != nil {
		t.Fatalf("Invalid test cash flow date %q: %v", b.Date, err)
	}

	return model.CashFlow{
		ID:       b.ID,
		Date:     date,
		Amount:   b.Amount,
		FlowType: b.FlowType,
	}
}

// Convenience functions

// CreateDeposit creates a deposit of the given amount on the given date.
//
// Example usage:
//
//	testutil.CreateDeposit(t, db, "2024-01-10", 5000)
func CreateDeposit(t *testing.T, db *sql.DB, date string, amount float64) model.CashFlow {
	t.Helper()
	return NewCashFlow().WithDate(date).WithAmount(amount).Build(t, db)
}

// CreateBuy creates a buy transaction for the given symbol.
//
// Example usage:
//
//	testutil.CreateBuy(t, db, "2024-01-15", "AAPL", 1000, 100)
func CreateBuy(t *testing.T, db *sql.DB, date, symbol string, amount, price float64) model.Transaction {
	t.Helper()
	return NewTransaction().WithDate(date).WithSymbol(symbol).WithAmount(amount).WithPrice(price).Build(t, db)
}

// CreateSell creates a sell transaction for the given symbol.
//
// Example usage:
//
//	testutil.CreateSell(t, db, "2024-02-15", "AAPL", 500, 110)
func CreateSell(t *testing.T, db *sql.DB, date, symbol string, amount, price float64) model.Transaction {
	t.Helper()
	return NewTransaction().Sell().WithDate(date).WithSymbol(symbol).WithAmount(amount).WithPrice(price).Build(t, db)
}

// SeedPrice stores one cached closing price for a symbol.
//
// Example usage:
//
//	testutil.SeedPrice(t, db, "AAPL", "2024-01-15", 100.50)
func SeedPrice(t *testing.T, db *sql.DB, symbol, date string, price float64) {
	t.Helper()

	query := `
		INSERT OR REPLACE INTO price_cache (symbol, date, price)
		VALUES (?, ?, ?)
	`

	if _, err := db.Exec(query, symbol, date, price); err != nil {
		t.Fatalf("Failed to seed price: %v", err)
	}
}

// SeedPriceRange stores a cached closing price for every calendar day in
// [startDate, endDate], all at the same price.
//
// Example usage:
//
//	testutil.SeedPriceRange(t, db, "AAPL", "2024-01-01", "2024-01-31", 100)
func SeedPriceRange(t *testing.T, db *sql.DB, symbol, startDate, endDate string, price float64) {
	t.Helper()

	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		t.Fatalf("Invalid start date %q: %v", startDate, err)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		t.Fatalf("Invalid end date %q: %v", endDate, err)
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		SeedPrice(t, db, symbol, day.Format("2006-01-02"), price)
	}
}

// CountRows returns the number of rows in a table.
func CountRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var count int
	//nolint:gosec // G201: table names come from test code, not user input
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
		t.Fatalf("Failed to count rows in %s: %v", table, err)
	}
	return count
}
