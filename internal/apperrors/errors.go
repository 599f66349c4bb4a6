package apperrors

import (
	"errors"
	"fmt"
	"time"
)

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTransactionNotFound indicates that a transaction with the given ID does not exist.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrCashFlowNotFound indicates that a cash flow with the given ID does not exist.
	ErrCashFlowNotFound = errors.New("cash flow not found")

	// ErrPriceNotFound indicates no cached price for a specific symbol and date combination.
	ErrPriceNotFound = errors.New("price not found")

	// ErrUnknownProvider indicates that no market data provider is registered under the given name.
	ErrUnknownProvider = errors.New("unknown market data provider")
)

// Business logic errors represent validation failures or constraint violations.
// These errors indicate that an operation cannot be completed due to business rules.
var (
	// ErrInsufficientShares indicates that a sell transaction cannot be completed
	// because the portfolio does not hold enough shares of the symbol.
	ErrInsufficientShares = errors.New("insufficient shares for sale")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")
)

// Operation failure errors represent system-level failures when retrieving or
// processing data. These errors indicate that an operation failed, but not due
// to missing entities or validation issues.
var (
	ErrFailedToRetrieveTransactions = errors.New("failed to retrieve transactions")
	ErrFailedToRetrieveTransaction  = errors.New("failed to retrieve transaction")
	ErrFailedToRetrieveCashFlows    = errors.New("failed to retrieve cash flows")
	ErrFailedToRetrieveCashFlow     = errors.New("failed to retrieve cash flow")
	ErrFailedToGetHoldings          = errors.New("failed to get holdings")
	ErrFailedToGetCashBalance       = errors.New("failed to get cash balance")
	ErrFailedToGetPortfolioValue    = errors.New("failed to get portfolio value")
	ErrFailedToGetPortfolioHistory  = errors.New("failed to get portfolio history")
	ErrFailedToCalculateROI         = errors.New("failed to calculate ROI")
)

// PriceDataError indicates that a symbol needed for valuation has no cached
// price, no fetchable price, and no last-known price to fall back on. It is
// fatal to the computation that required the symbol.
type PriceDataError struct {
	Symbol string
}

func (e *PriceDataError) Error() string {
	return fmt.Sprintf("no price data available for %s", e.Symbol)
}

// DateRangeError indicates that a requested date or date range is invalid:
// either an endpoint lies in the future or the start is after the end. The
// message names the operation, the offending range, and today's date.
type DateRangeError struct {
	Operation string
	Start     time.Time
	End       time.Time
	Today     time.Time
}

func (e *DateRangeError) Error() string {
	if e.Start.After(e.End) {
		return fmt.Sprintf("invalid date range for %s: start date %s is after end date %s",
			e.Operation, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"))
	}
	return fmt.Sprintf("cannot perform %s with future dates: range %s to %s, today is %s",
		e.Operation, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"), e.Today.Format("2006-01-02"))
}

// InsufficientFundsError indicates that a buy or withdrawal would cost more
// than the current cash balance. It is raised before the record is inserted.
type InsufficientFundsError struct {
	Operation string
	Balance   float64
	Required  float64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s: current balance $%.2f, required $%.2f",
		e.Operation, e.Balance, e.Required)
}

// NegativeCashError indicates that replaying the ledger produced a negative
// cash balance. This is never a valid state; it means the ledger is corrupt
// or an accounting check was bypassed, so it is always surfaced, never
// swallowed or clamped.
type NegativeCashError struct {
	Date    time.Time
	Balance float64
}

func (e *NegativeCashError) Error() string {
	return fmt.Sprintf("negative cash balance of $%.2f detected on %s",
		e.Balance, e.Date.Format("2006-01-02"))
}
