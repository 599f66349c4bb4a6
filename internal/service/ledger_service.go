package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// LedgerService handles ledger business logic: creating, updating, and
// deleting transactions and cash flows with domain validation, and deriving
// holdings and cash balance by replaying the ledger.
//
// Holdings and cash are pure functions of the ledger snapshot at call time.
// The full ledger is replayed on every call; it is assumed small enough that
// replay is cheap, a deliberate simplicity-over-scale choice.
type LedgerService struct {
	ledgerRepo *repository.LedgerRepository
}

// NewLedgerService creates a new LedgerService with the provided repository dependency.
func NewLedgerService(ledgerRepo *repository.LedgerRepository) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo}
}

// CreateTransaction validates and stores a new transaction, returning the
// record with its generated ID.
//
// Beyond field validation (done at the API layer), this enforces:
//   - the date must not be in the future
//   - a Buy must not cost more than the current cash balance
//   - a Sell must not exceed the shares currently held for the symbol
func (s *LedgerService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	date, err := repository.ParseTime(req.Date)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateNotFuture("add transaction", date); err != nil {
		return nil, err
	}

	t := &model.Transaction{
		ID:     uuid.New().String(),
		Date:   date,
		Symbol: req.Symbol,
		Action: req.Action,
		Amount: req.Amount,
		Price:  req.Price,
		Fees:   req.Fees,
	}

	if err := s.checkTransactionFunds(t); err != nil {
		return nil, err
	}

	if err := s.ledgerRepo.InsertTransaction(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return t, nil
}

// UpdateTransaction updates an existing transaction with the provided fields.
// Only provided fields in the request are updated; omitted fields remain unchanged.
func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, req request.UpdateTransactionRequest) (*model.Transaction, error) {
	t, err := s.ledgerRepo.GetTransaction(id)
	if err != nil {
		return nil, err
	}
	if req.Date != nil {
		date, err := repository.ParseTime(*req.Date)
		if err != nil {
			return nil, err
		}
		if err := validation.ValidateNotFuture("edit transaction", date); err != nil {
			return nil, err
		}
		t.Date = date
	}
	if req.Symbol != nil {
		t.Symbol = *req.Symbol
	}
	if req.Action != nil {
		t.Action = *req.Action
	}
	if req.Amount != nil {
		t.Amount = *req.Amount
	}
	if req.Price != nil {
		t.Price = *req.Price
	}
	if req.Fees != nil {
		t.Fees = *req.Fees
	}

	if err := s.ledgerRepo.UpdateTransaction(ctx, &t); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	return &t, nil
}

// DeleteTransaction removes the transaction with the given ID.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	return s.ledgerRepo.DeleteTransaction(ctx, id)
}

// GetTransaction retrieves a single transaction by ID.
func (s *LedgerService) GetTransaction(id string) (model.Transaction, error) {
	return s.ledgerRepo.GetTransaction(id)
}

// ListTransactions retrieves the full transaction history, date ascending.
func (s *LedgerService) ListTransactions() ([]model.Transaction, error) {
	return s.ledgerRepo.ListTransactions(time.Time{})
}

// CreateCashFlow validates and stores a new cash flow, returning the record
// with its generated ID. A withdrawal larger than the current cash balance
// is rejected before insertion.
func (s *LedgerService) CreateCashFlow(ctx context.Context, req request.CreateCashFlowRequest) (*model.CashFlow, error) {
	date, err := repository.ParseTime(req.Date)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateNotFuture("add cash flow", date); err != nil {
		return nil, err
	}

	if req.FlowType == model.FlowWithdrawal {
		balance, err := s.CashBalance()
		if err != nil {
			return nil, err
		}
		if req.Amount > balance {
			return nil, &apperrors.InsufficientFundsError{
				Operation: "withdrawal",
				Balance:   balance,
				Required:  req.Amount,
			}
		}
	}

	c := &model.CashFlow{
		ID:       uuid.New().String(),
		Date:     date,
		Amount:   req.Amount,
		FlowType: req.FlowType,
	}

	if err := s.ledgerRepo.InsertCashFlow(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create cash flow: %w", err)
	}

	return c, nil
}

// UpdateCashFlow updates an existing cash flow with the provided fields.
// Only provided fields in the request are updated; omitted fields remain unchanged.
func (s *LedgerService) UpdateCashFlow(ctx context.Context, id string, req request.UpdateCashFlowRequest) (*model.CashFlow, error) {
	c, err := s.ledgerRepo.GetCashFlow(id)
	if err != nil {
		return nil, err
	}
	if req.Date != nil {
		date, err := repository.ParseTime(*req.Date)
		if err != nil {
			return nil, err
		}
		if err := validation.ValidateNotFuture("edit cash flow", date); err != nil {
			return nil, err
		}
		c.Date = date
	}
	if req.Amount != nil {
		c.Amount = *req.Amount
	}
	if req.FlowType != nil {
		c.FlowType = *req.FlowType
	}

	if err := s.ledgerRepo.UpdateCashFlow(ctx, &c); err != nil {
		return nil, fmt.Errorf("failed to update cash flow: %w", err)
	}

	return &c, nil
}

// DeleteCashFlow removes the cash flow with the given ID.
func (s *LedgerService) DeleteCashFlow(ctx context.Context, id string) error {
	return s.ledgerRepo.DeleteCashFlow(ctx, id)
}

// GetCashFlow retrieves a single cash flow by ID.
func (s *LedgerService) GetCashFlow(id string) (model.CashFlow, error) {
	return s.ledgerRepo.GetCashFlow(id)
}

// ListCashFlows retrieves the full cash flow history, date ascending.
func (s *LedgerService) ListCashFlows() ([]model.CashFlow, error) {
	return s.ledgerRepo.ListCashFlows(time.Time{})
}

// HoldingsAt derives the net share position per symbol as of the given date
// by replaying every transaction dated on or before it. Shares accumulate as
// amount/price, signed by action (Buy adds, Sell subtracts). Symbols whose
// net position is zero or negative are omitted: those are closed or
// over-sold positions, not live holdings.
func (s *LedgerService) HoldingsAt(date time.Time) (map[string]float64, error) {
	transactions, err := s.ledgerRepo.ListTransactions(date)
	if err != nil {
		return nil, err
	}

	totals := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		shares := decimal.NewFromFloat(t.Amount).Div(decimal.NewFromFloat(t.Price))
		if t.Action == model.ActionSell {
			shares = shares.Neg()
		}
		totals[t.Symbol] = totals[t.Symbol].Add(shares)
	}

	holdings := make(map[string]float64)
	for symbol, shares := range totals {
		if shares.IsPositive() {
			holdings[symbol] = shares.InexactFloat64()
		}
	}

	return holdings, nil
}

// CashAt derives the cash balance as of the given date: cash flows signed by
// type (Deposit and Dividend add, Withdrawal subtracts) plus the cash impact
// of transactions (a Buy costs amount plus fees, a Sell yields amount minus
// fees), over every record dated on or before it.
//
// A negative result means the ledger is corrupt or a funds check was
// bypassed; it returns a NegativeCashError rather than clamping.
func (s *LedgerService) CashAt(date time.Time) (float64, error) {
	cashFlows, err := s.ledgerRepo.ListCashFlows(date)
	if err != nil {
		return 0, err
	}
	transactions, err := s.ledgerRepo.ListTransactions(date)
	if err != nil {
		return 0, err
	}

	balance := decimal.Zero
	for _, c := range cashFlows {
		balance = balance.Add(decimal.NewFromFloat(c.Signed()))
	}
	for _, t := range transactions {
		if t.Action == model.ActionBuy {
			balance = balance.Sub(decimal.NewFromFloat(t.TotalCost()))
		} else {
			balance = balance.Add(decimal.NewFromFloat(t.NetProceeds()))
		}
	}

	result := balance.Round(2)
	if result.IsNegative() {
		return 0, &apperrors.NegativeCashError{Date: date, Balance: result.InexactFloat64()}
	}
	return result.InexactFloat64(), nil
}

// CashBalance returns the cash balance as of today.
func (s *LedgerService) CashBalance() (float64, error) {
	return s.CashAt(validation.Today())
}

// CurrentHoldings returns the live holdings as of today.
func (s *LedgerService) CurrentHoldings() (map[string]float64, error) {
	return s.HoldingsAt(validation.Today())
}

// checkTransactionFunds enforces the pre-insert affordability rules: a Buy
// needs enough cash for amount plus fees, a Sell needs enough shares held.
func (s *LedgerService) checkTransactionFunds(t *model.Transaction) error {
	switch t.Action {
	case model.ActionBuy:
		balance, err := s.CashBalance()
		if err != nil {
			return err
		}
		if t.TotalCost() > balance {
			return &apperrors.InsufficientFundsError{
				Operation: "buy",
				Balance:   balance,
				Required:  t.TotalCost(),
			}
		}
	case model.ActionSell:
		holdings, err := s.CurrentHoldings()
		if err != nil {
			return err
		}
		if t.Shares() > holdings[t.Symbol] {
			return apperrors.ErrInsufficientShares
		}
	}
	return nil
}
