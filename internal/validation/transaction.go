package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// ValidTransactionAction contains the allowed transaction action values.
var ValidTransactionAction = map[string]bool{
	model.ActionBuy: true, model.ActionSell: true,
}

// ValidateCreateTransaction validates a transaction creation request.
// Checks all required fields and validates their formats and constraints.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - symbol: Must be a non-empty ticker symbol
//   - action: Must be one of: Buy, Sell
//   - amount: Must be positive
//   - price: Must be positive
//   - fees: Must be zero or positive
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateTransaction(req request.CreateTransactionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if strings.TrimSpace(req.Action) == "" {
		errors["action"] = "action is required"
	} else if !ValidTransactionAction[req.Action] {
		errors["action"] = fmt.Sprintf("invalid action: %s", req.Action)
	}

	if req.Amount <= 0.0 {
		errors["amount"] = "amount must be positive"
	}

	if req.Price <= 0.0 {
		errors["price"] = "price must be positive"
	}

	if req.Fees < 0.0 {
		errors["fees"] = "fees must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateTransaction validates a transaction update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateTransaction(req request.UpdateTransactionRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		if strings.TrimSpace(*req.Date) == "" {
			errors["date"] = "date is required"
		} else if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			errors["date"] = err.Error()
		}
	}
	if req.Symbol != nil && strings.TrimSpace(*req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}
	if req.Action != nil {
		if strings.TrimSpace(*req.Action) == "" {
			errors["action"] = "action is required"
		} else if !ValidTransactionAction[*req.Action] {
			errors["action"] = fmt.Sprintf("invalid action: %s", *req.Action)
		}
	}
	if req.Amount != nil && *req.Amount <= 0.0 {
		errors["amount"] = "amount must be positive"
	}
	if req.Price != nil && *req.Price <= 0.0 {
		errors["price"] = "price must be positive"
	}
	if req.Fees != nil && *req.Fees < 0.0 {
		errors["fees"] = "fees must not be negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
