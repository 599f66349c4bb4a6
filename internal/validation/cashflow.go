package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// ValidFlowType contains the allowed cash flow type values.
var ValidFlowType = map[string]bool{
	model.FlowDeposit: true, model.FlowWithdrawal: true, model.FlowDividend: true,
}

// ValidateCreateCashFlow validates a cash flow creation request.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - amount: Must be positive
//   - flowType: Must be one of: Deposit, Withdrawal, Dividend
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateCreateCashFlow(req request.CreateCashFlowRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Date) == "" {
		errors["date"] = "date is required"
	} else if _, err := time.Parse("2006-01-02", req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if req.Amount <= 0.0 {
		errors["amount"] = "amount must be positive"
	}

	if strings.TrimSpace(req.FlowType) == "" {
		errors["flowType"] = "flowType is required"
	} else if !ValidFlowType[req.FlowType] {
		errors["flowType"] = fmt.Sprintf("invalid flowType: %s", req.FlowType)
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}

// ValidateUpdateCashFlow validates a cash flow update request.
// All fields are optional, but if provided, they must meet the same constraints as create.
func ValidateUpdateCashFlow(req request.UpdateCashFlowRequest) error {
	errors := make(map[string]string)

	if req.Date != nil {
		if strings.TrimSpace(*req.Date) == "" {
			errors["date"] = "date is required"
		} else if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			errors["date"] = err.Error()
		}
	}
	if req.Amount != nil && *req.Amount <= 0.0 {
		errors["amount"] = "amount must be positive"
	}
	if req.FlowType != nil {
		if strings.TrimSpace(*req.FlowType) == "" {
			errors["flowType"] = "flowType is required"
		} else if !ValidFlowType[*req.FlowType] {
			errors["flowType"] = fmt.Sprintf("invalid flowType: %s", *req.FlowType)
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
