package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// CashFlowHandler handles HTTP requests for cash flow endpoints.
type CashFlowHandler struct {
	ledgerService *service.LedgerService
}

// NewCashFlowHandler creates a new CashFlowHandler with the provided service dependency.
func NewCashFlowHandler(ledgerService *service.LedgerService) *CashFlowHandler {
	return &CashFlowHandler{
		ledgerService: ledgerService,
	}
}

// AllCashFlows handles GET requests to retrieve the full cash flow history,
// date ascending.
//
// Endpoint: GET /api/cashflow
// Response: 200 OK with array of CashFlow
// Error: 500 Internal Server Error if retrieval fails
func (h *CashFlowHandler) AllCashFlows(w http.ResponseWriter, _ *http.Request) {
	cashFlows, err := h.ledgerService.ListCashFlows()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToRetrieveCashFlows.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, cashFlows)
}

// GetCashFlow handles GET requests to retrieve a single cash flow by ID.
//
// Endpoint: GET /api/cashflow/{uuid}
// Response: 200 OK with CashFlow
// Error: 400 Bad Request if cash flow ID is invalid (validated by middleware)
// Error: 404 Not Found if cash flow not found
func (h *CashFlowHandler) GetCashFlow(w http.ResponseWriter, r *http.Request) {
	cashFlowID := chi.URLParam(r, "uuid")

	cashFlow, err := h.ledgerService.GetCashFlow(cashFlowID)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToRetrieveCashFlow.Error(), err)
		return
	}

	respondJSON(w, http.StatusOK, cashFlow)
}

// CreateCashFlow handles POST requests to record a deposit, withdrawal, or
// dividend. A withdrawal larger than the cash balance is rejected.
//
// Endpoint: POST /api/cashflow
// Request Body: CreateCashFlowRequest (date, amount, flowType)
// Response: 201 Created with CashFlow
// Error: 400 Bad Request if validation fails, the date is in the future,
// or a withdrawal exceeds the cash balance
func (h *CashFlowHandler) CreateCashFlow(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateCashFlowRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateCashFlow(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	cashFlow, err := h.ledgerService.CreateCashFlow(r.Context(), req)
	if err != nil {
		respondServiceError(w, "failed to create cash flow", err)
		return
	}

	respondJSON(w, http.StatusCreated, cashFlow)
}

// UpdateCashFlow handles PUT requests to update an existing cash flow.
//
// Endpoint: PUT /api/cashflow/{uuid}
// Request Body: UpdateCashFlowRequest (all fields optional)
// Response: 200 OK with updated CashFlow
// Error: 400 Bad Request if cash flow ID is invalid (validated by middleware) or validation fails
// Error: 404 Not Found if cash flow not found
func (h *CashFlowHandler) UpdateCashFlow(w http.ResponseWriter, r *http.Request) {
	cashFlowID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateCashFlowRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateCashFlow(req); err != nil {
		respondServiceError(w, "validation failed", err)
		return
	}

	cashFlow, err := h.ledgerService.UpdateCashFlow(r.Context(), cashFlowID, req)
	if err != nil {
		respondServiceError(w, "failed to update cash flow", err)
		return
	}

	respondJSON(w, http.StatusOK, cashFlow)
}

// DeleteCashFlow handles DELETE requests to remove a cash flow.
//
// Endpoint: DELETE /api/cashflow/{uuid}
// Response: 204 No Content on successful deletion
// Error: 400 Bad Request if cash flow ID is invalid (validated by middleware)
// Error: 404 Not Found if cash flow not found
func (h *CashFlowHandler) DeleteCashFlow(w http.ResponseWriter, r *http.Request) {
	cashFlowID := chi.URLParam(r, "uuid")

	if err := h.ledgerService.DeleteCashFlow(r.Context(), cashFlowID); err != nil {
		respondServiceError(w, "failed to delete cash flow", err)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
