package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/service"
)

// PortfolioHandler handles HTTP requests for derived portfolio state:
// holdings, cash balance, current value, value history, and ROI.
type PortfolioHandler struct {
	ledgerService    *service.LedgerService
	valuationService *service.ValuationService
}

// NewPortfolioHandler creates a new PortfolioHandler with the provided service dependencies.
func NewPortfolioHandler(ledgerService *service.LedgerService, valuationService *service.ValuationService) *PortfolioHandler {
	return &PortfolioHandler{
		ledgerService:    ledgerService,
		valuationService: valuationService,
	}
}

// HoldingsResponse represents the current share positions per symbol.
type HoldingsResponse struct {
	Holdings map[string]float64 `json:"holdings"`
}

// CashResponse represents the current cash balance.
type CashResponse struct {
	Cash float64 `json:"cash"`
}

// Holdings handles GET requests for the current net share position per symbol.
// Symbols with a zero or negative net position are omitted.
//
// Endpoint: GET /api/portfolio/holdings
// Response: 200 OK with HoldingsResponse
// Error: 500 Internal Server Error if the ledger cannot be read
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, _ *http.Request) {
	holdings, err := h.ledgerService.CurrentHoldings()
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError, apperrors.ErrFailedToGetHoldings.Error(), err.Error())
		return
	}

	respondJSON(w, http.StatusOK, HoldingsResponse{Holdings: holdings})
}

// Cash handles GET requests for the current cash balance.
//
// Endpoint: GET /api/portfolio/cash
// Response: 200 OK with CashResponse
// Error: 500 Internal Server Error if the balance is negative or the ledger cannot be read
func (h *PortfolioHandler) Cash(w http.ResponseWriter, _ *http.Request) {
	cash, err := h.ledgerService.CashBalance()
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToGetCashBalance.Error(), err)
		return
	}

	respondJSON(w, http.StatusOK, CashResponse{Cash: cash})
}

// Value handles GET requests for the current portfolio value using live
// quotes. When no held symbol can be priced the result carries cashOnly=true
// and lists the unpriced symbols, so clients can surface the degraded figure.
//
// Endpoint: GET /api/portfolio/value
// Response: 200 OK with PortfolioValue
// Error: 500 Internal Server Error if the ledger cannot be read
func (h *PortfolioHandler) Value(w http.ResponseWriter, r *http.Request) {
	value, err := h.valuationService.CurrentValue(r.Context())
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToGetPortfolioValue.Error(), err)
		return
	}

	respondJSON(w, http.StatusOK, value)
}

// History handles GET requests for the daily portfolio value series over a
// date range.
//
// Endpoint: GET /api/portfolio/history?start=YYYY-MM-DD&end=YYYY-MM-DD
// Response: 200 OK with array of DailyValue
// Error: 400 Bad Request if the range is missing, malformed, inverted, or in the future
// Error: 422 Unprocessable Entity if prices cannot be resolved for a held symbol
func (h *PortfolioHandler) History(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	series, err := h.valuationService.ValueSeries(r.Context(), start, end)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToGetPortfolioHistory.Error(), err)
		return
	}

	respondJSON(w, http.StatusOK, series)
}

// ROI handles GET requests for the portfolio return over a date range,
// compared against the benchmark index.
//
// Endpoint: GET /api/portfolio/roi?start=YYYY-MM-DD&end=YYYY-MM-DD
// Response: 200 OK with ROIComparison
// Error: 400 Bad Request if the range is missing, malformed, inverted, or in the future
// Error: 422 Unprocessable Entity if prices cannot be resolved for a held symbol
func (h *PortfolioHandler) ROI(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}

	comparison, err := h.valuationService.CompareToBenchmark(r.Context(), start, end)
	if err != nil {
		respondServiceError(w, apperrors.ErrFailedToCalculateROI.Error(), err)
		return
	}

	respondJSON(w, http.StatusOK, comparison)
}
