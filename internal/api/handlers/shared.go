package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/repository"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("Failed to encode JSON: %v", err)
		}
	}
}

// parseJSON decodes a JSON request body into the given request type.
func parseJSON[T any](r *http.Request) (T, error) {
	var req T
	err := json.NewDecoder(r.Body).Decode(&req)
	return req, err
}

// parseDateRange extracts and parses the start and end query parameters.
// Both are required, in YYYY-MM-DD format.
func parseDateRange(r *http.Request) (time.Time, time.Time, error) {
	startParam := r.URL.Query().Get("start")
	endParam := r.URL.Query().Get("end")
	if startParam == "" || endParam == "" {
		return time.Time{}, time.Time{}, errors.New("start and end query parameters are required")
	}
	start, err := repository.ParseTime(startParam)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := repository.ParseTime(endParam)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// respondServiceError maps domain errors to HTTP status codes:
// validation failures, bad date ranges and affordability violations are
// client errors, missing price data is unprocessable, missing records are
// not found, and a negative ledger balance is a server-side invariant break.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	var (
		validationErr *validation.Error
		dateRangeErr  *apperrors.DateRangeError
		fundsErr      *apperrors.InsufficientFundsError
		priceErr      *apperrors.PriceDataError
		negativeErr   *apperrors.NegativeCashError
	)
	switch {
	case errors.As(err, &validationErr):
		response.RespondError(w, http.StatusBadRequest, "validation failed", validationErr.Fields)
	case errors.As(err, &dateRangeErr),
		errors.As(err, &fundsErr),
		errors.Is(err, apperrors.ErrInsufficientShares):
		response.RespondError(w, http.StatusBadRequest, message, err.Error())
	case errors.As(err, &priceErr):
		response.RespondError(w, http.StatusUnprocessableEntity, message, err.Error())
	case errors.Is(err, apperrors.ErrTransactionNotFound),
		errors.Is(err, apperrors.ErrCashFlowNotFound):
		response.RespondError(w, http.StatusNotFound, err.Error(), "")
	case errors.As(err, &negativeErr):
		response.RespondError(w, http.StatusInternalServerError, message, err.Error())
	default:
		response.RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}
