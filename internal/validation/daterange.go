package validation

import (
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
)

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ValidateDateRange enforces the shared date rule used by every public
// valuation entry point: both endpoints must be on or before today, and start
// must not be after end. The operation name ends up in the error message.
func ValidateDateRange(operation string, start, end time.Time) error {
	today := Today()
	if start.After(end) {
		return &apperrors.DateRangeError{Operation: operation, Start: start, End: end, Today: today}
	}
	if start.After(today) || end.After(today) {
		return &apperrors.DateRangeError{Operation: operation, Start: start, End: end, Today: today}
	}
	return nil
}

// ValidateNotFuture rejects a single date in the future. Used when inserting
// ledger records, which can only describe things that already happened.
func ValidateNotFuture(operation string, date time.Time) error {
	return ValidateDateRange(operation, date, date)
}
