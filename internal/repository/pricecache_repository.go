package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Stock-Portfolio-Tracker/internal/model"
)

// PriceCacheRepository provides data access for the price_cache table: one
// closing price per (symbol, date). The cache only answers what it already
// holds; it never fetches. Re-caching a key overwrites the previous value.
type PriceCacheRepository struct {
	db *sql.DB
}

// NewPriceCacheRepository creates a new PriceCacheRepository with the provided database connection.
func NewPriceCacheRepository(db *sql.DB) *PriceCacheRepository {
	return &PriceCacheRepository{db: db}
}

// GetPrices retrieves the cached prices for a symbol within [startDate,
// endDate], ascending by date. Only dates actually cached are returned; gaps
// are the caller's concern.
func (r *PriceCacheRepository) GetPrices(symbol string, startDate, endDate time.Time) ([]model.PricePoint, error) {
	if startDate.After(endDate) {
		return nil, fmt.Errorf("startDate (%s) must be before or equal to endDate (%s)",
			startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	}

	query := `
		SELECT symbol, date, price
		FROM price_cache
		WHERE symbol = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, symbol, startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query price_cache table: %w", err)
	}
	defer rows.Close()

	prices := []model.PricePoint{}

	for rows.Next() {
		var dateStr string
		var p model.PricePoint

		if err := rows.Scan(&p.Symbol, &dateStr, &p.Price); err != nil {
			return nil, fmt.Errorf("failed to scan price_cache table results: %w", err)
		}
		p.Date, err = ParseTime(dateStr)
		if err != nil || p.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		prices = append(prices, p)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating price_cache table: %w", err)
	}

	return prices, nil
}

// PutPrices upserts a series of prices for a symbol in one transaction.
// Each (symbol, date) key is written at most once per call; the last value
// wins over anything already cached.
func (r *PriceCacheRepository) PutPrices(ctx context.Context, symbol string, points []model.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin price cache transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO price_cache (symbol, date, price)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare price cache insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range points {
		if _, err := stmt.ExecContext(ctx, symbol, p.Date.Format("2006-01-02"), p.Price); err != nil {
			return fmt.Errorf("failed to cache price for %s on %s: %w",
				symbol, p.Date.Format("2006-01-02"), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit price cache transaction: %w", err)
	}

	return nil
}

// LastKnownPrice returns the most recent cached price for a symbol regardless
// of date range. This is the fallback of last resort when no price can be
// fetched. Returns apperrors.ErrPriceNotFound when nothing is cached at all.
func (r *PriceCacheRepository) LastKnownPrice(symbol string) (model.PricePoint, error) {
	query := `
		SELECT symbol, date, price
		FROM price_cache
		WHERE symbol = ?
		ORDER BY date DESC
		LIMIT 1
	`

	var p model.PricePoint
	var dateStr string
	err := r.db.QueryRow(query, symbol).Scan(&p.Symbol, &dateStr, &p.Price)
	if errors.Is(err, sql.ErrNoRows) {
		return model.PricePoint{}, apperrors.ErrPriceNotFound
	}
	if err != nil {
		return model.PricePoint{}, fmt.Errorf("failed to query last known price: %w", err)
	}
	p.Date, err = ParseTime(dateStr)
	if err != nil || p.Date.IsZero() {
		return model.PricePoint{}, fmt.Errorf("failed to parse date: %w", err)
	}

	return p, nil
}

// LastCachedDate returns the most recent cached date for a symbol.
// Returns the zero time if the symbol has never been cached, or if the
// query fails.
func (r *PriceCacheRepository) LastCachedDate(symbol string) time.Time {
	var dateStr sql.NullString

	err := r.db.QueryRow(`SELECT MAX(date) FROM price_cache WHERE symbol = ?`, symbol).Scan(&dateStr)
	if err != nil || !dateStr.Valid {
		return time.Time{}
	}
	lastDate, err := time.Parse("2006-01-02", dateStr.String)
	if err != nil {
		return time.Time{}
	}

	return lastDate
}
