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

// LedgerRepository provides data access for the append-only ledger: the
// transaction and cash_flow tables. Records are immutable value objects;
// edits and deletes address records by their durable ID, never by position.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new LedgerRepository with the provided database connection.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// InsertTransaction stores a new transaction record.
func (r *LedgerRepository) InsertTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		INSERT INTO "transaction" (id, date, symbol, action, amount, price, fees)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		t.ID,
		t.Date.Format("2006-01-02"),
		t.Symbol,
		t.Action,
		t.Amount,
		t.Price,
		t.Fees,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}
	return nil
}

// ListTransactions retrieves every transaction with date on or before the
// given date, sorted ascending by date and then by insertion order. A zero
// time returns the complete ledger.
func (r *LedgerRepository) ListTransactions(through time.Time) ([]model.Transaction, error) {
	query := `
		SELECT id, date, symbol, action, amount, price, fees, created_at
		FROM "transaction"
	`
	var args []any
	if !through.IsZero() {
		query += ` WHERE date <= ?`
		args = append(args, through.Format("2006-01-02"))
	}
	query += ` ORDER BY date ASC, created_at ASC, id ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction table: %w", err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}

	for rows.Next() {
		var dateStr, createdAtStr string
		var t model.Transaction

		err := rows.Scan(
			&t.ID,
			&dateStr,
			&t.Symbol,
			&t.Action,
			&t.Amount,
			&t.Price,
			&t.Fees,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction table results: %w", err)
		}
		t.Date, err = ParseTime(dateStr)
		if err != nil || t.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		transactions = append(transactions, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction table: %w", err)
	}

	return transactions, nil
}

// GetTransaction retrieves a single transaction by ID.
// Returns apperrors.ErrTransactionNotFound if no record exists.
func (r *LedgerRepository) GetTransaction(id string) (model.Transaction, error) {
	query := `
		SELECT id, date, symbol, action, amount, price, fees, created_at
		FROM "transaction"
		WHERE id = ?
	`
	var t model.Transaction
	var dateStr, createdAtStr string
	err := r.db.QueryRow(query, id).Scan(
		&t.ID,
		&dateStr,
		&t.Symbol,
		&t.Action,
		&t.Amount,
		&t.Price,
		&t.Fees,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Transaction{}, apperrors.ErrTransactionNotFound
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("failed to scan transaction table results: %w", err)
	}
	t.Date, err = ParseTime(dateStr)
	if err != nil || t.Date.IsZero() {
		return t, fmt.Errorf("failed to parse date: %w", err)
	}
	t.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return t, fmt.Errorf("failed to parse date: %w", err)
	}

	return t, nil
}

// UpdateTransaction replaces the stored fields of the transaction with the
// given ID. Returns apperrors.ErrTransactionNotFound if no record exists.
func (r *LedgerRepository) UpdateTransaction(ctx context.Context, t *model.Transaction) error {
	query := `
		UPDATE "transaction"
		SET date = ?, symbol = ?, action = ?, amount = ?, price = ?, fees = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		t.Date.Format("2006-01-02"),
		t.Symbol,
		t.Action,
		t.Amount,
		t.Price,
		t.Fees,
		t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// DeleteTransaction removes the transaction with the given ID.
// Returns apperrors.ErrTransactionNotFound if no record exists.
func (r *LedgerRepository) DeleteTransaction(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM "transaction" WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// InsertCashFlow stores a new cash flow record.
func (r *LedgerRepository) InsertCashFlow(ctx context.Context, c *model.CashFlow) error {
	query := `
		INSERT INTO cash_flow (id, date, amount, flow_type)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		c.ID,
		c.Date.Format("2006-01-02"),
		c.Amount,
		c.FlowType,
	)
	if err != nil {
		return fmt.Errorf("failed to insert cash flow: %w", err)
	}
	return nil
}

// ListCashFlows retrieves every cash flow with date on or before the given
// date, sorted ascending by date and then by insertion order. A zero time
// returns the complete history.
func (r *LedgerRepository) ListCashFlows(through time.Time) ([]model.CashFlow, error) {
	query := `
		SELECT id, date, amount, flow_type, created_at
		FROM cash_flow
	`
	var args []any
	if !through.IsZero() {
		query += ` WHERE date <= ?`
		args = append(args, through.Format("2006-01-02"))
	}
	query += ` ORDER BY date ASC, created_at ASC, id ASC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cash_flow table: %w", err)
	}
	defer rows.Close()

	cashFlows := []model.CashFlow{}

	for rows.Next() {
		var dateStr, createdAtStr string
		var c model.CashFlow

		err := rows.Scan(
			&c.ID,
			&dateStr,
			&c.Amount,
			&c.FlowType,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cash_flow table results: %w", err)
		}
		c.Date, err = ParseTime(dateStr)
		if err != nil || c.Date.IsZero() {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}
		c.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date: %w", err)
		}

		cashFlows = append(cashFlows, c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cash_flow table: %w", err)
	}

	return cashFlows, nil
}

// GetCashFlow retrieves a single cash flow by ID.
// Returns apperrors.ErrCashFlowNotFound if no record exists.
func (r *LedgerRepository) GetCashFlow(id string) (model.CashFlow, error) {
	query := `
		SELECT id, date, amount, flow_type, created_at
		FROM cash_flow
		WHERE id = ?
	`
	var c model.CashFlow
	var dateStr, createdAtStr string
	err := r.db.QueryRow(query, id).Scan(
		&c.ID,
		&dateStr,
		&c.Amount,
		&c.FlowType,
		&createdAtStr,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CashFlow{}, apperrors.ErrCashFlowNotFound
	}
	if err != nil {
		return model.CashFlow{}, fmt.Errorf("failed to scan cash_flow table results: %w", err)
	}
	c.Date, err = ParseTime(dateStr)
	if err != nil || c.Date.IsZero() {
		return c, fmt.Errorf("failed to parse date: %w", err)
	}
	c.CreatedAt, err = ParseTime(createdAtStr)
	if err != nil {
		return c, fmt.Errorf("failed to parse date: %w", err)
	}

	return c, nil
}

// UpdateCashFlow replaces the stored fields of the cash flow with the given
// ID. Returns apperrors.ErrCashFlowNotFound if no record exists.
func (r *LedgerRepository) UpdateCashFlow(ctx context.Context, c *model.CashFlow) error {
	query := `
		UPDATE cash_flow
		SET date = ?, amount = ?, flow_type = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		c.Date.Format("2006-01-02"),
		c.Amount,
		c.FlowType,
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update cash flow: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrCashFlowNotFound
	}
	return nil
}

// DeleteCashFlow removes the cash flow with the given ID.
// Returns apperrors.ErrCashFlowNotFound if no record exists.
func (r *LedgerRepository) DeleteCashFlow(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM cash_flow WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete cash flow: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrCashFlowNotFound
	}
	return nil
}
