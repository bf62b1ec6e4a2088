package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xiello/tracy/internal/domain"
)

const dateLayout = "2006-01-02"

// InsertParsed stores a parsed transaction, applying the sign convention:
// expenses go in negative, income positive. The parse must be persistable;
// zero-amount parses are rejected with domain.ErrNoAmount.
func (s *Store) InsertParsed(ctx context.Context, p domain.ParsedTransaction) (domain.Transaction, error) {
	if !p.Persistable() {
		return domain.Transaction{}, domain.ErrNoAmount
	}

	date, err := time.Parse(dateLayout, p.Date)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("InsertParsed: bad date %q: %w", p.Date, err)
	}

	signed := p.Amount
	if p.Type == domain.TypeExpense {
		signed = signed.Neg()
	}

	tx := domain.Transaction{
		ID:          uuid.NewString(),
		Type:        p.Type,
		Category:    p.Category,
		CategoryID:  p.CategoryID,
		Merchant:    p.Merchant,
		Description: p.Description,
		Amount:      signed,
		Date:        date,
		CreatedAt:   time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, type, category, category_id, merchant, description, amount, tx_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, tx.ID, string(tx.Type), tx.Category, tx.CategoryID, tx.Merchant, tx.Description,
		tx.Amount.String(), tx.Date.Format(dateLayout), tx.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("InsertParsed: insert: %w", err)
	}
	return tx, nil
}

// ListTransactions returns transactions inside [from, to), newest first.
func (s *Store) ListTransactions(ctx context.Context, from, to time.Time) ([]domain.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, category, category_id, merchant, description, amount, tx_date, created_at
		FROM transactions
		WHERE tx_date >= ? AND tx_date < ?
		ORDER BY tx_date DESC, created_at DESC
	`, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, rows.Err()
}

// SumByType totals transactions of one direction inside [from, to), returned
// as an absolute value. Summing happens in Go so amounts stay exact decimals.
func (s *Store) SumByType(ctx context.Context, t domain.TransactionType, from, to time.Time) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT amount FROM transactions
		WHERE type = ? AND tx_date >= ? AND tx_date < ?
	`, string(t), from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("SumByType: query: %w", err)
	}
	defer rows.Close()

	var total decimal.Decimal
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Decimal{}, fmt.Errorf("SumByType: scan: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("SumByType: bad amount %q: %w", raw, err)
		}
		total = total.Add(amount.Abs())
	}
	return total, rows.Err()
}

// ExpensesByCategory ranks expense categories by absolute spend inside
// [from, to), highest first.
func (s *Store) ExpensesByCategory(ctx context.Context, from, to time.Time) ([]domain.CategorySpend, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT category, amount FROM transactions
		WHERE type = ? AND tx_date >= ? AND tx_date < ?
	`, string(domain.TypeExpense), from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return nil, fmt.Errorf("ExpensesByCategory: query: %w", err)
	}
	defer rows.Close()

	totals := make(map[string]decimal.Decimal)
	for rows.Next() {
		var cat, raw string
		if err := rows.Scan(&cat, &raw); err != nil {
			return nil, fmt.Errorf("ExpensesByCategory: scan: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("ExpensesByCategory: bad amount %q: %w", raw, err)
		}
		totals[cat] = totals[cat].Add(amount.Abs())
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]domain.CategorySpend, 0, len(totals))
	for cat, total := range totals {
		out = append(out, domain.CategorySpend{Category: cat, Total: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Total.Equal(out[j].Total) {
			return out[i].Total.GreaterThan(out[j].Total)
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

// SpentForCategory totals absolute expense spend for one category in [from, to).
func (s *Store) SpentForCategory(ctx context.Context, category string, from, to time.Time) (decimal.Decimal, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT amount FROM transactions
		WHERE type = ? AND category = ? AND tx_date >= ? AND tx_date < ?
	`, string(domain.TypeExpense), category, from.Format(dateLayout), to.Format(dateLayout))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("SpentForCategory: query: %w", err)
	}
	defer rows.Close()

	var total decimal.Decimal
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return decimal.Decimal{}, fmt.Errorf("SpentForCategory: scan: %w", err)
		}
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return decimal.Decimal{}, fmt.Errorf("SpentForCategory: bad amount %q: %w", raw, err)
		}
		total = total.Add(amount.Abs())
	}
	return total, rows.Err()
}

// DeleteTransaction removes one entry by ID.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("DeleteTransaction: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTransaction(rows *sql.Rows) (domain.Transaction, error) {
	var (
		tx              domain.Transaction
		typeStr         string
		amountStr       string
		dateStr, crtStr string
	)
	if err := rows.Scan(&tx.ID, &typeStr, &tx.Category, &tx.CategoryID, &tx.Merchant,
		&tx.Description, &amountStr, &dateStr, &crtStr); err != nil {
		return tx, fmt.Errorf("scanTransaction: %w", err)
	}

	tx.Type = domain.TransactionType(typeStr)

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return tx, fmt.Errorf("scanTransaction: bad amount %q: %w", amountStr, err)
	}
	tx.Amount = amount

	if tx.Date, err = time.Parse(dateLayout, dateStr); err != nil {
		return tx, fmt.Errorf("scanTransaction: bad date %q: %w", dateStr, err)
	}
	if tx.CreatedAt, err = time.Parse(time.RFC3339, crtStr); err != nil {
		// created_at may come from sqlite's datetime('now') default
		tx.CreatedAt, _ = time.Parse("2006-01-02 15:04:05", crtStr)
	}
	return tx, nil
}
