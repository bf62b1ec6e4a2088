package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/xiello/tracy/internal/domain"
)

// SetBudget creates or replaces the monthly budget for a category.
func (s *Store) SetBudget(ctx context.Context, b domain.Budget) (domain.Budget, error) {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, category, amount)
		VALUES (?, ?, ?)
		ON CONFLICT(category) DO UPDATE SET amount = excluded.amount
	`, b.ID, b.Category, b.Amount.String())
	if err != nil {
		return domain.Budget{}, fmt.Errorf("SetBudget: %w", err)
	}
	return b, nil
}

// Budgets lists all configured budgets, alphabetically by category.
func (s *Store) Budgets(ctx context.Context) ([]domain.Budget, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, category, amount FROM budgets ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("Budgets: query: %w", err)
	}
	defer rows.Close()

	var out []domain.Budget
	for rows.Next() {
		var b domain.Budget
		var amount string
		if err := rows.Scan(&b.ID, &b.Category, &amount); err != nil {
			return nil, fmt.Errorf("Budgets: scan: %w", err)
		}
		if b.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("Budgets: bad amount %q: %w", amount, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// DeleteBudget removes the budget for a category.
func (s *Store) DeleteBudget(ctx context.Context, category string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM budgets WHERE category = ?`, category)
	if err != nil {
		return fmt.Errorf("DeleteBudget: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
