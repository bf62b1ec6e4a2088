// Package query answers free-text financial questions over the ledger:
// canonical intents are computed directly, anything else falls back to a
// model-generated narrative over a compact computed context, behind a
// short-lived response cache.
package query

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiello/tracy/internal/domain"
)

// Ledger is the read-only aggregate surface the answerer computes from.
// The sqlite store implements it; tests use in-memory fakes. All sums are
// returned as absolute (non-negative) values.
type Ledger interface {
	// SumByType totals transactions of one direction inside [from, to).
	SumByType(ctx context.Context, t domain.TransactionType, from, to time.Time) (decimal.Decimal, error)

	// ExpensesByCategory ranks expense categories by absolute spend inside
	// [from, to), highest first.
	ExpensesByCategory(ctx context.Context, from, to time.Time) ([]domain.CategorySpend, error)

	// SpentForCategory totals absolute expense spend for one category.
	SpentForCategory(ctx context.Context, category string, from, to time.Time) (decimal.Decimal, error)

	// Accounts lists all accounts with current balances.
	Accounts(ctx context.Context) ([]domain.Account, error)

	// Budgets lists the configured monthly budgets.
	Budgets(ctx context.Context) ([]domain.Budget, error)
}
