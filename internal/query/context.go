package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiello/tracy/internal/domain"
)

// FinancialContext is an ephemeral aggregate snapshot over one window,
// computed on demand for narrative answers and never persisted.
type FinancialContext struct {
	From, To      time.Time
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Net           decimal.Decimal
	SavingsRate   decimal.Decimal // percent of income kept, zero when no income
	TopCategories []domain.CategorySpend
	Accounts      []domain.Account
	TotalBalance  decimal.Decimal
	Budgets       []domain.Budget
}

const topCategoryCount = 5

// BuildContext computes the snapshot from the ledger.
func BuildContext(ctx context.Context, ledger Ledger, from, to time.Time) (*FinancialContext, error) {
	income, err := ledger.SumByType(ctx, domain.TypeIncome, from, to)
	if err != nil {
		return nil, fmt.Errorf("BuildContext: income: %w", err)
	}
	expenses, err := ledger.SumByType(ctx, domain.TypeExpense, from, to)
	if err != nil {
		return nil, fmt.Errorf("BuildContext: expenses: %w", err)
	}
	byCategory, err := ledger.ExpensesByCategory(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("BuildContext: category ranking: %w", err)
	}
	if len(byCategory) > topCategoryCount {
		byCategory = byCategory[:topCategoryCount]
	}
	accounts, err := ledger.Accounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("BuildContext: accounts: %w", err)
	}
	budgets, err := ledger.Budgets(ctx)
	if err != nil {
		return nil, fmt.Errorf("BuildContext: budgets: %w", err)
	}

	fc := &FinancialContext{
		From:          from,
		To:            to,
		TotalIncome:   income,
		TotalExpenses: expenses,
		Net:           income.Sub(expenses),
		TopCategories: byCategory,
		Accounts:      accounts,
		Budgets:       budgets,
	}
	for _, a := range accounts {
		fc.TotalBalance = fc.TotalBalance.Add(a.Balance)
	}
	if income.IsPositive() {
		fc.SavingsRate = fc.Net.Div(income).Mul(decimal.NewFromInt(100)).Round(1)
	}
	return fc, nil
}

// PromptSummary renders the snapshot compactly for a narrative-generation
// prompt: totals, top categories, and counts rather than full listings.
func (fc *FinancialContext) PromptSummary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Window: %s to %s\n", fc.From.Format("2006-01-02"), fc.To.Format("2006-01-02"))
	fmt.Fprintf(&b, "Total income: %s\n", fc.TotalIncome.StringFixed(2))
	fmt.Fprintf(&b, "Total expenses: %s\n", fc.TotalExpenses.StringFixed(2))
	fmt.Fprintf(&b, "Net: %s\n", fc.Net.StringFixed(2))
	fmt.Fprintf(&b, "Savings rate: %s%%\n", fc.SavingsRate.String())
	fmt.Fprintf(&b, "Total account balance: %s across %d accounts\n", fc.TotalBalance.StringFixed(2), len(fc.Accounts))
	fmt.Fprintf(&b, "Budgets configured: %d\n", len(fc.Budgets))
	if len(fc.TopCategories) > 0 {
		b.WriteString("Top expense categories:\n")
		for _, c := range fc.TopCategories {
			fmt.Fprintf(&b, "  - %s: %s\n", c.Category, c.Total.StringFixed(2))
		}
	}
	return b.String()
}
