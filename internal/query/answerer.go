package query

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/xiello/tracy/internal/domain"
)

// NoBudgetsMessage is returned for budget questions when none are configured.
const NoBudgetsMessage = "You haven't set up any budgets yet."

// Answerer recognizes canonical financial questions and computes the answers
// directly from ledger aggregates, with no model involvement.
type Answerer struct {
	ledger Ledger
	symbol string
}

// NewAnswerer creates a local answerer. symbol prefixes money amounts in
// answers; empty defaults to "$".
func NewAnswerer(ledger Ledger, symbol string) *Answerer {
	if symbol == "" {
		symbol = "$"
	}
	return &Answerer{ledger: ledger, symbol: symbol}
}

// Intent triggers, checked by substring containment in the order below.
// A query matching several intents only ever answers the first.
var (
	spendingTriggers  = []string{"spent", "spend", "expense"}
	breakdownTriggers = []string{"category", "categories", "top", "breakdown", "where", "most"}
	incomeTriggers    = []string{"income", "earn", "made"}
	balanceTriggers   = []string{"balance", "total", "have"}
	budgetTriggers    = []string{"budget"}
	savingsTriggers   = []string{"save", "saving"}
	summaryTriggers   = []string{"summary", "overview"}
)

// Answer computes a reply for a recognized question over [from, to).
// handled is false when no intent matches, signaling the caller to escalate
// to the narrative fallback; that is normal control flow, not a failure.
func (a *Answerer) Answer(ctx context.Context, query string, from, to time.Time) (answer string, handled bool, err error) {
	q := strings.ToLower(strings.TrimSpace(query))

	switch {
	case containsAny(q, spendingTriggers):
		answer, err = a.answerSpending(ctx, q, from, to)
	case containsAny(q, incomeTriggers):
		answer, err = a.answerIncome(ctx, from, to)
	case containsAny(q, balanceTriggers):
		answer, err = a.answerBalance(ctx)
	case containsAny(q, budgetTriggers):
		answer, err = a.answerBudgets(ctx, from, to)
	case containsAny(q, savingsTriggers):
		answer, err = a.answerSavings(ctx, from, to)
	case containsAny(q, summaryTriggers):
		answer, err = a.answerSummary(ctx, from, to)
	default:
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return answer, true, nil
}

func (a *Answerer) answerSpending(ctx context.Context, q string, from, to time.Time) (string, error) {
	total, err := a.ledger.SumByType(ctx, domain.TypeExpense, from, to)
	if err != nil {
		return "", fmt.Errorf("answerSpending: %w", err)
	}

	if !containsAny(q, breakdownTriggers) {
		return fmt.Sprintf("You've spent %s this month.", a.money(total)), nil
	}

	ranked, err := a.ledger.ExpensesByCategory(ctx, from, to)
	if err != nil {
		return "", fmt.Errorf("answerSpending: ranking: %w", err)
	}
	if len(ranked) > topCategoryCount {
		ranked = ranked[:topCategoryCount]
	}
	if len(ranked) == 0 {
		return "No expenses recorded this month yet.", nil
	}

	var b strings.Builder
	b.WriteString("Top spending this month:\n")
	for i, c := range ranked {
		fmt.Fprintf(&b, "%d. %s — %s\n", i+1, c.Category, a.money(c.Total))
	}
	fmt.Fprintf(&b, "Total: %s", a.money(total))
	return b.String(), nil
}

func (a *Answerer) answerIncome(ctx context.Context, from, to time.Time) (string, error) {
	total, err := a.ledger.SumByType(ctx, domain.TypeIncome, from, to)
	if err != nil {
		return "", fmt.Errorf("answerIncome: %w", err)
	}
	return fmt.Sprintf("You've received %s in income this month.", a.money(total)), nil
}

func (a *Answerer) answerBalance(ctx context.Context) (string, error) {
	accounts, err := a.ledger.Accounts(ctx)
	if err != nil {
		return "", fmt.Errorf("answerBalance: %w", err)
	}

	var b strings.Builder
	var total decimal.Decimal
	for _, acc := range accounts {
		total = total.Add(acc.Balance)
	}
	fmt.Fprintf(&b, "Total balance: %s", a.money(total))
	for _, acc := range accounts {
		fmt.Fprintf(&b, "\n  %s: %s", acc.Name, a.money(acc.Balance))
	}
	return b.String(), nil
}

func (a *Answerer) answerBudgets(ctx context.Context, from, to time.Time) (string, error) {
	budgets, err := a.ledger.Budgets(ctx)
	if err != nil {
		return "", fmt.Errorf("answerBudgets: %w", err)
	}
	if len(budgets) == 0 {
		return NoBudgetsMessage, nil
	}

	var b strings.Builder
	b.WriteString("Budget status:\n")
	for _, budget := range budgets {
		spent, err := a.ledger.SpentForCategory(ctx, budget.Category, from, to)
		if err != nil {
			return "", fmt.Errorf("answerBudgets: spent for %s: %w", budget.Category, err)
		}

		marker := "🟢"
		note := "on track"
		switch ratio := budgetRatio(spent, budget.Amount); {
		case ratio >= domain.BudgetOverThreshold:
			marker, note = "🔴", "over budget"
		case ratio >= domain.BudgetNearThreshold:
			marker, note = "🟡", "getting close"
		}
		fmt.Fprintf(&b, "%s %s: %s / %s (%s)\n", marker, budget.Category, a.money(spent), a.money(budget.Amount), note)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func (a *Answerer) answerSavings(ctx context.Context, from, to time.Time) (string, error) {
	income, err := a.ledger.SumByType(ctx, domain.TypeIncome, from, to)
	if err != nil {
		return "", fmt.Errorf("answerSavings: %w", err)
	}
	expenses, err := a.ledger.SumByType(ctx, domain.TypeExpense, from, to)
	if err != nil {
		return "", fmt.Errorf("answerSavings: %w", err)
	}

	net := income.Sub(expenses)
	if net.IsNegative() {
		return fmt.Sprintf("You've spent %s more than you earned this month.", a.money(net.Abs())), nil
	}
	return fmt.Sprintf("You've saved %s this month.", a.money(net)), nil
}

func (a *Answerer) answerSummary(ctx context.Context, from, to time.Time) (string, error) {
	fc, err := BuildContext(ctx, a.ledger, from, to)
	if err != nil {
		return "", fmt.Errorf("answerSummary: %w", err)
	}

	var b strings.Builder
	b.WriteString("This month so far:\n")
	fmt.Fprintf(&b, "  Income: %s\n", a.money(fc.TotalIncome))
	fmt.Fprintf(&b, "  Expenses: %s\n", a.money(fc.TotalExpenses))
	fmt.Fprintf(&b, "  Net: %s\n", a.money(fc.Net))
	fmt.Fprintf(&b, "  Total balance: %s", a.money(fc.TotalBalance))
	return b.String(), nil
}

func (a *Answerer) money(d decimal.Decimal) string {
	return a.symbol + d.StringFixed(2)
}

// budgetRatio is spent as a fraction of limit. A non-positive limit
// counts as fully blown.
func budgetRatio(spent, limit decimal.Decimal) float64 {
	if !limit.IsPositive() {
		return domain.BudgetOverThreshold
	}
	ratio, _ := spent.Div(limit).Float64()
	return ratio
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
