package domain

import "github.com/shopspring/decimal"

// Account is a money holding (bank account, card, cash) with a running balance.
type Account struct {
	ID       string
	Name     string
	Type     string // CURRENT, SAVINGS, CARD, CASH
	Currency string
	Balance  decimal.Decimal
}

// Budget is a monthly spending limit for one expense category.
type Budget struct {
	ID       string
	Category string
	Amount   decimal.Decimal
}

// BudgetStatus thresholds, as fractions of the budget amount.
const (
	BudgetNearThreshold = 0.8
	BudgetOverThreshold = 1.0
)

// CategorySpend is one row of a per-category expense ranking.
type CategorySpend struct {
	Category string
	Total    decimal.Decimal
}
