package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiello/tracy/internal/category"
	"github.com/xiello/tracy/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func parsed(amount string, txType domain.TransactionType, cat, date string) domain.ParsedTransaction {
	return domain.ParsedTransaction{
		Amount:      dec(amount),
		Type:        txType,
		Category:    cat,
		Description: cat,
		Date:        date,
		Confidence:  0.85,
	}
}

func TestInsertParsedSignEncoding(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	exp, err := s.InsertParsed(ctx, parsed("45", domain.TypeExpense, "Groceries", "2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, "-45", exp.Amount.String(), "expenses are stored negative")

	inc, err := s.InsertParsed(ctx, parsed("3000", domain.TypeIncome, "Salary", "2025-03-01"))
	require.NoError(t, err)
	assert.Equal(t, "3000", inc.Amount.String(), "income stays positive")

	list, err := s.ListTransactions(ctx, day("2025-03-01"), day("2025-04-01"))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestInsertParsedRejectsZeroAmount(t *testing.T) {
	s := newTestStore(t)
	_, err := s.InsertParsed(context.Background(), parsed("0", domain.TypeExpense, "Other", "2025-03-10"))
	assert.True(t, errors.Is(err, domain.ErrNoAmount))
}

func TestSumByTypeAndWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, s, parsed("45.50", domain.TypeExpense, "Groceries", "2025-03-10"))
	mustInsert(t, s, parsed("12.50", domain.TypeExpense, "Dining Out", "2025-03-12"))
	mustInsert(t, s, parsed("3000", domain.TypeIncome, "Salary", "2025-03-01"))
	// Outside the window.
	mustInsert(t, s, parsed("99", domain.TypeExpense, "Groceries", "2025-02-27"))

	expenses, err := s.SumByType(ctx, domain.TypeExpense, day("2025-03-01"), day("2025-04-01"))
	require.NoError(t, err)
	assert.Equal(t, "58", expenses.String())

	income, err := s.SumByType(ctx, domain.TypeIncome, day("2025-03-01"), day("2025-04-01"))
	require.NoError(t, err)
	assert.Equal(t, "3000", income.String())
}

func TestExpensesByCategoryRanking(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, s, parsed("30", domain.TypeExpense, "Groceries", "2025-03-10"))
	mustInsert(t, s, parsed("60", domain.TypeExpense, "Groceries", "2025-03-11"))
	mustInsert(t, s, parsed("70", domain.TypeExpense, "Transport", "2025-03-12"))

	ranked, err := s.ExpensesByCategory(ctx, day("2025-03-01"), day("2025-04-01"))
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Groceries", ranked[0].Category)
	assert.Equal(t, "90", ranked[0].Total.String())
	assert.Equal(t, "Transport", ranked[1].Category)
}

func TestSpentForCategory(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustInsert(t, s, parsed("30", domain.TypeExpense, "Groceries", "2025-03-10"))
	mustInsert(t, s, parsed("25", domain.TypeExpense, "Transport", "2025-03-10"))

	spent, err := s.SpentForCategory(ctx, "Groceries", day("2025-03-01"), day("2025-04-01"))
	require.NoError(t, err)
	assert.Equal(t, "30", spent.String())
}

func TestBudgets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.SetBudget(ctx, domain.Budget{Category: "Groceries", Amount: dec("200")})
	require.NoError(t, err)
	// Upsert replaces the amount.
	_, err = s.SetBudget(ctx, domain.Budget{Category: "Groceries", Amount: dec("250")})
	require.NoError(t, err)

	budgets, err := s.Budgets(ctx)
	require.NoError(t, err)
	require.Len(t, budgets, 1)
	assert.Equal(t, "250", budgets[0].Amount.String())

	require.NoError(t, s.DeleteBudget(ctx, "Groceries"))
	assert.True(t, errors.Is(s.DeleteBudget(ctx, "Groceries"), domain.ErrNotFound))
}

func TestAccounts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.UpsertAccount(ctx, domain.Account{Name: "Checking", Balance: dec("820.50")})
	require.NoError(t, err)
	_, err = s.UpsertAccount(ctx, domain.Account{Name: "Checking", Balance: dec("900")})
	require.NoError(t, err)

	got, err := s.AccountByName(ctx, "Checking")
	require.NoError(t, err)
	assert.Equal(t, "900", got.Balance.String())

	_, err = s.AccountByName(ctx, "Nope")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestLoadCatalogSeedsDefaults(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	catalog, err := s.LoadCatalog(ctx)
	require.NoError(t, err)

	def, ok := catalog.ByName("Groceries")
	require.True(t, ok)
	assert.Equal(t, domain.TypeExpense, def.Type)
	assert.Contains(t, def.Keywords, "lidl")

	if _, ok := catalog.ByName(category.FallbackIncome); !ok {
		t.Errorf("seeded catalog is missing %q", category.FallbackIncome)
	}

	// Second load reads back the seeded rows in the same order.
	again, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Names(domain.TypeExpense), again.Names(domain.TypeExpense))
}

func mustInsert(t *testing.T, s *Store, p domain.ParsedTransaction) {
	t.Helper()
	_, err := s.InsertParsed(context.Background(), p)
	require.NoError(t, err)
}

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}
