package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiello/tracy/internal/domain"
)

type fakeParser struct {
	result domain.ParsedTransaction
}

func (f *fakeParser) Parse(_ context.Context, _ string) domain.ParsedTransaction {
	return f.result
}

type fakeQuerier struct {
	answer string
}

func (f *fakeQuerier) Answer(_ context.Context, _ string) string { return f.answer }

type fakeStore struct {
	inserted []domain.ParsedTransaction
	listed   []domain.Transaction
	err      error
}

func (f *fakeStore) InsertParsed(_ context.Context, p domain.ParsedTransaction) (domain.Transaction, error) {
	if f.err != nil {
		return domain.Transaction{}, f.err
	}
	f.inserted = append(f.inserted, p)
	return domain.Transaction{
		ID:       "tx-1",
		Type:     p.Type,
		Category: p.Category,
		Amount:   p.Amount.Neg(),
		Date:     time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeStore) ListTransactions(_ context.Context, _, _ time.Time) ([]domain.Transaction, error) {
	return f.listed, f.err
}

type fakeLedger struct {
	income   decimal.Decimal
	expenses decimal.Decimal
}

func (f *fakeLedger) SumByType(_ context.Context, t domain.TransactionType, _, _ time.Time) (decimal.Decimal, error) {
	if t == domain.TypeIncome {
		return f.income, nil
	}
	return f.expenses, nil
}

func (f *fakeLedger) ExpensesByCategory(_ context.Context, _, _ time.Time) ([]domain.CategorySpend, error) {
	return []domain.CategorySpend{{Category: "Groceries", Total: f.expenses}}, nil
}

func (f *fakeLedger) SpentForCategory(_ context.Context, _ string, _, _ time.Time) (decimal.Decimal, error) {
	return f.expenses, nil
}

func (f *fakeLedger) Accounts(_ context.Context) ([]domain.Account, error) { return nil, nil }

func (f *fakeLedger) Budgets(_ context.Context) ([]domain.Budget, error) { return nil, nil }

func newTestServer(t *testing.T) (*Server, *fakeStore) {
	t.Helper()
	store := &fakeStore{}
	parser := &fakeParser{result: domain.ParsedTransaction{
		Amount:      decimal.RequireFromString("12.50"),
		Type:        domain.TypeExpense,
		Category:    "Dining Out",
		Description: "Lunch",
		Date:        "2026-08-29",
		Confidence:  0.85,
	}}
	ledger := &fakeLedger{
		income:   decimal.RequireFromString("3000"),
		expenses: decimal.RequireFromString("1200"),
	}
	return NewServer(parser, &fakeQuerier{answer: "You spent $1200.00 this month."}, store, ledger, zerolog.Nop()), store
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestParseEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/parse", "application/json",
		strings.NewReader(`{"text":"lunch 12.50 at cafe"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var parsed domain.ParsedTransaction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	assert.Equal(t, "Dining Out", parsed.Category)
	assert.Equal(t, domain.TypeExpense, parsed.Type)
}

func TestParseEndpointRejectsEmptyBody(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/parse", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateTransaction(t *testing.T) {
	srv, store := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/transactions", "application/json",
		strings.NewReader(`{"text":"lunch 12.50 at cafe"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Len(t, store.inserted, 1)

	var tx transactionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tx))
	assert.Equal(t, "tx-1", tx.ID)
	assert.Equal(t, "-12.50", tx.Amount)
}

func TestCreateTransactionNoAmount(t *testing.T) {
	srv, store := newTestServer(t)
	store.err = domain.ErrNoAmount
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/transactions", "application/json",
		strings.NewReader(`{"text":"bought some stuff"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestQueryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/query", "application/json",
		strings.NewReader(`{"question":"how much did I spend?"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var qr queryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&qr))
	assert.Equal(t, "You spent $1200.00 this month.", qr.Answer)
}

func TestSummaryEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/summary?from=2026-08-01&to=2026-09-01")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var sr summaryResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&sr))
	assert.Equal(t, "3000.00", sr.TotalIncome)
	assert.Equal(t, "1200.00", sr.TotalExpenses)
	assert.Equal(t, "1800.00", sr.Net)
	assert.Equal(t, "1200.00", sr.TopCategories["Groceries"])
}

func TestSummaryRejectsBadWindow(t *testing.T) {
	srv, _ := newTestServer(t)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/summary?from=yesterday")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
