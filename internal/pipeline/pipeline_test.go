package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/xiello/tracy/internal/category"
	"github.com/xiello/tracy/internal/domain"
	"github.com/xiello/tracy/internal/llm"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

// mockModel records calls and plays back a canned response or error.
type mockModel struct {
	calls    int
	response map[string]interface{}
	err      error
}

func (m *mockModel) GenerateStructured(ctx context.Context, prompt string) (map[string]interface{}, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockModel) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", errors.New("not used")
}

func newTestPipeline(model *mockModel) *Pipeline {
	var c llm.Client
	if model != nil {
		c = model
	}
	return New(category.Default(), c, zerolog.Nop(), WithClock(testClock))
}

func TestParseHighConfidenceSkipsModel(t *testing.T) {
	model := &mockModel{}
	p := newTestPipeline(model)

	got := p.Parse(context.Background(), "lunch 12.50 at cafe")
	if model.calls != 0 {
		t.Errorf("model called %d times for a confident rule parse, want 0", model.calls)
	}
	if got.Category != "Dining Out" || got.Confidence != 0.85 {
		t.Errorf("unexpected rule result: %+v", got)
	}
}

func TestParseLowConfidenceEscalates(t *testing.T) {
	model := &mockModel{response: map[string]interface{}{
		"amount":      float64(18),
		"type":        "expense",
		"category":    "groceries",
		"merchant":    "Corner Shop",
		"description": "Weekly shop",
		"date":        "2025-03-14",
		"confidence":  0.92,
	}}
	p := newTestPipeline(model)

	got := p.Parse(context.Background(), "weekly shop 18")
	if model.calls != 1 {
		t.Fatalf("model called %d times, want exactly 1", model.calls)
	}
	if got.Category != "Groceries" {
		t.Errorf("Category = %q, want repaired %q", got.Category, "Groceries")
	}
	if got.Merchant != "Corner Shop" {
		t.Errorf("Merchant = %q, want %q", got.Merchant, "Corner Shop")
	}
	if got.Date != "2025-03-14" {
		t.Errorf("Date = %q, want model-provided date kept", got.Date)
	}
	if got.Confidence != 0.92 {
		t.Errorf("Confidence = %v, want 0.92", got.Confidence)
	}
}

func TestParseEscalationFailureFallsBack(t *testing.T) {
	model := &mockModel{err: errors.New("provider unavailable")}
	p := newTestPipeline(model)

	got := p.Parse(context.Background(), "weekly shop 18")
	if model.calls != 1 {
		t.Fatalf("model called %d times, want exactly 1 (no retry loop)", model.calls)
	}
	if got.Category != category.FallbackExpense || got.Confidence != 0.5 {
		t.Errorf("fallback result = %+v, want the rule-based parse", got)
	}
	if got.Amount.String() != "18" {
		t.Errorf("Amount = %s, want 18 from the rule parse", got.Amount)
	}
}

func TestParseUnparseableModelShapeFallsBack(t *testing.T) {
	model := &mockModel{response: map[string]interface{}{"nonsense": true}}
	p := newTestPipeline(model)

	got := p.Parse(context.Background(), "weekly shop 18")
	if got.Category != category.FallbackExpense {
		t.Errorf("Category = %q, want rule fallback after bad model shape", got.Category)
	}
}

func TestParseNilModelNeverEscalates(t *testing.T) {
	p := newTestPipeline(nil)
	got := p.Parse(context.Background(), "weekly shop 18")
	if got.Confidence != 0.5 {
		t.Errorf("Confidence = %v, want the plain rule result", got.Confidence)
	}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		confidence float64
		want       Decision
	}{
		{0.85, Done},
		{0.75, Done},
		{0.7499, Escalate},
		{0.5, Escalate},
		{0, Escalate},
	}
	for _, tt := range tests {
		if got := Decide(tt.confidence, ConfidenceThreshold); got != tt.want {
			t.Errorf("Decide(%v) = %v, want %v", tt.confidence, got, tt.want)
		}
	}
}

func TestValidatorRepair(t *testing.T) {
	v := NewValidator(category.Default(), testClock)

	tests := []struct {
		name         string
		in           domain.ParsedTransaction
		wantCategory string
		wantAmount   string
		wantDate     string
		wantConf     float64
	}{
		{
			name: "valid input is untouched",
			in: domain.ParsedTransaction{
				Amount: decimal.RequireFromString("12.5"), Type: domain.TypeExpense,
				Category: "Dining Out", Date: "2025-03-10", Confidence: 0.9,
			},
			wantCategory: "Dining Out", wantAmount: "12.5", wantDate: "2025-03-10", wantConf: 0.9,
		},
		{
			name: "negative amount forced absolute",
			in: domain.ParsedTransaction{
				Amount: decimal.RequireFromString("-45"), Type: domain.TypeExpense,
				Category: "Groceries", Date: "2025-03-10", Confidence: 0.9,
			},
			wantCategory: "Groceries", wantAmount: "45", wantDate: "2025-03-10", wantConf: 0.9,
		},
		{
			name: "unknown category falls back",
			in: domain.ParsedTransaction{
				Amount: decimal.RequireFromString("5"), Type: domain.TypeExpense,
				Category: "Time Travel", Date: "2025-03-10", Confidence: 0.9,
			},
			wantCategory: category.FallbackExpense, wantAmount: "5", wantDate: "2025-03-10", wantConf: 0.9,
		},
		{
			name: "containment match resolves",
			in: domain.ParsedTransaction{
				Amount: decimal.RequireFromString("5"), Type: domain.TypeExpense,
				Category: "dining", Date: "2025-03-10", Confidence: 0.9,
			},
			wantCategory: "Dining Out", wantAmount: "5", wantDate: "2025-03-10", wantConf: 0.9,
		},
		{
			name: "bad date replaced with today",
			in: domain.ParsedTransaction{
				Amount: decimal.RequireFromString("5"), Type: domain.TypeExpense,
				Category: "Groceries", Date: "14/03/2025", Confidence: 0.9,
			},
			wantCategory: "Groceries", wantAmount: "5", wantDate: "2025-03-15", wantConf: 0.9,
		},
		{
			name: "confidence clamped high",
			in: domain.ParsedTransaction{
				Amount: decimal.RequireFromString("5"), Type: domain.TypeExpense,
				Category: "Groceries", Date: "2025-03-10", Confidence: 1.7,
			},
			wantCategory: "Groceries", wantAmount: "5", wantDate: "2025-03-10", wantConf: 1,
		},
		{
			name: "confidence clamped low",
			in: domain.ParsedTransaction{
				Amount: decimal.RequireFromString("5"), Type: domain.TypeExpense,
				Category: "Groceries", Date: "2025-03-10", Confidence: -0.2,
			},
			wantCategory: "Groceries", wantAmount: "5", wantDate: "2025-03-10", wantConf: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := v.Repair(tt.in)
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Amount.String() != tt.wantAmount {
				t.Errorf("Amount = %s, want %s", got.Amount, tt.wantAmount)
			}
			if got.Date != tt.wantDate {
				t.Errorf("Date = %q, want %q", got.Date, tt.wantDate)
			}
			if got.Confidence != tt.wantConf {
				t.Errorf("Confidence = %v, want %v", got.Confidence, tt.wantConf)
			}
		})
	}
}

func TestTransformModelOutput(t *testing.T) {
	raw := map[string]interface{}{
		"amount":      25.0,
		"type":        "Income",
		"category":    "Salary",
		"merchant":    nil,
		"description": "March salary",
		"date":        "2025-03-01",
		"confidence":  0.95,
	}
	got, err := transformModelOutput(raw)
	if err != nil {
		t.Fatalf("transformModelOutput returned error: %v", err)
	}
	if got.Type != domain.TypeIncome {
		t.Errorf("Type = %q, want income (case-folded)", got.Type)
	}
	if got.Merchant != "" {
		t.Errorf("Merchant = %q, want empty for null", got.Merchant)
	}

	if _, err := transformModelOutput(map[string]interface{}{"type": "expense"}); err == nil {
		t.Error("expected error for missing amount")
	}
	if _, err := transformModelOutput(map[string]interface{}{"amount": 5.0, "type": "sideways", "category": "x"}); err == nil {
		t.Error("expected error for unknown type")
	}
}
