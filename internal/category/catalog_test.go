package category

import (
	"testing"

	"github.com/xiello/tracy/internal/domain"
)

func TestResolve(t *testing.T) {
	cat := Default()

	tests := []struct {
		name   string
		input  string
		txType domain.TransactionType
		want   string
	}{
		{"exact match", "Groceries", domain.TypeExpense, "Groceries"},
		{"case insensitive", "groceries", domain.TypeExpense, "Groceries"},
		{"whitespace trimmed", "  Salary  ", domain.TypeIncome, "Salary"},
		{"containment input shorter", "dining", domain.TypeExpense, "Dining Out"},
		{"containment input longer", "Dining Out & Drinks", domain.TypeExpense, "Dining Out"},
		{"unknown expense", "Spaceships", domain.TypeExpense, FallbackExpense},
		{"unknown income", "Lottery", domain.TypeIncome, FallbackIncome},
		{"wrong type falls back", "Groceries", domain.TypeIncome, FallbackIncome},
		{"empty", "", domain.TypeExpense, FallbackExpense},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cat.Resolve(tt.input, tt.txType)
			if got.Name != tt.want {
				t.Errorf("Resolve(%q, %s) = %q, want %q", tt.input, tt.txType, got.Name, tt.want)
			}
		})
	}
}

func TestFallbacksPresent(t *testing.T) {
	cat := Default()
	if _, ok := cat.ByName(FallbackExpense); !ok {
		t.Errorf("default catalog is missing %q", FallbackExpense)
	}
	if _, ok := cat.ByName(FallbackIncome); !ok {
		t.Errorf("default catalog is missing %q", FallbackIncome)
	}
}

func TestForTypeOrder(t *testing.T) {
	cat := NewCatalog([]Definition{
		{ID: "b", Name: "B", Type: domain.TypeExpense},
		{ID: "a", Name: "A", Type: domain.TypeExpense},
		{ID: "i", Name: "I", Type: domain.TypeIncome},
	})
	got := cat.ForType(domain.TypeExpense)
	if len(got) != 2 || got[0].Name != "B" || got[1].Name != "A" {
		t.Errorf("ForType must preserve declaration order, got %+v", got)
	}
}
