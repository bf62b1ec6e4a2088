package parse

import (
	"strings"

	"github.com/xiello/tracy/internal/domain"
)

// Keywords whose presence marks income when no explicit sign is given.
// Checked by substring containment against the lowercased input.
var incomeKeywords = []string{
	"salary",
	"paycheck",
	"income",
	"received",
	"got paid",
	"earned",
	"bonus",
	"refund",
	"dividend",
	"gift from",
	"sent me",
	"cashback",
	"payout",
}

// ClassifyDirection decides income vs expense. An explicit sign always wins
// over keyword inference; with neither sign nor income keyword present the
// default is expense.
func ClassifyDirection(text, sign string) domain.TransactionType {
	switch sign {
	case "+":
		return domain.TypeIncome
	case "-":
		return domain.TypeExpense
	}

	lower := strings.ToLower(text)
	for _, kw := range incomeKeywords {
		if strings.Contains(lower, kw) {
			return domain.TypeIncome
		}
	}
	return domain.TypeExpense
}
