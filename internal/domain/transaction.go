package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money movement.
type TransactionType string

const (
	TypeIncome  TransactionType = "income"
	TypeExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two known directions.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// ParsedTransaction is the output of the text-understanding pipeline.
// Amount is always non-negative at this boundary; the direction lives in Type
// and the store re-applies the sign on write. Category is guaranteed to be a
// display name present in the catalog for the resolved Type (or the type's
// fallback), never a raw model string.
type ParsedTransaction struct {
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	CategoryID  string          `json:"category_id,omitempty"` // populated during validation
	Merchant    string          `json:"merchant,omitempty"`
	Description string          `json:"description"`
	Date        string          `json:"date"` // YYYY-MM-DD
	Confidence  float64         `json:"confidence"`
}

// Persistable reports whether the parse is good enough to store.
// A zero amount means no amount token was found in the input.
func (p ParsedTransaction) Persistable() bool {
	return p.Amount.IsPositive() && p.Type.Valid()
}

// Transaction is one stored ledger entry.
type Transaction struct {
	ID          string
	Type        TransactionType
	Category    string
	CategoryID  string
	Merchant    string
	Description string

	// Amount is signed as stored: negative for expenses, positive for income.
	Amount decimal.Decimal

	Date      time.Time
	CreatedAt time.Time
}
