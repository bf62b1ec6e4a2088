package pipeline

import (
	"regexp"
	"time"

	"github.com/xiello/tracy/internal/category"
	"github.com/xiello/tracy/internal/domain"
)

var isoDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Validator reconciles model-sourced parses against the catalog and canonical
// formats. Repairs are deterministic and silent: the caller gets a valid
// ParsedTransaction, never an error, even if the repaired values differ from
// what the model returned.
type Validator struct {
	catalog *category.Catalog
	now     func() time.Time
}

// NewValidator creates a validator over the given catalog.
func NewValidator(catalog *category.Catalog, now func() time.Time) *Validator {
	if now == nil {
		now = time.Now
	}
	return &Validator{catalog: catalog, now: now}
}

// Repair applies the repair rules in order:
//
//	(a) category: exact case-insensitive catalog match, else containment
//	    match, else the type-specific fallback — the raw model string never
//	    survives unresolved;
//	(b) amount forced to its absolute value;
//	(c) date replaced with today unless it is strictly YYYY-MM-DD;
//	(d) confidence clamped into [0,1].
//
// Applying Repair to an already-valid ParsedTransaction is a no-op.
func (v *Validator) Repair(p domain.ParsedTransaction) domain.ParsedTransaction {
	def := v.catalog.Resolve(p.Category, p.Type)
	p.Category = def.Name
	p.CategoryID = def.ID

	p.Amount = p.Amount.Abs()

	if !isoDateRe.MatchString(p.Date) {
		p.Date = v.now().Format("2006-01-02")
	}

	if p.Confidence < 0 {
		p.Confidence = 0
	} else if p.Confidence > 1 {
		p.Confidence = 1
	}

	return p
}
