package parse

import (
	"strings"

	"github.com/xiello/tracy/internal/category"
	"github.com/xiello/tracy/internal/domain"
)

// Confidence levels produced by category matching. These are the only values
// the rule-based parser ever reports; the other extractors do not adjust them.
const (
	ConfidenceKeyword  = 0.85
	ConfidenceFallback = 0.5
)

// MatchCategory scans catalog categories of the given type in declared order
// and picks the first whose keyword appears as a substring of the lowercased
// text. First match wins, not best match; this mirrors how users order their
// own catalogs. No hit selects the type's fallback at reduced confidence.
func MatchCategory(lower string, t domain.TransactionType, cat *category.Catalog) (category.Definition, float64) {
	for _, def := range cat.ForType(t) {
		for _, kw := range def.Keywords {
			if strings.Contains(lower, kw) {
				return def, ConfidenceKeyword
			}
		}
	}
	return cat.Fallback(t), ConfidenceFallback
}
