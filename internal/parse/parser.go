package parse

import (
	"strings"
	"time"

	"github.com/xiello/tracy/internal/category"
	"github.com/xiello/tracy/internal/domain"
)

// Parser composes the five extractors into a full rule-based parse.
// It is deterministic: the same text with the same clock yields the same
// ParsedTransaction.
type Parser struct {
	catalog *category.Catalog
	now     func() time.Time
}

// Option configures a Parser.
type Option func(*Parser)

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(p *Parser) { p.now = now }
}

// NewParser creates a rule-based parser over the given catalog.
func NewParser(catalog *category.Catalog, opts ...Option) *Parser {
	p := &Parser{catalog: catalog, now: time.Now}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse extracts a structured transaction from free text. It never fails:
// missing amounts surface as a zero amount, unknown categories as the type
// fallback. Confidence is exactly the category matcher's value.
func (p *Parser) Parse(text string) domain.ParsedTransaction {
	amount := ExtractAmount(text)
	txType := ClassifyDirection(text, amount.Sign)
	date := ResolveDate(text, p.now())

	lower := strings.ToLower(text)
	def, confidence := MatchCategory(lower, txType, p.catalog)
	merchant := ExtractMerchant(text)

	return domain.ParsedTransaction{
		Amount:      amount.Amount,
		Type:        txType,
		Category:    def.Name,
		CategoryID:  def.ID,
		Merchant:    merchant.Merchant,
		Description: deriveDescription(text, amount.Token, merchant.Token, def.Name),
		Date:        date,
		Confidence:  confidence,
	}
}

// deriveDescription strips the amount token, the merchant token and relative
// date words from the original text, then tidies what is left. A residue
// shorter than two characters falls back to the category display name.
func deriveDescription(text, amountToken, merchantToken, categoryName string) string {
	residue := text
	if amountToken != "" {
		residue = strings.Replace(residue, amountToken, " ", 1)
	}
	if merchantToken != "" {
		residue = strings.Replace(residue, merchantToken, " ", 1)
	}
	residue = yesterdayRe.ReplaceAllString(residue, " ")
	residue = lastWeekRe.ReplaceAllString(residue, " ")
	residue = strings.ReplaceAll(residue, ",", " ")
	residue = strings.Join(strings.Fields(residue), " ")
	residue = strings.Trim(residue, "@ ")

	if len(residue) < 2 {
		if categoryName != "" {
			return categoryName
		}
		return "Transaction"
	}
	return strings.ToUpper(residue[:1]) + residue[1:]
}
