// Package parse implements the deterministic rule-based transaction parser:
// amount, direction, date, category and merchant extraction from free text.
package parse

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountMatch is the result of scanning text for an amount token.
type AmountMatch struct {
	Amount decimal.Decimal
	Sign   string // "+", "-" or "" when no explicit sign was present
	Token  string // the exact matched substring, for description stripping
}

// Found reports whether an amount token was located. A zero amount always
// means "nothing matched"; zero-value transactions are not representable.
func (m AmountMatch) Found() bool {
	return !m.Amount.IsZero()
}

// Amount patterns in strict priority order. Only the first pattern that
// matches is used; later ones are never consulted.
var amountPatterns = []*regexp.Regexp{
	// (a) leading sign, optional currency symbol, digits with optional 1-2 digit fraction
	regexp.MustCompile(`([+-])\s*[$€£]?\s*(\d+(?:[.,]\d{1,2})?)`),
	// (b) currency symbol immediately before digits
	regexp.MustCompile(`[$€£]\s?(\d+(?:[.,]\d{1,2})?)`),
	// (c) digits immediately followed by a currency symbol
	regexp.MustCompile(`(\d+(?:[.,]\d{1,2})?)[$€£]`),
	// (d) bare digits, optionally followed by a currency code word
	regexp.MustCompile(`(?i)(\d+(?:[.,]\d{1,2})?)(?:\s?(?:eur|usd|euro|dollars?))?`),
}

// ExtractAmount locates the first amount token in text. When nothing matches,
// the returned amount is zero and the sign empty; callers must treat that as
// "no amount found", not as a valid zero-value transaction.
func ExtractAmount(text string) AmountMatch {
	for i, re := range amountPatterns {
		loc := re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		groups := re.FindStringSubmatch(text)
		token := groups[0]

		var sign, numStr string
		if i == 0 {
			sign = groups[1]
			numStr = groups[2]
		} else {
			numStr = groups[1]
		}

		// Decimal comma is normalized before conversion.
		numStr = strings.Replace(numStr, ",", ".", 1)
		amount, err := decimal.NewFromString(numStr)
		if err != nil {
			return AmountMatch{}
		}
		return AmountMatch{Amount: amount.Abs(), Sign: sign, Token: token}
	}
	return AmountMatch{}
}
