package parse

import (
	"regexp"
	"strings"
)

// MerchantMatch carries the extracted merchant plus the exact substring that
// produced it, so the parser can strip it from the description residue.
type MerchantMatch struct {
	Merchant string
	Token    string
}

var (
	atSignRe = regexp.MustCompile(`@\s*([^,]+)`)
	atWordRe = regexp.MustCompile(`(?i)\bat\s+([^,]+)`)
)

// ExtractMerchant pulls a merchant/location from the original-case text.
// Rules in priority order, first satisfied rule wins:
//  1. text after an "@" marker, up to the next comma
//  2. text after the word "at", up to the next comma
//  3. with three or more comma-separated parts, the third part
func ExtractMerchant(text string) MerchantMatch {
	if m := atSignRe.FindStringSubmatch(text); m != nil {
		return MerchantMatch{Merchant: strings.TrimSpace(m[1]), Token: m[0]}
	}
	if m := atWordRe.FindStringSubmatch(text); m != nil {
		return MerchantMatch{Merchant: strings.TrimSpace(m[1]), Token: m[0]}
	}
	parts := strings.Split(text, ",")
	if len(parts) >= 3 {
		third := strings.TrimSpace(parts[2])
		if third != "" {
			return MerchantMatch{Merchant: third, Token: parts[2]}
		}
	}
	return MerchantMatch{}
}
