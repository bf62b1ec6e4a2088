package parse

import (
	"regexp"
	"time"
)

const dateLayout = "2006-01-02"

var (
	yesterdayRe = regexp.MustCompile(`(?i)\byesterday\b`)
	lastWeekRe  = regexp.MustCompile(`(?i)\blast week\b`)
)

// ResolveDate maps relative date phrases to an absolute calendar date.
// Only "yesterday" and "last week" are recognized, checked in that order;
// the first rule that fires wins and anything else resolves to now.
func ResolveDate(text string, now time.Time) string {
	switch {
	case yesterdayRe.MatchString(text):
		return now.AddDate(0, 0, -1).Format(dateLayout)
	case lastWeekRe.MatchString(text):
		return now.AddDate(0, 0, -7).Format(dateLayout)
	default:
		return now.Format(dateLayout)
	}
}
