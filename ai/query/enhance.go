package query

import (
	"strconv"
	"strings"
	"time"

	"github.com/feeleurope/luxeagent/ai/lexicon"
)

// Season returns the collection season for a month.
func Season(m time.Month) string {
	switch {
	case m >= time.January && m <= time.March:
		return "Spring"
	case m >= time.April && m <= time.June:
		return "Summer"
	case m >= time.July && m <= time.September:
		return "Fall"
	default:
		return "Winter"
	}
}

// HasLatestIntent reports whether the query asks for new arrivals.
func HasLatestIntent(q string) bool {
	lower := strings.ToLower(q)
	for _, kw := range lexicon.LatestKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// EnhanceForSearch rewrites a query asking for new arrivals into a search
// engine friendly form: "new <query> collection <Season> <Year>".
// Queries without a latest keyword are only trimmed.
func EnhanceForSearch(q string, now time.Time) string {
	if !HasLatestIntent(q) {
		return strings.TrimSpace(q)
	}

	lower := strings.ToLower(q)
	enhanced := q
	if !strings.Contains(lower, "new") {
		enhanced = "new " + enhanced
	}
	if !strings.Contains(lower, "collection") {
		enhanced += " collection"
	}

	year := strconv.Itoa(now.Year())
	season := Season(now.Month())
	if !strings.Contains(lower, year) && !strings.Contains(lower, strings.ToLower(season)) {
		enhanced += " " + season + " " + year
	}
	return strings.TrimSpace(enhanced)
}
