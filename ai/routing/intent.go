// Package routing classifies a product query into one of the agent intents.
package routing

import "strings"

// Intent is the classifier verdict that selects the dispatch branch.
type Intent string

const (
	IntentChat             Intent = "chat"
	IntentOther            Intent = "other"
	IntentQueryPrice       Intent = "query_price"
	IntentQueryPriceOnline Intent = "query_price_online"
)

// ParseIntent maps classifier output to an Intent. Anything unrecognized is
// treated as a local price query.
func ParseIntent(s string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentChat:
		return IntentChat
	case IntentOther:
		return IntentOther
	case IntentQueryPriceOnline:
		return IntentQueryPriceOnline
	default:
		return IntentQueryPrice
	}
}

// IsPriceQuery reports whether the intent runs a catalog lookup.
func (i Intent) IsPriceQuery() bool {
	return i == IntentQueryPrice || i == IntentQueryPriceOnline
}

// Decision is the classifier result.
type Decision struct {
	Intent Intent `json:"intent"`
	// Hint is the product name or reference extracted from the query.
	Hint string `json:"hint"`
	// Message is a short reply for non price intents, may be empty.
	Message string `json:"message"`
}

// DefaultDecision is used when no classifier answer is available.
func DefaultDecision(text string) Decision {
	return Decision{Intent: IntentQueryPrice, Hint: text}
}
