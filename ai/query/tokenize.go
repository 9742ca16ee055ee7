// Package query normalizes free-text product queries before matching and search.
package query

import (
	"regexp"
	"strings"
)

// Pre-compiled patterns.
var (
	tokenSplitRegex = regexp.MustCompile(`[^a-z0-9\x{4e00}-\x{9fa5}]+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// quoteReplacer folds curly and bracket quotes to a straight double quote and
// full-width punctuation to ASCII.
var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`, "‘", `"`, "’", `"`,
	"「", `"`, "」", `"`, "『", `"`, "』", `"`, "【", `"`, "】", `"`,
	"，", ",", "。", ".", "！", "!", "？", "?", "；", ";", "：", ":",
)

// Tokenize lowercases text and splits it on anything that is not an ASCII
// letter, digit or CJK ideograph. Empty tokens are dropped.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	parts := tokenSplitRegex.Split(strings.ToLower(text), -1)
	tokens := parts[:0]
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// Clean trims the query, collapses whitespace runs and normalizes quotes and
// full-width punctuation.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}
	s := whitespaceRegex.ReplaceAllString(strings.TrimSpace(raw), " ")
	return quoteReplacer.Replace(s)
}
