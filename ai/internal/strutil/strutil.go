// Package strutil provides string utility functions for the ai package.
package strutil

import "unicode/utf8"

// Truncate cuts s to maxLen runes and appends "..." when anything was cut.
// Returns empty string if maxLen <= 0.
func Truncate(s string, maxLen int) string {
	if s == "" || maxLen <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	return Head(s, maxLen) + "..."
}

// Head returns the first n runes of s without any marker.
func Head(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
