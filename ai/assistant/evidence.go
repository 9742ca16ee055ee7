package assistant

import (
	"regexp"
	"strings"

	"github.com/feeleurope/luxeagent/ai/internal/strutil"
)

const (
	maxEvidenceLines = 8
	maxEvidenceLen   = 220
)

// priceRegex matches euro, dollar, pound and yuan amounts.
var priceRegex = regexp.MustCompile(`(?i)` +
	`(€\s?\d{1,3}(?:[\s,\.]\d{3})*(?:[\.,]\d{1,2})?)|` +
	`(\d{1,3}(?:[\s,\.]\d{3})*(?:[\.,]\d{1,2})?\s?€)|` +
	`(\$\s?\d{1,3}(?:[\s,\.]\d{3})*(?:[\.,]\d{1,2})?)|` +
	`(£\s?\d{1,3}(?:[\s,\.]\d{3})*(?:[\.,]\d{1,2})?)|` +
	`(\bRMB\b|\bCNY\b|人民幣|人民币|元)\s?\d+`)

// ExtractPriceEvidence returns up to eight distinct search result lines that
// carry an explicit price. Long lines are truncated.
func ExtractPriceEvidence(searchText string) []string {
	if searchText == "" {
		return nil
	}

	var evidence []string
	seen := make(map[string]bool)
	hits := 0
	for _, line := range strings.Split(searchText, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !priceRegex.MatchString(line) {
			continue
		}
		hits++
		if !seen[line] {
			seen[line] = true
			evidence = append(evidence, strutil.Truncate(line, maxEvidenceLen))
		}
		if hits >= maxEvidenceLines {
			break
		}
	}
	return evidence
}
