package lexicon

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FamilySource tells how a family value was produced.
type FamilySource string

const (
	FamilyEmpty    FamilySource = "empty"
	FamilyExact    FamilySource = "exact"
	FamilyRule     FamilySource = "rule"
	FamilyUnmapped FamilySource = "unmapped"
)

// FamilyResult is a normalized category plus how it was resolved.
type FamilyResult struct {
	Value  string
	Source FamilySource
}

type familyRule struct {
	keywords []string
	family   string
}

// familyRules are evaluated in order, first match wins.
var familyRules = []familyRule{
	{keywords: []string{"sac", "maroquinerie", "portefeuille", "bagage"}, family: FamilyBags},
	{keywords: []string{"vêtement", "pret-a-porter", "prêt", "manteau"}, family: FamilyClothing},
	{keywords: []string{"chaussure", "souliers"}, family: FamilyShoes},
	{keywords: []string{"bijou"}, family: FamilyJewelry},
	{keywords: []string{"accessoire"}, family: FamilyAccessories},
}

func (r familyRule) match(key string) bool {
	for _, kw := range r.keywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

// ResolveFamily maps a raw catalog category to a canonical family.
func (l *Lexicon) ResolveFamily(raw string) FamilyResult {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return FamilyResult{Source: FamilyEmpty}
	}

	key := strings.ToLower(trimmed)
	if v, ok := l.families[key]; ok {
		return FamilyResult{Value: v, Source: FamilyExact}
	}

	for _, rule := range familyRules {
		if rule.match(key) {
			return FamilyResult{Value: rule.family, Source: FamilyRule}
		}
	}

	return FamilyResult{Value: capitalize(trimmed), Source: FamilyUnmapped}
}

// NormalizeFamily is ResolveFamily without the source.
func (l *Lexicon) NormalizeFamily(raw string) string {
	return l.ResolveFamily(raw).Value
}

// capitalize upper-cases the first character and lower-cases the rest.
func capitalize(s string) string {
	first, size := utf8.DecodeRuneInString(s)
	if first == utf8.RuneError {
		return s
	}
	head := cases.Upper(language.Und).String(string(first))
	tail := cases.Lower(language.Und).String(s[size:])
	return head + tail
}
