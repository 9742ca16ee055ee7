// Package lexicon holds the brand and category lookup tables used to normalize
// user queries and catalog records.
//
// A Lexicon is built once at startup and is read-only afterwards, so it can be
// shared by concurrent requests without locking.
package lexicon

import (
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Alias is a single alias to canonical brand substitution.
type Alias struct {
	From string
	To   string
}

// Lexicon is an immutable set of lookup tables.
type Lexicon struct {
	aliases      map[string]string
	aliasOrder   []Alias // longest alias first
	websites     map[string]string
	websiteOrder []BrandSite
	families     map[string]string
	productTypes []ProductType
	canonicals   []string
}

var (
	defaultOnce sync.Once
	defaultLex  *Lexicon
)

// Default returns the lexicon built from the built-in tables.
func Default() *Lexicon {
	defaultOnce.Do(func() {
		defaultLex = New(Extension{})
	})
	return defaultLex
}

// New builds a lexicon from the built-in tables merged with ext.
// Extension entries override built-ins with the same key; new brand sites and
// product types are appended after the built-in ones.
func New(ext Extension) *Lexicon {
	l := &Lexicon{
		aliases:  make(map[string]string, len(builtinAliases)+len(ext.BrandAliases)),
		websites: make(map[string]string, len(builtinWebsites)+len(ext.BrandWebsites)),
		families: make(map[string]string, len(builtinFamilies)+len(ext.Families)),
	}

	for k, v := range builtinAliases {
		l.aliases[k] = v
	}
	for k, v := range ext.BrandAliases {
		l.aliases[strings.ToLower(strings.TrimSpace(k))] = strings.ToLower(strings.TrimSpace(v))
	}

	for _, s := range append(append([]BrandSite{}, builtinWebsites...), ext.BrandWebsites...) {
		brand := strings.ToLower(strings.TrimSpace(s.Brand))
		if brand == "" || s.Domain == "" {
			continue
		}
		if _, seen := l.websites[brand]; !seen {
			l.websiteOrder = append(l.websiteOrder, BrandSite{Brand: brand, Domain: s.Domain})
		}
		l.websites[brand] = s.Domain
	}
	// Keep the order slice in sync with overridden domains.
	for i := range l.websiteOrder {
		l.websiteOrder[i].Domain = l.websites[l.websiteOrder[i].Brand]
	}

	for k, v := range builtinFamilies {
		l.families[k] = v
	}
	for k, v := range ext.Families {
		l.families[strings.ToLower(strings.TrimSpace(k))] = v
	}

	l.productTypes = append(append([]ProductType{}, builtinProductTypes...), ext.ProductTypes...)

	l.aliasOrder = make([]Alias, 0, len(l.aliases))
	for from, to := range l.aliases {
		l.aliasOrder = append(l.aliasOrder, Alias{From: from, To: to})
	}
	sort.Slice(l.aliasOrder, func(i, j int) bool {
		a, b := l.aliasOrder[i], l.aliasOrder[j]
		la, lb := utf8.RuneCountInString(a.From), utf8.RuneCountInString(b.From)
		if la != lb {
			return la > lb
		}
		return a.From < b.From
	})

	seen := make(map[string]bool)
	for _, to := range l.aliases {
		if !seen[to] {
			seen[to] = true
			l.canonicals = append(l.canonicals, to)
		}
	}
	for _, s := range l.websiteOrder {
		if !seen[s.Brand] {
			seen[s.Brand] = true
			l.canonicals = append(l.canonicals, s.Brand)
		}
	}
	sort.Strings(l.canonicals)

	return l
}

// NormalizeBrand maps an alias to its canonical brand.
// Aliases win over canonical spellings. Unknown input is returned verbatim.
func (l *Lexicon) NormalizeBrand(brand string) string {
	if brand == "" {
		return ""
	}
	folded := strings.ToLower(strings.TrimSpace(brand))
	if canonical, ok := l.aliases[folded]; ok {
		return canonical
	}
	if _, ok := l.websites[folded]; ok {
		return folded
	}
	return brand
}

// BrandWebsite returns the storefront domain of a canonical brand.
func (l *Lexicon) BrandWebsite(brand string) (string, bool) {
	if brand == "" {
		return "", false
	}
	domain, ok := l.websites[strings.ToLower(brand)]
	return domain, ok
}

// Aliases returns a copy of the alias table ordered longest alias first.
// Length is counted in characters, ties are broken by the alias text.
func (l *Lexicon) Aliases() []Alias {
	return slices.Clone(l.aliasOrder)
}

// Canonicals returns every canonical brand name, sorted.
func (l *Lexicon) Canonicals() []string {
	return slices.Clone(l.canonicals)
}

// Websites returns a copy of the brand site table in lookup order.
func (l *Lexicon) Websites() []BrandSite {
	return slices.Clone(l.websiteOrder)
}

// ProductTypes returns a copy of the product type table in lookup order.
func (l *Lexicon) ProductTypes() []ProductType {
	return slices.Clone(l.productTypes)
}

// ProductTypeKeywords returns the keywords of an exact product type phrase.
func (l *Lexicon) ProductTypeKeywords(phrase string) (string, bool) {
	if phrase == "" {
		return "", false
	}
	for _, pt := range l.productTypes {
		if pt.Phrase == phrase {
			return pt.Keywords, true
		}
	}
	return "", false
}

// NormalizeBrand uses the default lexicon.
func NormalizeBrand(brand string) string { return Default().NormalizeBrand(brand) }

// NormalizeFamily uses the default lexicon.
func NormalizeFamily(raw string) string { return Default().NormalizeFamily(raw) }

// BrandWebsite uses the default lexicon.
func BrandWebsite(brand string) (string, bool) { return Default().BrandWebsite(brand) }
