package query

import (
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/feeleurope/luxeagent/ai/lexicon"
)

type substitution struct {
	from string
	to   string
}

// Processor applies the lexicon driven query transforms.
// It is immutable after construction and safe for concurrent use.
type Processor struct {
	lex *lexicon.Lexicon
	// substitutions indexed by the first byte of the pattern, longest first
	rules        map[byte][]substitution
	productTypes []lexicon.ProductType
	websites     []lexicon.BrandSite
}

var (
	defaultOnce sync.Once
	defaultProc *Processor
)

// Default returns a processor over the built-in lexicon.
func Default() *Processor {
	defaultOnce.Do(func() {
		defaultProc = NewProcessor(lexicon.Default())
	})
	return defaultProc
}

// NewProcessor builds a processor for lex.
func NewProcessor(lex *lexicon.Lexicon) *Processor {
	aliases := lex.Aliases()
	subs := make([]substitution, 0, len(aliases)+len(lex.Canonicals()))
	isAlias := make(map[string]bool, len(aliases))
	for _, a := range aliases {
		if a.From == "" {
			continue
		}
		isAlias[a.From] = true
		subs = append(subs, substitution{from: a.From, to: a.To})
	}
	// Canonical names map to themselves so an alias nested inside a canonical
	// name (louboutin in christian louboutin) is not expanded twice.
	for _, c := range lex.Canonicals() {
		if c != "" && !isAlias[c] {
			subs = append(subs, substitution{from: c, to: c})
		}
	}
	sort.SliceStable(subs, func(i, j int) bool {
		return utf8.RuneCountInString(subs[i].from) > utf8.RuneCountInString(subs[j].from)
	})

	rules := make(map[byte][]substitution)
	for _, s := range subs {
		rules[s.from[0]] = append(rules[s.from[0]], s)
	}
	return &Processor{
		lex:          lex,
		rules:        rules,
		productTypes: lex.ProductTypes(),
		websites:     lex.Websites(),
	}
}

// Lexicon returns the lexicon backing the processor.
func (p *Processor) Lexicon() *lexicon.Lexicon {
	return p.lex
}

// SubstituteBrands lowercases the query and replaces every brand alias with
// its canonical name. At each position the longest alias wins, and replaced
// text is never scanned again, so the result is stable under reapplication.
func (p *Processor) SubstituteBrands(q string) string {
	s := strings.ToLower(q)
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		if sub, ok := p.matchAt(s, i); ok {
			b.WriteString(sub.to)
			i += len(sub.from)
			continue
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		b.WriteString(s[i : i+size])
		i += size
	}
	return b.String()
}

func (p *Processor) matchAt(s string, i int) (substitution, bool) {
	for _, sub := range p.rules[s[i]] {
		if strings.HasPrefix(s[i:], sub.from) {
			return sub, true
		}
	}
	return substitution{}, false
}

// InjectProductType appends the first keyword of the first product type phrase
// found in the query, unless that keyword is already present.
// At most one keyword is injected.
func (p *Processor) InjectProductType(q string) string {
	lower := strings.ToLower(q)
	for _, pt := range p.productTypes {
		if pt.Phrase == "" || !strings.Contains(lower, strings.ToLower(pt.Phrase)) {
			continue
		}
		fields := strings.Fields(pt.Keywords)
		if len(fields) == 0 {
			return q
		}
		keyword := fields[0]
		if strings.Contains(lower, strings.ToLower(keyword)) {
			return q
		}
		return q + " " + keyword
	}
	return q
}

// BrandMatch is a brand found in a query.
type BrandMatch struct {
	Brand  string
	Domain string
}

// ExtractBrand substitutes aliases and returns the first brand of the site
// table that occurs in the query.
func (p *Processor) ExtractBrand(q string) (BrandMatch, bool) {
	normalized := p.SubstituteBrands(q)
	if normalized == "" {
		return BrandMatch{}, false
	}
	for _, site := range p.websites {
		if strings.Contains(normalized, site.Brand) {
			return BrandMatch{Brand: site.Brand, Domain: site.Domain}, true
		}
	}
	return BrandMatch{}, false
}

// SiteRestrictedFor appends a site: filter for the website of brand.
// Queries that already carry a site: filter are returned unchanged.
func (p *Processor) SiteRestrictedFor(q, brand string) string {
	domain, ok := p.lex.BrandWebsite(brand)
	if !ok {
		return q
	}
	return restrictToSite(q, domain)
}

func restrictToSite(q, domain string) string {
	if domain == "" || strings.Contains(strings.ToLower(q), "site:") {
		return q
	}
	return q + " site:" + domain
}

// Result holds every stage of Process.
type Result struct {
	Original   string
	Cleaned    string
	Normalized string
	// WithType is Normalized after product type injection.
	WithType string
	// Enhanced is the search engine form of WithType.
	Enhanced string
	Brand    BrandMatch
	HasBrand bool
}

// Process runs the full pipeline on a raw query.
func (p *Processor) Process(raw string, now time.Time) Result {
	cleaned := Clean(raw)
	normalized := p.SubstituteBrands(cleaned)
	withType := p.InjectProductType(normalized)
	brand, ok := p.ExtractBrand(normalized)
	return Result{
		Original:   raw,
		Cleaned:    cleaned,
		Normalized: normalized,
		WithType:   withType,
		Enhanced:   EnhanceForSearch(withType, now),
		Brand:      brand,
		HasBrand:   ok,
	}
}

// SubstituteBrands uses the default processor.
func SubstituteBrands(q string) string { return Default().SubstituteBrands(q) }

// InjectProductType uses the default processor.
func InjectProductType(q string) string { return Default().InjectProductType(q) }

// ExtractBrand uses the default processor.
func ExtractBrand(q string) (BrandMatch, bool) { return Default().ExtractBrand(q) }
