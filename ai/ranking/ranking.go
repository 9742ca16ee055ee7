// Package ranking scores catalog records against a product query and keeps
// the best candidates.
package ranking

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/feeleurope/luxeagent/ai/query"
	"github.com/feeleurope/luxeagent/store"
)

// Score weights.
const (
	scoreRefExact    = 120
	scoreRefPartial  = 80
	scoreNameExact   = 70
	scoreNamePartial = 45
	scoreBrand       = 15
	scoreToken       = 5
	maxTokenScore    = 25

	minNamePartialLen = 3
	minTokenLen       = 2
)

// DefaultTopK is the candidate count used by price lookups.
const DefaultTopK = 5

// Candidate is a record with its score for one query.
type Candidate struct {
	Score  int
	Record store.Record
}

// Score computes the additive match score of rec for q. Zero means no match.
func Score(rec store.Record, q string) int {
	q = fold(q)
	if q == "" {
		return 0
	}
	return score(rec, q, query.Tokenize(q))
}

func score(rec store.Record, q string, tokens []string) int {
	ref := fold(rec.Reference())
	name := fold(rec.Name())
	brand := fold(rec.Brand())

	total := 0
	if ref != "" {
		if q == ref {
			total += scoreRefExact
		} else if strings.Contains(q, ref) || strings.Contains(ref, q) {
			total += scoreRefPartial
		}
	}

	if name != "" {
		if q == name {
			total += scoreNameExact
		} else if utf8.RuneCountInString(q) >= minNamePartialLen && strings.Contains(name, q) {
			total += scoreNamePartial
		}
	}

	if brand != "" && (q == brand || strings.Contains(q, brand)) {
		total += scoreBrand
	}

	if len(tokens) > 0 {
		hay := ref + " " + name + " " + brand + " " + strings.ToLower(rec.Text(store.FieldDescription))
		hits := 0
		for _, t := range tokens {
			if utf8.RuneCountInString(t) < minTokenLen {
				continue
			}
			if strings.Contains(hay, t) {
				hits++
			}
		}
		total += min(maxTokenScore, hits*scoreToken)
	}
	return total
}

// Rank scores every record, drops non-matches and returns the k best in
// descending score order. Ties keep catalog order. k <= 0 keeps everything.
func Rank(records []store.Record, q string, k int) []Candidate {
	q = fold(q)
	if q == "" {
		return nil
	}
	tokens := query.Tokenize(q)

	var scored []Candidate
	for _, rec := range records {
		if s := score(rec, q, tokens); s > 0 {
			scored = append(scored, Candidate{Score: s, Record: rec})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if k > 0 && len(scored) > k {
		scored = scored[:k]
	}
	return scored
}

// Brief is the redacted view of a candidate handed to the responder.
type Brief struct {
	Score       int    `json:"score"`
	Designation string `json:"designation"`
	Brand       string `json:"Marque"`
	Reference   string `json:"produit"`
	Price       any    `json:"Prix_Vente"`
	Link        string `json:"Lien_Externe"`
	Photo       string `json:"Perso_Lien_Photo"`
}

// ToBriefs projects candidates to briefs.
func ToBriefs(candidates []Candidate) []Brief {
	briefs := make([]Brief, 0, len(candidates))
	for _, c := range candidates {
		price := c.Record.Price()
		if price == nil {
			price = ""
		}
		briefs = append(briefs, Brief{
			Score:       c.Score,
			Designation: c.Record.Name(),
			Brand:       c.Record.Brand(),
			Reference:   c.Record.Reference(),
			Price:       price,
			Link:        c.Record.Link(),
			Photo:       c.Record.Photo(),
		})
	}
	return briefs
}

func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
